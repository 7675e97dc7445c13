package model

import "fmt"

// ValidationError represents a malformed template or schema. It is raised
// before rendering starts.
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// EncodingError is raised when a compliance field cannot be TLV encoded
type EncodingError struct {
	Tag     byte
	Length  int
	Limit   int
	Message string
}

func (e *EncodingError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("encoding failed [tag %d]: %s (length=%d, limit=%d)", e.Tag, e.Message, e.Length, e.Limit)
	}
	return fmt.Sprintf("encoding failed [tag %d]: %s", e.Tag, e.Message)
}

// NewEncodingError creates a new encoding error
func NewEncodingError(tag byte, length, limit int, message string) *EncodingError {
	return &EncodingError{
		Tag:     tag,
		Length:  length,
		Limit:   limit,
		Message: message,
	}
}

// NotFoundError is raised when a template, sale or branch does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ActiveTemplateProtectedError blocks destructive actions on the active template
type ActiveTemplateProtectedError struct {
	TemplateID string
}

func (e *ActiveTemplateProtectedError) Error() string {
	return fmt.Sprintf("template %s is active and cannot be deleted", e.TemplateID)
}

// UnsupportedSectionError is raised for a section kind without a renderer
type UnsupportedSectionError struct {
	Kind      SectionKind
	SectionID string
}

func (e *UnsupportedSectionError) Error() string {
	if e.SectionID != "" {
		return fmt.Sprintf("unsupported section type %q (section %s)", e.Kind, e.SectionID)
	}
	return fmt.Sprintf("unsupported section type %q", e.Kind)
}
