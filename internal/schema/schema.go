// Package schema decodes the persisted template schema shape into a
// validated model.Schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// CurrentVersion is the schema version written by this release
const CurrentVersion = 1

// Format of an encoded schema document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

type wireSchema struct {
	Version      int              `json:"version"`
	PaperSize    string           `json:"paperSize"`
	CustomWidth  *decimal.Decimal `json:"customWidth"`
	CustomHeight *decimal.Decimal `json:"customHeight"`
	RTL          *bool            `json:"rtl"`
	VATInclusive *bool            `json:"vatInclusive"`
	Language     string           `json:"language"`
	Sections     []wireSection    `json:"sections"`
}

type wireSection struct {
	ID      string              `json:"id"`
	Type    string              `json:"type"`
	Order   *int                `json:"order"`
	Visible *bool               `json:"visible"`
	Config  model.SectionConfig `json:"config"`
}

// Parse decodes and validates a schema document
func Parse(data []byte, format Format) (*model.Schema, error) {
	if format == FormatYAML {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &model.ValidationError{Field: "schema", Rule: "yaml", Message: "malformed YAML", Cause: err}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, &model.ValidationError{Field: "schema", Rule: "yaml", Message: "unsupported YAML value", Cause: err}
		}
		data = converted
	}

	var w wireSchema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, &model.ValidationError{Field: "schema", Rule: "json", Message: "malformed schema document", Cause: err}
	}

	s, err := w.toModel()
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseJSON is Parse with FormatJSON
func ParseJSON(data []byte) (*model.Schema, error) {
	return Parse(data, FormatJSON)
}

func (w *wireSchema) toModel() (*model.Schema, error) {
	s := &model.Schema{
		Version:      w.Version,
		PaperSize:    model.PaperSize(w.PaperSize),
		RTL:          w.RTL != nil && *w.RTL,
		VATInclusive: w.VATInclusive == nil || *w.VATInclusive,
		Language:     w.Language,
		Sections:     make([]model.Section, 0, len(w.Sections)),
	}
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if w.CustomWidth != nil {
		s.CustomWidth = *w.CustomWidth
	}
	if w.CustomHeight != nil {
		s.CustomHeight = *w.CustomHeight
	}

	for i, ws := range w.Sections {
		if ws.Order == nil {
			return nil, model.NewValidationError(fmt.Sprintf("sections[%d].order", i), nil, "required", "section order is required")
		}
		sec := model.Section{
			ID:      ws.ID,
			Kind:    model.SectionKind(ws.Type),
			Order:   *ws.Order,
			Visible: ws.Visible == nil || *ws.Visible,
			Config:  ws.Config,
		}
		if sec.ID == "" {
			sec.ID = fmt.Sprintf("%s-%d", ws.Type, i)
		}
		s.Sections = append(s.Sections, sec)
	}
	return s, nil
}

// Validate checks a schema before any rendering happens
func Validate(s *model.Schema) error {
	if s.Version < 1 || s.Version > CurrentVersion {
		return model.NewValidationError("version", s.Version, "supported", fmt.Sprintf("schema version must be between 1 and %d", CurrentVersion))
	}
	if !s.PaperSize.Valid() {
		return model.NewValidationError("paperSize", string(s.PaperSize), "enum", "unknown paper size")
	}
	if err := validateDimensions(s); err != nil {
		return err
	}
	if len(s.Sections) == 0 {
		return model.NewValidationError("sections", nil, "required", "schema must declare at least one section")
	}

	seen := make(map[string]int, len(s.Sections))
	for i, sec := range s.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		if !sec.Kind.Valid() {
			err := model.NewValidationError(field+".type", string(sec.Kind), "enum", "unknown section type")
			err.Cause = &model.UnsupportedSectionError{Kind: sec.Kind, SectionID: sec.ID}
			return err
		}
		if sec.ID == "" {
			return model.NewValidationError(field+".id", nil, "required", "section id is required")
		}
		if prev, dup := seen[sec.ID]; dup {
			return model.NewValidationError(field+".id", sec.ID, "unique", fmt.Sprintf("duplicates sections[%d]", prev))
		}
		seen[sec.ID] = i

		if sec.Kind == model.SectionSummary {
			if err := validateSummary(field, sec.Config.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateDimensions(s *model.Schema) error {
	if s.PaperSize != model.PaperCustom {
		if !s.CustomWidth.IsZero() || !s.CustomHeight.IsZero() {
			return model.NewValidationError("customWidth", s.CustomWidth.String(), "consistency",
				"custom dimensions are only allowed with the custom paper size")
		}
		return nil
	}
	if !s.CustomWidth.IsPositive() {
		return model.NewValidationError("customWidth", s.CustomWidth.String(), "positive", "custom paper size requires a positive width")
	}
	if s.CustomHeight.IsNegative() {
		return model.NewValidationError("customHeight", s.CustomHeight.String(), "non-negative", "custom height cannot be negative")
	}
	return nil
}

func validateSummary(field string, fields []model.SummaryField) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := fmt.Sprintf("%s.config.fields[%d]", field, i)
		switch f.Key {
		case model.SummarySubtotal, model.SummaryDiscount, model.SummaryTotalExclVAT,
			model.SummaryVAT, model.SummaryGrandTotal:
		default:
			return model.NewValidationError(name+".key", f.Key, "enum", "unknown summary field")
		}
		switch f.ShowWhen {
		case "", model.ShowAlways, model.ShowDiscountPositive:
		default:
			return model.NewValidationError(name+".showWhen", f.ShowWhen, "enum", "unknown summary predicate")
		}
		if seen[f.Key] {
			return model.NewValidationError(name+".key", f.Key, "unique", "summary field declared twice")
		}
		seen[f.Key] = true
	}
	return nil
}

// Marshal encodes a schema into its persisted JSON shape
func Marshal(s *model.Schema) ([]byte, error) {
	w := wireSchema{
		Version:      s.Version,
		PaperSize:    string(s.PaperSize),
		RTL:          &s.RTL,
		VATInclusive: &s.VATInclusive,
		Language:     s.Language,
		Sections:     make([]wireSection, 0, len(s.Sections)),
	}
	if s.PaperSize == model.PaperCustom {
		w.CustomWidth = &s.CustomWidth
		w.CustomHeight = &s.CustomHeight
	}
	for i := range s.Sections {
		sec := s.Sections[i]
		w.Sections = append(w.Sections, wireSection{
			ID:      sec.ID,
			Type:    string(sec.Kind),
			Order:   &s.Sections[i].Order,
			Visible: &s.Sections[i].Visible,
			Config:  sec.Config,
		})
	}
	return json.Marshal(w)
}
