// Package store persists invoice templates and the per-branch active
// template selection.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// CopySuffix is appended to the name of a duplicated template
const CopySuffix = " (copy)"

// TemplateStore is the template persistence contract used by the server.
// At most one template per branch is active at any time.
type TemplateStore interface {
	// GetActive returns the active template of a branch, or nil when the
	// branch has none
	GetActive(ctx context.Context, branchID string) (*model.Template, error)

	// GetByID returns a template or a NotFoundError
	GetByID(ctx context.Context, id string) (*model.Template, error)

	// List returns the templates of a branch, oldest first
	List(ctx context.Context, branchID string) ([]model.Template, error)

	// SetActive makes id the only active template of its branch
	SetActive(ctx context.Context, id, actor string) (*model.Template, error)

	// Create stores a new inactive template with a fresh id
	Create(ctx context.Context, t *model.Template, actor string) (*model.Template, error)

	// Update replaces name and schema. Branch, active flag and creation
	// audit fields are preserved.
	Update(ctx context.Context, t *model.Template, actor string) (*model.Template, error)

	// Duplicate copies a template under a new id, inactive
	Duplicate(ctx context.Context, id, actor string) (*model.Template, error)

	// Delete removes an inactive template
	Delete(ctx context.Context, id string) error
}

// prepare validates an incoming template. The paper size defaults to the
// schema's when the caller leaves it empty.
func prepare(t *model.Template) error {
	if t == nil {
		return model.NewValidationError("template", nil, "required", "template is required")
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.PaperSize == "" {
		t.PaperSize = t.Schema.PaperSize
	}
	if err := schema.Validate(&t.Schema); err != nil {
		return err
	}
	return t.Validate()
}

// cloneSchema deep copies a schema through its persisted form so stored
// templates never share maps or pointers with callers
func cloneSchema(s model.Schema) (model.Schema, error) {
	data, err := schema.Marshal(&s)
	if err != nil {
		return model.Schema{}, fmt.Errorf("failed to encode schema: %w", err)
	}
	out, err := schema.ParseJSON(data)
	if err != nil {
		return model.Schema{}, err
	}
	return *out, nil
}

func sortTemplates(ts []model.Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		if ts[i].Name != ts[j].Name {
			return ts[i].Name < ts[j].Name
		}
		return ts[i].ID < ts[j].ID
	})
}
