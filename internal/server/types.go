package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/render"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// TemplateRequest is the body of create and update calls. The schema uses
// the persisted JSON shape.
type TemplateRequest struct {
	Name   string          `json:"name" binding:"required"`
	Schema json.RawMessage `json:"schema" binding:"required"`
}

// TemplateResponse is a stored template
type TemplateResponse struct {
	ID        string          `json:"id"`
	BranchID  string          `json:"branch_id"`
	Name      string          `json:"name"`
	PaperSize string          `json:"paper_size"`
	Schema    json.RawMessage `json:"schema"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	CreatedBy string          `json:"created_by,omitempty"`
	UpdatedBy string          `json:"updated_by,omitempty"`
}

func newTemplateResponse(t *model.Template) (TemplateResponse, error) {
	data, err := schema.Marshal(&t.Schema)
	if err != nil {
		return TemplateResponse{}, fmt.Errorf("failed to encode schema: %w", err)
	}
	return TemplateResponse{
		ID:        t.ID,
		BranchID:  t.BranchID,
		Name:      t.Name,
		PaperSize: string(t.PaperSize),
		Schema:    data,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		CreatedBy: t.CreatedBy,
		UpdatedBy: t.UpdatedBy,
	}, nil
}

// TemplateListResponse wraps a branch's templates
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// PreviewRequest renders an unsaved schema. BranchID optionally swaps the
// sample seller for a real branch.
type PreviewRequest struct {
	Schema   json.RawMessage `json:"schema" binding:"required"`
	BranchID string          `json:"branch_id,omitempty"`
}

// RenderResponse is the JSON form of a render result
type RenderResponse struct {
	Markup    string   `json:"markup"`
	QRPayload string   `json:"qr_payload,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func newRenderResponse(r *render.Result) RenderResponse {
	return RenderResponse{Markup: r.Markup, QRPayload: r.QRPayload, Warnings: r.Warnings}
}

// QRResponse carries the Base64 compliance payload of a sale
type QRResponse struct {
	SaleID  string `json:"sale_id"`
	Payload string `json:"payload"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}
