// Package render turns a template schema and a sale into print-ready HTML.
//
// Rendering is pure: an Engine holds no mutable state, performs no I/O and
// may be shared by concurrent requests.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/rezonia/invoice-renderer/internal/compliance"
	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// Result is the outcome of one render
type Result struct {
	Markup    string   `json:"markup"`
	QRPayload string   `json:"qr_payload,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Engine orchestrates validation, section dispatch and layout
type Engine struct {
	registry *Registry
	logger   zerolog.Logger
	qrSize   int
	language string
}

// Option configures an Engine
type Option func(*Engine)

// WithRegistry replaces the section renderer registry
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets the logger used for non-fatal render warnings
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithQRImageSize sets the QR image edge in pixels
func WithQRImageSize(px int) Option {
	return func(e *Engine) {
		e.qrSize = px
	}
}

// WithDefaultLanguage sets the language used when a schema names none
func WithDefaultLanguage(lang string) Option {
	return func(e *Engine) {
		if lang != "" {
			e.language = lang
		}
	}
}

// NewEngine creates an engine with every built-in section renderer
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: DefaultRegistry(),
		logger:   zerolog.Nop(),
		qrSize:   compliance.DefaultImageSize,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderInvoice renders a real sale
func (e *Engine) RenderInvoice(s *model.Schema, sale *model.Sale, branch *model.Branch) (*Result, error) {
	if sale == nil {
		return nil, model.NewValidationError("sale", nil, "required", "sale is required")
	}
	if branch == nil {
		return nil, model.NewValidationError("branch", nil, "required", "branch is required")
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return e.render(s, sale, branch, false)
}

// RenderPreview renders the schema against the sample sale and branch
func (e *Engine) RenderPreview(s *model.Schema) (*Result, error) {
	return e.render(s, SampleSale(), SampleBranch(), true)
}

// RenderPreviewWithBranch renders the sample sale under a real branch
// identity. A nil branch falls back to the sample branch.
func (e *Engine) RenderPreviewWithBranch(s *model.Schema, branch *model.Branch) (*Result, error) {
	if branch == nil {
		branch = SampleBranch()
	}
	return e.render(s, SampleSale(), branch, true)
}

// GenerateComplianceQR returns the Base64 compliance payload for a sale
func (e *Engine) GenerateComplianceQR(sale *model.Sale, branch *model.Branch) (string, error) {
	if sale == nil || branch == nil {
		return "", model.NewValidationError("sale", nil, "required", "sale and branch are required")
	}
	return compliance.Generate(sale, branch)
}

func (e *Engine) render(s *model.Schema, sale *model.Sale, branch *model.Branch, preview bool) (*Result, error) {
	if s == nil {
		return nil, model.NewValidationError("schema", nil, "required", "schema is required")
	}
	if err := schema.Validate(s); err != nil {
		return nil, err
	}

	lang := s.Language
	if lang == "" {
		lang = e.language
	}
	doc := &Document{
		Schema:   s,
		Sale:     sale,
		Branch:   branch,
		Labels:   LabelsFor(lang),
		Language: lang,
		Preview:  preview,
	}
	result := &Result{}

	planned := Plan(s)
	if wantsQR(planned) {
		if err := e.attachQR(doc, result); err != nil {
			return nil, err
		}
	}

	parts := make([]Fragment, 0, len(planned))
	for _, sec := range planned {
		sr, err := e.registry.Lookup(sec)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := sr.Render(&buf, sec, doc); err != nil {
			return nil, fmt.Errorf("failed to render section %s: %w", sec.ID, err)
		}
		parts = append(parts, Fragment{
			SectionID: sec.ID,
			Kind:      sec.Kind,
			HTML:      template.HTML(buf.String()),
		})
	}

	markup, err := Compose(s, parts, doc)
	if err != nil {
		return nil, err
	}
	result.Markup = markup
	return result, nil
}

// wantsQR reports whether a visible footer prints the compliance QR
func wantsQR(planned []model.Section) bool {
	for _, sec := range planned {
		if sec.Kind == model.SectionFooter && model.Flag(sec.Config.ShowQR, true) {
			return true
		}
	}
	return false
}

// attachQR computes the compliance payload and image for doc. The QR is
// supplementary: encoding failures become warnings and the invoice still
// renders.
func (e *Engine) attachQR(doc *Document, result *Result) error {
	payload, err := compliance.Generate(doc.Sale, doc.Branch)
	if err != nil {
		var encErr *model.EncodingError
		if !errors.As(err, &encErr) {
			return err
		}
		e.logger.Warn().Err(err).Str("sale", doc.Sale.Number).Msg("compliance QR omitted")
		result.Warnings = append(result.Warnings, "compliance QR omitted: "+err.Error())
		return nil
	}
	result.QRPayload = payload
	doc.QRPayload = payload

	uri, err := compliance.DataURI(payload, e.qrSize)
	if err != nil {
		e.logger.Warn().Err(err).Str("sale", doc.Sale.Number).Msg("compliance QR image omitted")
		result.Warnings = append(result.Warnings, "compliance QR image omitted: "+err.Error())
		return nil
	}
	doc.QRImage = template.URL(uri)
	return nil
}
