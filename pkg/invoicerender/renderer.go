package invoicerender

import (
	"github.com/rezonia/invoice-renderer/internal/render"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

// Engine renders invoices and previews. It is safe for concurrent use.
type Engine = render.Engine

// Option configures an Engine
type Option = render.Option

// Engine options
var (
	WithRegistry    = render.WithRegistry
	WithLogger      = render.WithLogger
	WithQRImageSize = render.WithQRImageSize
	WithLanguage    = render.WithDefaultLanguage
)

// NewEngine creates an engine with every built-in section renderer
func NewEngine(opts ...Option) *Engine {
	return render.NewEngine(opts...)
}

// ParseSchema decodes and validates a schema document
func ParseSchema(data []byte, format Format) (*Schema, error) {
	return schema.Parse(data, format)
}

// MarshalSchema encodes a schema into its persisted JSON shape
func MarshalSchema(s *Schema) ([]byte, error) {
	return schema.Marshal(s)
}

// SampleSale returns the placeholder sale used for previews
func SampleSale() *Sale {
	return render.SampleSale()
}

// SampleBranch returns the placeholder seller used for previews
func SampleBranch() *Branch {
	return render.SampleBranch()
}
