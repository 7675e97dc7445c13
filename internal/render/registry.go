package render

import (
	"io"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// SectionRenderer renders one section kind into a markup fragment
type SectionRenderer interface {
	// Kind returns the section kind handled by this renderer
	Kind() model.SectionKind

	// Render writes the fragment for sec using the document data
	Render(w io.Writer, sec model.Section, doc *Document) error
}

// Registry dispatches sections to renderers by kind
type Registry struct {
	renderers map[model.SectionKind]SectionRenderer
}

// NewRegistry creates a registry holding exactly the given renderers
func NewRegistry(renderers ...SectionRenderer) *Registry {
	r := &Registry{renderers: make(map[model.SectionKind]SectionRenderer, len(renderers))}
	for _, sr := range renderers {
		r.Register(sr)
	}
	return r
}

// DefaultRegistry creates a registry with a renderer for every section kind
func DefaultRegistry() *Registry {
	return NewRegistry(
		HeaderRenderer{},
		TitleRenderer{},
		CustomerRenderer{},
		MetadataRenderer{},
		ItemsRenderer{},
		SummaryRenderer{},
		FooterRenderer{},
	)
}

// Register adds or replaces the renderer for its kind
func (r *Registry) Register(sr SectionRenderer) {
	r.renderers[sr.Kind()] = sr
}

// Lookup returns the renderer for sec's kind. A missing renderer is an
// error so no section is ever dropped silently.
func (r *Registry) Lookup(sec model.Section) (SectionRenderer, error) {
	sr, ok := r.renderers[sec.Kind]
	if !ok {
		return nil, &model.UnsupportedSectionError{Kind: sec.Kind, SectionID: sec.ID}
	}
	return sr, nil
}

// Kinds returns the kinds with a registered renderer, in document order
func (r *Registry) Kinds() []model.SectionKind {
	kinds := make([]model.SectionKind, 0, len(r.renderers))
	for _, k := range model.SectionKinds {
		if _, ok := r.renderers[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
