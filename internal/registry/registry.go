package registry

import (
	"sort"

	"github.com/halcyard/stackplan/internal/model"
)

// Registry holds the template catalog for a single application instance,
// keyed by template type.
type Registry struct {
	Templates map[string]*model.Template
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		Templates: make(map[string]*model.Template),
	}
}

// Lookup returns the template with the given type, or nil if unknown.
func (r *Registry) Lookup(templateType string) *model.Template {
	return r.Templates[templateType]
}

// Types returns all registered template types in lexical order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.Templates))
	for t := range r.Templates {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
