package tools

import "sort"

// Kind classifies how a registered function is executed.
type Kind string

const (
	// KindBuiltin runs in-process.
	KindBuiltin Kind = "builtin"
	// KindWebhook calls out to a configured HTTP endpoint.
	KindWebhook Kind = "webhook"
)

// Definition describes one callable function exposed to the assistant and
// listed in the dashboard's function registry.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// Registry is a static registration table of function definitions. Entries
// are fixed at construction; there is no runtime loading.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates a registry holding the given definitions.
func NewRegistry(defs ...Definition) *Registry {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return &Registry{defs: m}
}

// Get returns the definition registered under the given name.
// Returns false if the name is not registered.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// List returns all definitions sorted by name.
func (r *Registry) List() []Definition {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Definition, 0, len(names))
	for _, name := range names {
		out = append(out, r.defs[name])
	}
	return out
}

// Builtin returns the registry of functions shipped with the assistant.
func Builtin() *Registry {
	return NewRegistry(
		Definition{
			Name:        "current_time",
			Description: "Returns the current date and time in UTC",
			Kind:        KindBuiltin,
		},
		Definition{
			Name:        "remember",
			Description: "Stores a long-term memory entry for the current user",
			Kind:        KindBuiltin,
		},
		Definition{
			Name:        "recall",
			Description: "Searches the current user's long-term memories",
			Kind:        KindBuiltin,
		},
	)
}
