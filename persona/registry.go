package persona

import (
	"errors"
	"strings"
)

// Registry holds the persona set in registration order. It is built once,
// from configuration or Default, and never mutated afterwards; registration
// order is the tie-break of last resort, so it is part of the contract.
type Registry struct {
	personas []Persona
}

// NewRegistry builds a registry from personas in the given order.
func NewRegistry(personas []Persona) *Registry {
	return &Registry{personas: personas}
}

// Default returns the built-in registry: a navigator and a form filler at
// equal priority, and a generic fallback that matches anything.
func Default() *Registry {
	return NewRegistry([]Persona{
		{
			ID:       "navigator",
			Role:     RoleNavigator,
			Keywords: []string{"navigate", "go to", "open", "visit", "page", "url", "link", "click"},
			Priority: 10,
		},
		{
			ID:       "form_filler",
			Role:     RoleFormFiller,
			Keywords: []string{"type", "fill", "enter", "input", "form", "select", "choose", "submit"},
			Priority: 10,
		},
		{
			ID:       "generic",
			Role:     RoleGeneric,
			Priority: 0,
		},
	})
}

// All returns the personas in registration order.
func (r *Registry) All() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

// Select picks exactly one persona for a task. Keyword matching is a
// lowercase substring test; among matches the highest priority wins, a tie
// goes to the first non-generic persona in registration order, and a task
// matching nothing falls back to the first zero-keyword persona. A registry
// with no fallback persona cannot serve unmatched tasks.
func (r *Registry) Select(task string) (Persona, error) {
	lowered := strings.ToLower(task)

	var matched []Persona
	for _, p := range r.personas {
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				matched = append(matched, p)
				break
			}
		}
	}

	if len(matched) == 0 {
		for _, p := range r.personas {
			if len(p.Keywords) == 0 {
				return p, nil
			}
		}
		return Persona{}, errors.New("no persona matched the task and no fallback persona (zero keywords) is registered")
	}

	best := matched[0].Priority
	for _, p := range matched[1:] {
		if p.Priority > best {
			best = p.Priority
		}
	}
	var top []Persona
	for _, p := range matched {
		if p.Priority == best {
			top = append(top, p)
		}
	}
	if len(top) == 1 {
		return top[0], nil
	}
	for _, p := range top {
		if p.Role != RoleGeneric {
			return p, nil
		}
	}
	return top[0], nil
}
