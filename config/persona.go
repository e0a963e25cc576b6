package config

import (
	"fmt"

	"pagepilot/persona"
)

// Persona is a persona block. Block order in the config files is the
// registry's registration order.
type Persona struct {
	Name     string   `hcl:"name,label"`
	Role     string   `hcl:"role"`
	Keywords []string `hcl:"keywords,optional"`
	Priority int      `hcl:"priority,optional"`
}

func (p *Persona) Validate() error {
	if !persona.ValidRole(persona.Role(p.Role)) {
		return fmt.Errorf("Unsupported role; Role '%s' is not supported. Supported roles: %v", p.Role, persona.Roles)
	}
	for _, kw := range p.Keywords {
		if kw == "" {
			return fmt.Errorf("Invalid keyword; keywords cannot contain the empty string")
		}
	}
	return nil
}

// PersonaRegistry builds the runtime registry from the config's persona
// blocks, in declaration order. A config with no persona blocks uses the
// built-in default registry.
func (c *Config) PersonaRegistry() *persona.Registry {
	if len(c.Personas) == 0 {
		return persona.Default()
	}
	personas := make([]persona.Persona, 0, len(c.Personas))
	for _, p := range c.Personas {
		personas = append(personas, persona.Persona{
			ID:       p.Name,
			Role:     persona.Role(p.Role),
			Keywords: p.Keywords,
			Priority: p.Priority,
		})
	}
	return persona.NewRegistry(personas)
}
