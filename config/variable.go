package config

import "fmt"

// Variable declares a named value other blocks reference as vars.<name>.
// Secret variables must come from the user vars file, never from config.
type Variable struct {
	Name    string `hcl:"name,label"`
	Default string `hcl:"default,optional"`
	Secret  bool   `hcl:"secret,optional"`
}

func (v *Variable) Validate() error {
	if v.Secret && v.Default != "" {
		return fmt.Errorf("Invalid secret; Secret variable '%s' cannot have a default value set in config", v.Name)
	}
	return nil
}
