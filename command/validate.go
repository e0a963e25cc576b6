package command

import "fmt"

// Validate maps the proposed action onto the closed verb set and checks the
// verb's required fields, returning the executable command. Untrusted model
// output never reaches the executor without passing through here.
func (p *Proposed) Validate() (*Command, error) {
	verb, ok := ParseVerb(p.Action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q", p.Action)
	}
	if verb.RequiresValue() && p.Value == nil {
		return nil, fmt.Errorf("%s requires a value", verb)
	}
	if verb.RequiresAttribute() && p.Attribute == nil {
		return nil, fmt.Errorf("%s requires an attribute name", verb)
	}
	cmd := &Command{Verb: verb, Selector: p.Selector, Value: p.Value, Attribute: p.Attribute}
	if verb == WaitForElement && cmd.Value != nil && !isUint(*cmd.Value) {
		cmd.Value = nil
	}
	return cmd, nil
}
