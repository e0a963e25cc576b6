package command

import "strings"

// Command is a fully validated element-interaction command, ready for
// execution. Value is verb-dependent: the text for TYPE, the attribute
// value for SETATTRIBUTE, the option value for SELECTOPTION, the numeric
// wait bound for WAIT_FOR_ELEMENT, and the join separator for
// GET_ALL_TEXT. A nil Value or Attribute means the verb does not use it or
// the optional argument was absent.
type Command struct {
	Verb      Verb
	Selector  string
	Value     *string
	Attribute *string
}

// String reconstructs the command in grammar order for human-readable
// reporting.
func (c *Command) String() string {
	parts := []string{string(c.Verb)}
	if c.Selector != "" {
		parts = append(parts, c.Selector)
	}
	if c.Attribute != nil {
		parts = append(parts, *c.Attribute)
	}
	if c.Value != nil {
		parts = append(parts, *c.Value)
	}
	return strings.Join(parts, " ")
}

// Proposed is the untrusted wire shape a language model returns for one
// command. Nothing is guaranteed beyond JSON field types; Validate promotes
// it to a Command or explains why it cannot.
type Proposed struct {
	Action    string  `json:"action"`
	Selector  string  `json:"selector"`
	Value     *string `json:"value,omitempty"`
	Attribute *string `json:"attribute_name,omitempty"`
}
