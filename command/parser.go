package command

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hashicorp/go-hclog"
)

// Parser matches raw task strings against the direct command grammar,
// short-circuiting the model round-trip for tasks that are already
// well-formed commands.
type Parser struct {
	log hclog.Logger
}

// NewParser returns a Parser. A nil logger disables parse diagnostics.
func NewParser(log hclog.Logger) *Parser {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Parser{log: log}
}

// ParseDirect returns the structured command for a task whose first token
// names a known verb with the arguments its arity demands. ok is false when
// the task does not match the grammar and must go to the model instead; a
// recognized verb with missing required arguments is also a miss, never an
// error.
func (p *Parser) ParseDirect(task string) (*Command, bool) {
	head, rest := splitToken(task)
	if head == "" {
		return nil, false
	}
	verb, ok := ParseVerb(head)
	if !ok {
		return nil, false
	}

	switch verb {
	case GetURL:
		if rest != "" {
			p.log.Debug("ignoring trailing arguments", "verb", verb, "args", rest)
		}
		return &Command{Verb: verb}, true

	case Click, Read, GetValue, ElementExists, IsVisible, ScrollTo, Hover:
		if rest == "" {
			return nil, false
		}
		return &Command{Verb: verb, Selector: rest}, true

	case TypeText, SelectOption:
		sel, value := splitToken(rest)
		if sel == "" || value == "" {
			return nil, false
		}
		return &Command{Verb: verb, Selector: sel, Value: &value}, true

	case GetAttribute, GetAllAttributes:
		sel, attr := splitToken(rest)
		if sel == "" || attr == "" {
			return nil, false
		}
		return &Command{Verb: verb, Selector: sel, Attribute: &attr}, true

	case SetAttribute:
		sel, rest := splitToken(rest)
		attr, value := splitToken(rest)
		if sel == "" || attr == "" || value == "" {
			return nil, false
		}
		return &Command{Verb: verb, Selector: sel, Attribute: &attr, Value: &value}, true

	case WaitForElement:
		sel, tail := splitToken(rest)
		if sel == "" {
			return nil, false
		}
		cmd := &Command{Verb: verb, Selector: sel}
		if tail != "" {
			if isUint(tail) {
				cmd.Value = &tail
			} else {
				p.log.Debug("discarding non-numeric timeout token", "verb", verb, "token", tail)
			}
		}
		return cmd, true

	case GetAllText:
		sel, tail := splitToken(rest)
		if sel == "" {
			return nil, false
		}
		cmd := &Command{Verb: verb, Selector: sel}
		if sep, quoted := unquote(tail); quoted {
			cmd.Value = &sep
		} else if tail != "" {
			cmd.Value = &tail
		}
		return cmd, true
	}
	return nil, false
}

// splitToken cuts the first whitespace-delimited token off s, returning the
// token and the trimmed remainder.
func splitToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// unquote strips a matching pair of double quotes. A quoted empty string is
// a legal separator, so the bool reports whether quotes were present rather
// than whether the result is non-empty.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return s, false
}

func isUint(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
