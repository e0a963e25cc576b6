package browser

import "strings"

// SelectorKind distinguishes the two supported locator languages.
type SelectorKind int

const (
	SelectorCSS SelectorKind = iota
	SelectorXPath
)

// Selector is a parsed element locator. Raw keeps the caller's original
// spelling, prefix included, because error messages echo it back; Expr is
// the prefix-stripped expression handed to the page.
type Selector struct {
	Raw  string
	Kind SelectorKind
	Expr string
}

// ParseSelector resolves the css:/xpath: prefix convention. A bare selector
// is CSS.
func ParseSelector(raw string) Selector {
	if expr, ok := strings.CutPrefix(raw, "xpath:"); ok {
		return Selector{Raw: raw, Kind: SelectorXPath, Expr: expr}
	}
	if expr, ok := strings.CutPrefix(raw, "css:"); ok {
		return Selector{Raw: raw, Kind: SelectorCSS, Expr: expr}
	}
	return Selector{Raw: raw, Kind: SelectorCSS, Expr: raw}
}

// Label names the selector language for error messages.
func (s Selector) Label() string {
	if s.Kind == SelectorXPath {
		return "XPath"
	}
	return "CSS"
}
