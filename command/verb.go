package command

import "strings"

// Verb identifies one element-interaction action from the closed command
// grammar. The set is fixed: every switch over Verb in this package and in
// the executor enumerates all fifteen members, so adding a verb is a
// compile-checked change at each consumption site.
type Verb string

const (
	Click            Verb = "CLICK"
	TypeText         Verb = "TYPE"
	Read             Verb = "READ"
	GetValue         Verb = "GETVALUE"
	ElementExists    Verb = "ELEMENT_EXISTS"
	IsVisible        Verb = "IS_VISIBLE"
	ScrollTo         Verb = "SCROLL_TO"
	Hover            Verb = "HOVER"
	GetURL           Verb = "GET_URL"
	GetAttribute     Verb = "GETATTRIBUTE"
	SetAttribute     Verb = "SETATTRIBUTE"
	SelectOption     Verb = "SELECTOPTION"
	GetAllAttributes Verb = "GET_ALL_ATTRIBUTES"
	WaitForElement   Verb = "WAIT_FOR_ELEMENT"
	GetAllText       Verb = "GET_ALL_TEXT"
)

// Verbs lists every recognized verb in grammar order.
var Verbs = []Verb{
	Click,
	TypeText,
	Read,
	GetValue,
	ElementExists,
	IsVisible,
	ScrollTo,
	Hover,
	GetURL,
	GetAttribute,
	SetAttribute,
	SelectOption,
	GetAllAttributes,
	WaitForElement,
	GetAllText,
}

var verbsByName = func() map[string]Verb {
	m := make(map[string]Verb, len(Verbs))
	for _, v := range Verbs {
		m[string(v)] = v
	}
	return m
}()

// ParseVerb resolves a raw token to a Verb, case-insensitively.
func ParseVerb(token string) (Verb, bool) {
	v, ok := verbsByName[strings.ToUpper(token)]
	return v, ok
}

// RequiresValue reports whether the verb cannot execute without a value.
func (v Verb) RequiresValue() bool {
	switch v {
	case TypeText, SetAttribute, SelectOption:
		return true
	}
	return false
}

// RequiresAttribute reports whether the verb cannot execute without an
// attribute name.
func (v Verb) RequiresAttribute() bool {
	switch v {
	case GetAttribute, SetAttribute, GetAllAttributes:
		return true
	}
	return false
}

// Usage returns the grammar form of the verb for help output.
func (v Verb) Usage() string {
	switch v {
	case Click:
		return "CLICK <selector>"
	case TypeText:
		return "TYPE <selector> <text>"
	case Read:
		return "READ <selector>"
	case GetValue:
		return "GETVALUE <selector>"
	case ElementExists:
		return "ELEMENT_EXISTS <selector>"
	case IsVisible:
		return "IS_VISIBLE <selector>"
	case ScrollTo:
		return "SCROLL_TO <selector>"
	case Hover:
		return "HOVER <selector>"
	case GetURL:
		return "GET_URL"
	case GetAttribute:
		return "GETATTRIBUTE <selector> <attribute>"
	case SetAttribute:
		return "SETATTRIBUTE <selector> <attribute> <value>"
	case SelectOption:
		return "SELECTOPTION <selector> <value>"
	case GetAllAttributes:
		return "GET_ALL_ATTRIBUTES <selector> <attribute>"
	case WaitForElement:
		return "WAIT_FOR_ELEMENT <selector> [timeout_ms]"
	case GetAllText:
		return "GET_ALL_TEXT <selector> [separator]"
	}
	return string(v)
}
