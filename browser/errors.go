package browser

import (
	"errors"
	"fmt"
)

// Code tags a driver failure with its cause. The set mirrors the failure
// modes of page interaction itself and is stable across backends, so the
// executor can pass driver errors to callers without translation.
type Code string

const (
	CodeElementNotFound    Code = "ElementNotFound"
	CodeInvalidSelector    Code = "InvalidSelector"
	CodeElementTypeError   Code = "ElementTypeError"
	CodeAttributeNotFound  Code = "AttributeNotFound"
	CodeSetAttributeError  Code = "SetAttributeError"
	CodeSerializationError Code = "SerializationError"
	CodeInternalError      Code = "InternalError"
)

// DriverError is the failure type for every Driver operation.
type DriverError struct {
	Code    Code
	Message string
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsDriverError extracts a *DriverError from err's chain.
func AsDriverError(err error) (*DriverError, bool) {
	var derr *DriverError
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}

func notFoundErr(sel Selector) *DriverError {
	return &DriverError{
		Code:    CodeElementNotFound,
		Message: fmt.Sprintf("No element found for %s selector '%s'", sel.Label(), sel.Raw),
	}
}

func invalidSelectorErr(sel Selector, cause error) *DriverError {
	msg := fmt.Sprintf("Invalid CSS selector '%s'. Details: %v", sel.Raw, cause)
	if sel.Kind == SelectorXPath {
		msg = fmt.Sprintf("Invalid XPath expression '%s'. Details: %v", sel.Raw, cause)
	}
	return &DriverError{Code: CodeInvalidSelector, Message: msg}
}

func notInputErr(sel Selector) *DriverError {
	return &DriverError{
		Code:    CodeElementTypeError,
		Message: fmt.Sprintf("Element for selector '%s' is not an input element.", sel.Raw),
	}
}

func notSelectErr(sel Selector) *DriverError {
	return &DriverError{
		Code:    CodeElementTypeError,
		Message: fmt.Sprintf("Element for selector '%s' is not a select element.", sel.Raw),
	}
}

func attrNotFoundErr(sel Selector, name string) *DriverError {
	return &DriverError{
		Code:    CodeAttributeNotFound,
		Message: fmt.Sprintf("Attribute '%s' not found on element with selector '%s'", name, sel.Raw),
	}
}

func setAttrErr(sel Selector, name string, cause error) *DriverError {
	return &DriverError{
		Code:    CodeSetAttributeError,
		Message: fmt.Sprintf("Failed to set attribute '%s' on element with selector '%s'. Details: %v", name, sel.Raw, cause),
	}
}

func serializationErr(cause error) *DriverError {
	return &DriverError{
		Code:    CodeSerializationError,
		Message: fmt.Sprintf("Failed to serialize attributes to JSON. Details: %v", cause),
	}
}

func internalErr(action string, sel Selector, cause error) *DriverError {
	return &DriverError{
		Code:    CodeInternalError,
		Message: fmt.Sprintf("Failed to %s element with selector '%s'. Details: %v", action, sel.Raw, cause),
	}
}
