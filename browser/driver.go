package browser

import "time"

// Defaults applied by callers when a command carries no explicit argument.
const (
	// DefaultWaitTimeoutMs bounds WaitFor when the command names no timeout.
	DefaultWaitTimeoutMs uint64 = 5000
	// DefaultSeparator joins multi-element text when the command names no
	// separator.
	DefaultSeparator = ", "
)

// navigateTimeout bounds full page loads for the in-process backends.
const navigateTimeout = 30 * time.Second

// Driver is the element-interaction service: one live page session against
// which structured commands execute. Selectors use the css:/xpath: prefix
// convention (bare selectors are CSS). Every operation failure is a
// *DriverError carrying one of the Code values, so callers can surface the
// failure verbatim.
//
// Implementations are not safe for concurrent use; the task loop is
// strictly sequential and drives one operation at a time.
type Driver interface {
	// Navigate opens the given URL in the session's page.
	Navigate(url string) error

	// URL reports the page's current address.
	URL() (string, error)

	// Click clicks the first element matching the selector.
	Click(selector string) error

	// SetValue writes the value of the first matching input element.
	SetValue(selector, value string) error

	// Text returns the rendered text of the first matching element.
	Text(selector string) (string, error)

	// Value reads the value of the first matching input element.
	Value(selector string) (string, error)

	// Attribute reads a named attribute from the first matching element.
	// A present element without the attribute is an AttributeNotFound
	// failure, distinct from an empty attribute value.
	Attribute(selector, name string) (string, error)

	// SetAttribute writes a named attribute on the first matching element.
	SetAttribute(selector, name, value string) error

	// SelectOption sets a dropdown's value. A value matching no option is
	// not an error; the browser leaves the selection unchanged.
	SelectOption(selector, value string) error

	// AllAttributes reads a named attribute from every matching element and
	// returns a JSON array, null for elements missing the attribute. Zero
	// matches is a success with "[]".
	AllAttributes(selector, name string) (string, error)

	// Exists reports whether any element matches the selector.
	Exists(selector string) (bool, error)

	// Visible reports whether the first matching element is rendered
	// visibly. A missing element is not visible, not an error.
	Visible(selector string) (bool, error)

	// ScrollTo scrolls the first matching element into view.
	ScrollTo(selector string) error

	// Hover moves pointer focus onto the first matching element.
	Hover(selector string) error

	// WaitFor blocks until the selector matches a visible element or the
	// timeout elapses. The only suspending operation; a timeout surfaces as
	// ElementNotFound.
	WaitFor(selector string, timeoutMs uint64) error

	// AllText joins the text of every matching element with the separator.
	AllText(selector, separator string) (string, error)

	// Close releases the page session and the browser behind it.
	Close() error
}
