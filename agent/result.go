package agent

// Result is the outcome of one task or one batch item: exactly one of OK
// and Error is set. The JSON form is the external wire shape, so field
// names are load-bearing.
type Result struct {
	OK    *string `json:"ok,omitempty"`
	Error *Error  `json:"error,omitempty"`
}

func Success(message string) Result {
	return Result{OK: &message}
}

func Failure(kind Kind, message string) Result {
	return Result{Error: &Error{Kind: kind, Message: message}}
}

func (r Result) Succeeded() bool {
	return r.Error == nil
}

// Message returns the success payload or the failure message.
func (r Result) Message() string {
	if r.Error != nil {
		return r.Error.Message
	}
	if r.OK != nil {
		return *r.OK
	}
	return ""
}
