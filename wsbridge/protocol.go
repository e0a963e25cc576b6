package wsbridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pagepilot/agent"
)

// MessageType identifies an envelope on the wire.
type MessageType string

const (
	// TypeRunTasks asks the server to execute a task sequence.
	TypeRunTasks MessageType = "run_tasks"

	// Task progress events streamed while a run executes.
	TypeTaskStarted   MessageType = "task_started"
	TypeTaskCompleted MessageType = "task_completed"
	TypeTaskFailed    MessageType = "task_failed"

	// TypeRunComplete answers a run_tasks request with the full ordered
	// outcome array.
	TypeRunComplete MessageType = "run_complete"

	// TypeError reports a refused or failed request.
	TypeError MessageType = "error"
)

// Error codes carried in ErrorPayload.
const (
	CodeInvalidPayload  = "invalid_payload"
	CodeUnsupportedType = "unsupported_type"
	CodeRunInProgress   = "run_in_progress"
	CodeSessionBound    = "session_bound"
	CodeSessionFailed   = "session_failed"
	CodeNavigateFailed  = "navigate_failed"
)

// Envelope frames every message in both directions. Requests carry a
// request ID; responses echo the request they answer; events carry none
// and correlate through the run ID in their payload.
type Envelope struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// RunTasksPayload is the client's run request. Model names a declared
// model block, empty for the config default; a connection's first run
// fixes the model for the connection's lifetime. URL, when set, is opened
// before the first task runs.
type RunTasksPayload struct {
	Tasks []string `json:"tasks"`
	Model string   `json:"model,omitempty"`
	URL   string   `json:"url,omitempty"`
}

// TaskStartedPayload announces a task about to execute. Index is
// zero-based; Task is the text after placeholder substitution.
type TaskStartedPayload struct {
	RunID string `json:"run_id"`
	Index int    `json:"index"`
	Task  string `json:"task"`
}

// TaskCompletedPayload carries a task's success output.
type TaskCompletedPayload struct {
	RunID  string `json:"run_id"`
	Index  int    `json:"index"`
	Result string `json:"result"`
}

// TaskFailedPayload carries a task's failure classification and message.
type TaskFailedPayload struct {
	RunID string `json:"run_id"`
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// RunCompletePayload closes a run with one outcome per task, index-aligned
// with the request's task list.
type RunCompletePayload struct {
	RunID   string         `json:"run_id"`
	Results []agent.Result `json:"results"`
}

// ErrorPayload explains why a request was refused.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRequest builds a request envelope with a fresh request ID.
func NewRequest(t MessageType, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return &Envelope{Type: t, RequestID: uuid.NewString(), Payload: data}, nil
}

// NewResponse builds an envelope answering the given request.
func NewResponse(requestID string, t MessageType, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return &Envelope{Type: t, RequestID: requestID, Payload: data}, nil
}

// NewEvent builds a one-way envelope with no request correlation.
func NewEvent(t MessageType, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return &Envelope{Type: t, Payload: data}, nil
}

// NewError builds an error envelope for the given request. An empty
// requestID marks a failure outside any request, such as a frame that is
// not valid JSON.
func NewError(requestID, code, message string) *Envelope {
	data, _ := json.Marshal(ErrorPayload{Code: code, Message: message})
	return &Envelope{Type: TypeError, RequestID: requestID, Payload: data}
}

// DecodePayload unmarshals an envelope's payload into v.
func DecodePayload(env *Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s envelope has no payload", env.Type)
	}
	return json.Unmarshal(env.Payload, v)
}
