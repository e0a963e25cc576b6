package streamers

// RunHandler defines the interface for handling run execution events.
// Different implementations can handle stdout, websocket, etc.
type RunHandler interface {
	// Run lifecycle
	RunStarted(taskCount int)
	RunCompleted(taskCount int)

	// TaskStarted fires once per task with the zero-based index and the
	// task text after placeholder substitution.
	TaskStarted(index int, task string)

	// TaskInterpreting fires when a task misses the direct grammar and is
	// handed to the model under the named persona.
	TaskInterpreting(index int, personaID string)

	// Task outcome; exactly one fires per task.
	TaskCompleted(index int, message string)
	TaskFailed(index int, err error)
}

// Discard returns a RunHandler that drops every event.
func Discard() RunHandler {
	return discardHandler{}
}

type discardHandler struct{}

func (discardHandler) RunStarted(int)               {}
func (discardHandler) RunCompleted(int)             {}
func (discardHandler) TaskStarted(int, string)      {}
func (discardHandler) TaskInterpreting(int, string) {}
func (discardHandler) TaskCompleted(int, string)    {}
func (discardHandler) TaskFailed(int, error)        {}
