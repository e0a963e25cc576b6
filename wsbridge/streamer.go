package wsbridge

import (
	"errors"
	"sync"

	"pagepilot/agent"
)

// runStreamer forwards task lifecycle events to the connection as event
// envelopes. One run executes at a time per connection, so the mutex only
// guards the run ID handoff between runs.
type runStreamer struct {
	conn *conn

	mu    sync.Mutex
	runID string
}

func newRunStreamer(c *conn) *runStreamer {
	return &runStreamer{conn: c}
}

// begin tags subsequent events with the given run ID.
func (h *runStreamer) begin(runID string) {
	h.mu.Lock()
	h.runID = runID
	h.mu.Unlock()
}

func (h *runStreamer) id() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runID
}

func (h *runStreamer) sendEvent(t MessageType, payload any) {
	env, err := NewEvent(t, payload)
	if err != nil {
		h.conn.log.Error("marshal run event", "type", t, "error", err)
		return
	}
	h.conn.sendEnvelope(env)
}

func (h *runStreamer) RunStarted(taskCount int) {}

func (h *runStreamer) RunCompleted(taskCount int) {}

// TaskInterpreting is not part of the wire protocol.
func (h *runStreamer) TaskInterpreting(index int, personaID string) {}

func (h *runStreamer) TaskStarted(index int, task string) {
	h.sendEvent(TypeTaskStarted, &TaskStartedPayload{
		RunID: h.id(),
		Index: index,
		Task:  task,
	})
}

func (h *runStreamer) TaskCompleted(index int, message string) {
	h.sendEvent(TypeTaskCompleted, &TaskCompletedPayload{
		RunID:  h.id(),
		Index:  index,
		Result: message,
	})
}

func (h *runStreamer) TaskFailed(index int, err error) {
	payload := &TaskFailedPayload{RunID: h.id(), Index: index}
	var taskErr *agent.Error
	if errors.As(err, &taskErr) {
		payload.Kind = string(taskErr.Kind)
		payload.Error = taskErr.Message
	} else {
		payload.Error = err.Error()
	}
	h.sendEvent(TypeTaskFailed, payload)
}
