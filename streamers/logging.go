package streamers

import "github.com/hashicorp/go-hclog"

// NewLogging returns a RunHandler that records run events on a structured
// logger. The serve path tees it behind the websocket handler so runs stay
// visible in server logs.
func NewLogging(log hclog.Logger) RunHandler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return loggingHandler{log: log}
}

type loggingHandler struct {
	log hclog.Logger
}

func (h loggingHandler) RunStarted(taskCount int) {
	h.log.Info("run started", "tasks", taskCount)
}

func (h loggingHandler) RunCompleted(taskCount int) {
	h.log.Info("run completed", "tasks", taskCount)
}

func (h loggingHandler) TaskStarted(index int, task string) {
	h.log.Info("task started", "task", index, "text", task)
}

func (h loggingHandler) TaskInterpreting(index int, personaID string) {
	h.log.Debug("task interpreting", "task", index, "persona", personaID)
}

func (h loggingHandler) TaskCompleted(index int, message string) {
	h.log.Info("task completed", "task", index, "chars", len(message))
}

func (h loggingHandler) TaskFailed(index int, err error) {
	h.log.Warn("task failed", "task", index, "error", err)
}
