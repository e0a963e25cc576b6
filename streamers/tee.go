package streamers

// Tee fans every run event out to all handlers, in argument order. It lets a
// caller pair a user-facing handler with a background one (say, a websocket
// stream plus server logging) without either knowing about the other.
func Tee(handlers ...RunHandler) RunHandler {
	return teeHandler{handlers: handlers}
}

type teeHandler struct {
	handlers []RunHandler
}

func (t teeHandler) RunStarted(taskCount int) {
	for _, h := range t.handlers {
		h.RunStarted(taskCount)
	}
}

func (t teeHandler) RunCompleted(taskCount int) {
	for _, h := range t.handlers {
		h.RunCompleted(taskCount)
	}
}

func (t teeHandler) TaskStarted(index int, task string) {
	for _, h := range t.handlers {
		h.TaskStarted(index, task)
	}
}

func (t teeHandler) TaskInterpreting(index int, personaID string) {
	for _, h := range t.handlers {
		h.TaskInterpreting(index, personaID)
	}
}

func (t teeHandler) TaskCompleted(index int, message string) {
	for _, h := range t.handlers {
		h.TaskCompleted(index, message)
	}
}

func (t teeHandler) TaskFailed(index int, err error) {
	for _, h := range t.handlers {
		h.TaskFailed(index, err)
	}
}
