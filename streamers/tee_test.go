package streamers_test

import (
	"errors"
	"fmt"

	"pagepilot/streamers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type capture struct {
	events []string
}

func (c *capture) RunStarted(taskCount int) {
	c.events = append(c.events, fmt.Sprintf("run_started:%d", taskCount))
}

func (c *capture) RunCompleted(taskCount int) {
	c.events = append(c.events, fmt.Sprintf("run_completed:%d", taskCount))
}

func (c *capture) TaskStarted(index int, task string) {
	c.events = append(c.events, fmt.Sprintf("task_started:%d:%s", index, task))
}

func (c *capture) TaskInterpreting(index int, personaID string) {
	c.events = append(c.events, fmt.Sprintf("task_interpreting:%d:%s", index, personaID))
}

func (c *capture) TaskCompleted(index int, message string) {
	c.events = append(c.events, fmt.Sprintf("task_completed:%d:%s", index, message))
}

func (c *capture) TaskFailed(index int, err error) {
	c.events = append(c.events, fmt.Sprintf("task_failed:%d:%v", index, err))
}

var _ = Describe("Tee", func() {
	It("fans every event out to all handlers in order", func() {
		first := &capture{}
		second := &capture{}
		tee := streamers.Tee(first, second)

		tee.RunStarted(2)
		tee.TaskStarted(0, "CLICK css:#go")
		tee.TaskInterpreting(0, "navigator")
		tee.TaskCompleted(0, "done")
		tee.TaskFailed(1, errors.New("boom"))
		tee.RunCompleted(2)

		want := []string{
			"run_started:2",
			"task_started:0:CLICK css:#go",
			"task_interpreting:0:navigator",
			"task_completed:0:done",
			"task_failed:1:boom",
			"run_completed:2",
		}
		Expect(first.events).To(Equal(want))
		Expect(second.events).To(Equal(want))
	})

	It("tolerates an empty handler list", func() {
		tee := streamers.Tee()
		tee.RunStarted(1)
		tee.RunCompleted(1)
	})
})

var _ = Describe("Discard", func() {
	It("drops every event", func() {
		h := streamers.Discard()
		h.RunStarted(1)
		h.TaskStarted(0, "x")
		h.TaskInterpreting(0, "generic")
		h.TaskCompleted(0, "y")
		h.TaskFailed(0, errors.New("z"))
		h.RunCompleted(1)
	})
})
