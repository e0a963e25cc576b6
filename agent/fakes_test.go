package agent_test

import (
	"context"
	"errors"
	"fmt"

	"pagepilot/browser"
	"pagepilot/llm"
	"pagepilot/streamers"
)

func strptr(s string) *string { return &s }

// scriptedDriver satisfies browser.Driver with per-method hooks. A nil hook
// succeeds with zero values; every invocation is recorded by method name so
// specs can assert call counts and ordering.
type scriptedDriver struct {
	calls []string

	navigate      func(url string) error
	url           func() (string, error)
	click         func(selector string) error
	setValue      func(selector, value string) error
	text          func(selector string) (string, error)
	value         func(selector string) (string, error)
	attribute     func(selector, name string) (string, error)
	setAttribute  func(selector, name, value string) error
	selectOption  func(selector, value string) error
	allAttributes func(selector, name string) (string, error)
	exists        func(selector string) (bool, error)
	visible       func(selector string) (bool, error)
	scrollTo      func(selector string) error
	hover         func(selector string) error
	waitFor       func(selector string, timeoutMs uint64) error
	allText       func(selector, separator string) (string, error)
	close         func() error
}

var _ browser.Driver = (*scriptedDriver)(nil)

func (d *scriptedDriver) record(name string) {
	d.calls = append(d.calls, name)
}

func (d *scriptedDriver) callCount(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (d *scriptedDriver) Navigate(url string) error {
	d.record("Navigate")
	if d.navigate != nil {
		return d.navigate(url)
	}
	return nil
}

func (d *scriptedDriver) URL() (string, error) {
	d.record("URL")
	if d.url != nil {
		return d.url()
	}
	return "", nil
}

func (d *scriptedDriver) Click(selector string) error {
	d.record("Click")
	if d.click != nil {
		return d.click(selector)
	}
	return nil
}

func (d *scriptedDriver) SetValue(selector, value string) error {
	d.record("SetValue")
	if d.setValue != nil {
		return d.setValue(selector, value)
	}
	return nil
}

func (d *scriptedDriver) Text(selector string) (string, error) {
	d.record("Text")
	if d.text != nil {
		return d.text(selector)
	}
	return "", nil
}

func (d *scriptedDriver) Value(selector string) (string, error) {
	d.record("Value")
	if d.value != nil {
		return d.value(selector)
	}
	return "", nil
}

func (d *scriptedDriver) Attribute(selector, name string) (string, error) {
	d.record("Attribute")
	if d.attribute != nil {
		return d.attribute(selector, name)
	}
	return "", nil
}

func (d *scriptedDriver) SetAttribute(selector, name, value string) error {
	d.record("SetAttribute")
	if d.setAttribute != nil {
		return d.setAttribute(selector, name, value)
	}
	return nil
}

func (d *scriptedDriver) SelectOption(selector, value string) error {
	d.record("SelectOption")
	if d.selectOption != nil {
		return d.selectOption(selector, value)
	}
	return nil
}

func (d *scriptedDriver) AllAttributes(selector, name string) (string, error) {
	d.record("AllAttributes")
	if d.allAttributes != nil {
		return d.allAttributes(selector, name)
	}
	return "[]", nil
}

func (d *scriptedDriver) Exists(selector string) (bool, error) {
	d.record("Exists")
	if d.exists != nil {
		return d.exists(selector)
	}
	return false, nil
}

func (d *scriptedDriver) Visible(selector string) (bool, error) {
	d.record("Visible")
	if d.visible != nil {
		return d.visible(selector)
	}
	return false, nil
}

func (d *scriptedDriver) ScrollTo(selector string) error {
	d.record("ScrollTo")
	if d.scrollTo != nil {
		return d.scrollTo(selector)
	}
	return nil
}

func (d *scriptedDriver) Hover(selector string) error {
	d.record("Hover")
	if d.hover != nil {
		return d.hover(selector)
	}
	return nil
}

func (d *scriptedDriver) WaitFor(selector string, timeoutMs uint64) error {
	d.record("WaitFor")
	if d.waitFor != nil {
		return d.waitFor(selector, timeoutMs)
	}
	return nil
}

func (d *scriptedDriver) AllText(selector, separator string) (string, error) {
	d.record("AllText")
	if d.allText != nil {
		return d.allText(selector, separator)
	}
	return "", nil
}

func (d *scriptedDriver) Close() error {
	d.record("Close")
	if d.close != nil {
		return d.close()
	}
	return nil
}

// scriptedProvider satisfies llm.Provider, answering queued replies in
// order and recording every request it saw.
type scriptedProvider struct {
	requests []*llm.ChatRequest
	replies  []string
	errs     []error
}

var _ llm.Provider = (*scriptedProvider)(nil)

func (p *scriptedProvider) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	turn := len(p.requests)
	p.requests = append(p.requests, req)
	if turn < len(p.errs) && p.errs[turn] != nil {
		return nil, p.errs[turn]
	}
	if turn >= len(p.replies) {
		return nil, errors.New("scripted provider: no reply queued")
	}
	return &llm.ChatResponse{
		ID:           fmt.Sprintf("resp-%d", turn),
		Content:      p.replies[turn],
		FinishReason: "stop",
	}, nil
}

// recordingHandler captures run events as strings for ordering assertions.
type recordingHandler struct {
	events []string
}

var _ streamers.RunHandler = (*recordingHandler)(nil)

func (h *recordingHandler) RunStarted(taskCount int) {
	h.events = append(h.events, fmt.Sprintf("run_started:%d", taskCount))
}

func (h *recordingHandler) RunCompleted(taskCount int) {
	h.events = append(h.events, fmt.Sprintf("run_completed:%d", taskCount))
}

func (h *recordingHandler) TaskStarted(index int, task string) {
	h.events = append(h.events, fmt.Sprintf("task_started:%d:%s", index, task))
}

func (h *recordingHandler) TaskInterpreting(index int, personaID string) {
	h.events = append(h.events, fmt.Sprintf("task_interpreting:%d:%s", index, personaID))
}

func (h *recordingHandler) TaskCompleted(index int, message string) {
	h.events = append(h.events, fmt.Sprintf("task_completed:%d:%s", index, message))
}

func (h *recordingHandler) TaskFailed(index int, err error) {
	h.events = append(h.events, fmt.Sprintf("task_failed:%d:%v", index, err))
}
