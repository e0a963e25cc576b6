package agent_test

import (
	"encoding/json"

	"pagepilot/agent"
	"pagepilot/browser"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func rawBatch(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		out = append(out, json.RawMessage(it))
	}
	return out
}

var _ = Describe("ExecuteBatch", func() {
	var (
		driver *scriptedDriver
		exec   *agent.Executor
	)

	BeforeEach(func() {
		driver = &scriptedDriver{}
		exec = agent.NewExecutor(driver, nil)
	})

	It("returns one result per item, index-aligned", func() {
		driver.text = func(string) (string, error) { return "body text", nil }
		results := exec.ExecuteBatch(rawBatch(
			`{"action":"CLICK","selector":"css:#go"}`,
			`{"action":"READ","selector":"css:p"}`,
		))
		Expect(results).To(HaveLen(2))
		Expect(results[0].Succeeded()).To(BeTrue())
		Expect(*results[0].OK).To(Equal("command 1 (CLICK css:#go): Successfully clicked element with selector: css:#go"))
		Expect(*results[1].OK).To(Equal("command 2 (READ css:p): body text"))
	})

	It("isolates a failing item from its siblings", func() {
		results := exec.ExecuteBatch(rawBatch(
			`{"action":"CLICK","selector":"css:#one"}`,
			`{"action":"NAVIGATE","selector":"css:#two"}`,
			`{"action":"CLICK","selector":"css:#three"}`,
		))
		Expect(results).To(HaveLen(3))
		Expect(results[0].Succeeded()).To(BeTrue())
		Expect(results[1].Succeeded()).To(BeFalse())
		Expect(results[2].Succeeded()).To(BeTrue())
		Expect(driver.callCount("Click")).To(Equal(2))
	})

	It("rejects an item that is not a command object", func() {
		results := exec.ExecuteBatch(rawBatch(`"CLICK css:#go"`))
		Expect(results).To(HaveLen(1))
		Expect(results[0].Error.Kind).To(Equal(agent.KindInvalidModelResponse))
		Expect(results[0].Error.Message).To(ContainSubstring("command 1:"))
		Expect(results[0].Error.Message).To(ContainSubstring(`"CLICK css:#go"`))
		Expect(driver.calls).To(BeEmpty())
	})

	It("names the unknown verb and its position", func() {
		results := exec.ExecuteBatch(rawBatch(
			`{"action":"CLICK","selector":"css:#one"}`,
			`{"action":"NAVIGATE","selector":"css:#two"}`,
		))
		Expect(results[1].Error.Kind).To(Equal(agent.KindCommandValidation))
		Expect(results[1].Error.Message).To(ContainSubstring("command 2:"))
		Expect(results[1].Error.Message).To(ContainSubstring(`unknown action "NAVIGATE"`))
	})

	It("rejects a verb missing its required field with the proposal echoed", func() {
		results := exec.ExecuteBatch(rawBatch(`{"action":"TYPE","selector":"css:#name"}`))
		Expect(results[0].Error.Kind).To(Equal(agent.KindCommandValidation))
		Expect(results[0].Error.Message).To(ContainSubstring("TYPE requires a value"))
		Expect(results[0].Error.Message).To(ContainSubstring(`{"action":"TYPE","selector":"css:#name"}`))
	})

	It("keeps the failure kind of an execution error and prefixes the position", func() {
		derr := &browser.DriverError{
			Code:    browser.CodeElementNotFound,
			Message: "No element found for CSS selector '#go'",
		}
		driver.click = func(string) error { return derr }
		results := exec.ExecuteBatch(rawBatch(`{"action":"CLICK","selector":"css:#go"}`))
		Expect(results[0].Error.Kind).To(Equal(agent.KindElementInteraction))
		Expect(results[0].Error.Message).To(Equal("command 1 (CLICK css:#go): " + derr.Error()))
	})

	It("treats an empty action as an unknown verb, not a decode failure", func() {
		results := exec.ExecuteBatch(rawBatch(`{}`))
		Expect(results[0].Error.Kind).To(Equal(agent.KindCommandValidation))
		Expect(results[0].Error.Message).To(ContainSubstring(`unknown action ""`))
	})

	It("drops a non-numeric wait timeout during validation", func() {
		var gotTimeout uint64
		driver.waitFor = func(_ string, timeoutMs uint64) error {
			gotTimeout = timeoutMs
			return nil
		}
		results := exec.ExecuteBatch(rawBatch(
			`{"action":"WAIT_FOR_ELEMENT","selector":"css:#x","value":"abc"}`,
		))
		Expect(results[0].Succeeded()).To(BeTrue())
		Expect(gotTimeout).To(Equal(browser.DefaultWaitTimeoutMs))
	})

	It("returns an empty list for an empty batch", func() {
		Expect(exec.ExecuteBatch(nil)).To(BeEmpty())
	})
})
