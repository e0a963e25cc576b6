package agent_test

import (
	"context"
	"encoding/json"
	"errors"

	"pagepilot/agent"
	"pagepilot/browser"
	"pagepilot/persona"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Agent", func() {
	var (
		driver   *scriptedDriver
		provider *scriptedProvider
		handler  *recordingHandler
	)

	BeforeEach(func() {
		driver = &scriptedDriver{}
		provider = &scriptedProvider{}
		handler = &recordingHandler{}
	})

	newAgent := func() *agent.Agent {
		a, err := agent.New(agent.Options{
			Driver:   driver,
			Provider: provider,
			Model:    "test-model",
			Streamer: handler,
		})
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	Describe("New", func() {
		It("requires a driver", func() {
			_, err := agent.New(agent.Options{Provider: provider, Model: "m"})
			Expect(err).To(MatchError(ContainSubstring("driver is required")))
		})

		It("requires a provider", func() {
			_, err := agent.New(agent.Options{Driver: driver, Model: "m"})
			Expect(err).To(MatchError(ContainSubstring("model provider is required")))
		})

		It("requires a model name", func() {
			_, err := agent.New(agent.Options{Driver: driver, Provider: provider})
			Expect(err).To(MatchError(ContainSubstring("model name is required")))
		})

		It("rejects a persona registry without a fallback", func() {
			registry := persona.NewRegistry([]persona.Persona{
				{ID: "nav", Role: persona.RoleNavigator, Keywords: []string{"go"}},
			})
			_, err := agent.New(agent.Options{
				Driver:   driver,
				Provider: provider,
				Model:    "m",
				Personas: registry,
			})
			Expect(err).To(MatchError(ContainSubstring("fallback persona")))
		})
	})

	Describe("Run", func() {
		It("executes a direct command without calling the model", func() {
			a := newAgent()
			results := a.Run(context.Background(), []string{"CLICK css:#go"})

			Expect(results).To(HaveLen(1))
			Expect(results[0].Succeeded()).To(BeTrue())
			Expect(*results[0].OK).To(Equal("Successfully clicked element with selector: css:#go"))
			Expect(provider.requests).To(BeEmpty())
			for _, ev := range handler.events {
				Expect(ev).NotTo(HavePrefix("task_interpreting"))
			}
		})

		It("returns one result per task, in task order", func() {
			driver.text = func(string) (string, error) { return "body", nil }
			a := newAgent()
			results := a.Run(context.Background(), []string{
				"READ css:p",
				"CLICK css:#go",
				"ELEMENT_EXISTS css:#badge",
			})

			Expect(results).To(HaveLen(3))
			Expect(*results[0].OK).To(Equal("body"))
			Expect(*results[1].OK).To(ContainSubstring("clicked"))
			Expect(*results[2].OK).To(Equal("false"))
		})

		It("substitutes the previous result into the next task", func() {
			driver.text = func(string) (string, error) { return "alpha", nil }
			var typed string
			driver.setValue = func(_, value string) error {
				typed = value
				return nil
			}

			a := newAgent()
			results := a.Run(context.Background(), []string{
				"READ css:#src",
				"TYPE css:#dst {{PREVIOUS_RESULT}}",
			})

			Expect(results[1].Succeeded()).To(BeTrue())
			Expect(typed).To(Equal("alpha"))
			Expect(handler.events).To(ContainElement("task_started:1:TYPE css:#dst alpha"))
		})

		It("resolves the placeholder to the empty string after a failure", func() {
			driver.text = func(string) (string, error) {
				return "", &browser.DriverError{
					Code:    browser.CodeElementNotFound,
					Message: "No element found for CSS selector '#src'",
				}
			}
			var checked string
			driver.exists = func(selector string) (bool, error) {
				checked = selector
				return false, nil
			}

			a := newAgent()
			results := a.Run(context.Background(), []string{
				"READ css:#src",
				"ELEMENT_EXISTS css:#item-{{PREVIOUS_RESULT}}",
			})

			Expect(results[0].Error.Kind).To(Equal(agent.KindElementInteraction))
			Expect(results[1].Succeeded()).To(BeTrue())
			Expect(checked).To(Equal("css:#item-"))
		})

		It("answers a natural-language task with the model text", func() {
			provider.replies = []string{"The form has two fields."}
			a := newAgent()
			results := a.Run(context.Background(), []string{"describe the form"})

			Expect(results[0].Succeeded()).To(BeTrue())
			Expect(*results[0].OK).To(Equal("The form has two fields."))
			Expect(handler.events).To(ContainElement("task_interpreting:0:form_filler"))
		})

		It("serializes batch results as the task output", func() {
			provider.replies = []string{
				`[{"action":"CLICK","selector":"css:#go"},{"action":"READ","selector":"css:p"}]`,
			}
			driver.text = func(string) (string, error) { return "done", nil }

			a := newAgent()
			results := a.Run(context.Background(), []string{"press the button and read the outcome"})

			Expect(results[0].Succeeded()).To(BeTrue())
			payload := *results[0].OK
			Expect(payload).To(ContainSubstring(`"ok":"command 1 (CLICK css:#go)`))

			var nested []agent.Result
			Expect(json.Unmarshal([]byte(payload), &nested)).To(Succeed())
			Expect(nested).To(HaveLen(2))
			Expect(*nested[0].OK).To(Equal("command 1 (CLICK css:#go): Successfully clicked element with selector: css:#go"))
			Expect(*nested[1].OK).To(Equal("command 2 (READ css:p): done"))
		})

		It("records batch item failures in place and still succeeds the task", func() {
			provider.replies = []string{
				`[{"action":"CLICK","selector":"css:#go"},{"action":"NAVIGATE","selector":"css:#x"}]`,
			}

			a := newAgent()
			results := a.Run(context.Background(), []string{"press the button then leave"})

			Expect(results[0].Succeeded()).To(BeTrue())
			var nested []agent.Result
			Expect(json.Unmarshal([]byte(*results[0].OK), &nested)).To(Succeed())
			Expect(nested).To(HaveLen(2))
			Expect(nested[0].Succeeded()).To(BeTrue())
			Expect(nested[1].Error.Kind).To(Equal(agent.KindCommandValidation))
		})

		It("reports a model failure and keeps running", func() {
			provider.errs = []error{errors.New("upstream unavailable")}
			a := newAgent()
			results := a.Run(context.Background(), []string{
				"summarize the page",
				"CLICK css:#go",
			})

			Expect(results).To(HaveLen(2))
			Expect(results[0].Error.Kind).To(Equal(agent.KindLanguageModelCall))
			Expect(results[0].Error.Message).To(Equal("upstream unavailable"))
			Expect(results[1].Succeeded()).To(BeTrue())
		})

		It("reports unparseable model output as an invalid response", func() {
			provider.replies = []string{`[{"action":"CLICK",`}
			a := newAgent()
			results := a.Run(context.Background(), []string{"press the button"})

			Expect(results[0].Error.Kind).To(Equal(agent.KindInvalidModelResponse))
		})

		It("returns the same URL for repeated GET_URL tasks", func() {
			driver.url = func() (string, error) { return "https://example.com/cart", nil }
			a := newAgent()
			results := a.Run(context.Background(), []string{"GET_URL", "GET_URL"})

			Expect(*results[0].OK).To(Equal(*results[1].OK))
			Expect(driver.callCount("URL")).To(Equal(2))
		})

		It("emits lifecycle events in order", func() {
			driver.text = func(string) (string, error) {
				return "", &browser.DriverError{
					Code:    browser.CodeElementNotFound,
					Message: "No element found for CSS selector '#b'",
				}
			}

			a := newAgent()
			a.Run(context.Background(), []string{"CLICK css:#a", "READ css:#b"})

			Expect(handler.events).To(HaveLen(6))
			Expect(handler.events[0]).To(Equal("run_started:2"))
			Expect(handler.events[1]).To(Equal("task_started:0:CLICK css:#a"))
			Expect(handler.events[2]).To(Equal("task_completed:0:Successfully clicked element with selector: css:#a"))
			Expect(handler.events[3]).To(Equal("task_started:1:READ css:#b"))
			Expect(handler.events[4]).To(HavePrefix("task_failed:1:"))
			Expect(handler.events[4]).To(ContainSubstring("No element found for CSS selector '#b'"))
			Expect(handler.events[5]).To(Equal("run_completed:2"))
		})
	})

	It("closes the driver", func() {
		a := newAgent()
		Expect(a.Close()).To(Succeed())
		Expect(driver.callCount("Close")).To(Equal(1))
	})
})
