package command_test

import (
	"pagepilot/command"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func strptr(s string) *string { return &s }

var _ = Describe("Validate", func() {

	It("promotes a well-formed proposed command", func() {
		p := &command.Proposed{Action: "CLICK", Selector: "css:#go"}
		cmd, err := p.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Verb).To(Equal(command.Click))
		Expect(cmd.Selector).To(Equal("css:#go"))
	})

	It("maps the action case-insensitively", func() {
		p := &command.Proposed{Action: "getvalue", Selector: "css:#field"}
		cmd, err := p.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Verb).To(Equal(command.GetValue))
	})

	It("rejects an unknown action", func() {
		p := &command.Proposed{Action: "NAVIGATE", Selector: "css:#go"}
		_, err := p.Validate()
		Expect(err).To(MatchError(ContainSubstring(`unknown action "NAVIGATE"`)))
	})

	It("rejects TYPE without a value", func() {
		p := &command.Proposed{Action: "TYPE", Selector: "css:#name"}
		_, err := p.Validate()
		Expect(err).To(MatchError(ContainSubstring("TYPE requires a value")))
	})

	It("rejects SETATTRIBUTE without an attribute name", func() {
		p := &command.Proposed{Action: "SETATTRIBUTE", Selector: "css:#box", Value: strptr("42")}
		_, err := p.Validate()
		Expect(err).To(MatchError(ContainSubstring("SETATTRIBUTE requires an attribute name")))
	})

	It("rejects GET_ALL_ATTRIBUTES without an attribute name", func() {
		p := &command.Proposed{Action: "GET_ALL_ATTRIBUTES", Selector: "css:.items"}
		_, err := p.Validate()
		Expect(err).To(MatchError(ContainSubstring("requires an attribute name")))
	})

	It("carries value and attribute through", func() {
		p := &command.Proposed{
			Action:    "SETATTRIBUTE",
			Selector:  "css:#box",
			Value:     strptr("42"),
			Attribute: strptr("data-count"),
		}
		cmd, err := p.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(*cmd.Value).To(Equal("42"))
		Expect(*cmd.Attribute).To(Equal("data-count"))
	})

	It("keeps a numeric WAIT_FOR_ELEMENT value", func() {
		p := &command.Proposed{Action: "WAIT_FOR_ELEMENT", Selector: "css:#late", Value: strptr("1500")}
		cmd, err := p.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Value).NotTo(BeNil())
		Expect(*cmd.Value).To(Equal("1500"))
	})

	It("discards a non-numeric WAIT_FOR_ELEMENT value", func() {
		p := &command.Proposed{Action: "WAIT_FOR_ELEMENT", Selector: "css:#late", Value: strptr("soon")}
		cmd, err := p.Validate()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Value).To(BeNil())
	})
})

var _ = Describe("Command", func() {

	Describe("String", func() {
		It("reconstructs grammar order", func() {
			cmd := &command.Command{
				Verb:      command.SetAttribute,
				Selector:  "css:#box",
				Value:     strptr("42"),
				Attribute: strptr("data-count"),
			}
			Expect(cmd.String()).To(Equal("SETATTRIBUTE css:#box data-count 42"))
		})

		It("renders a bare GET_URL", func() {
			cmd := &command.Command{Verb: command.GetURL}
			Expect(cmd.String()).To(Equal("GET_URL"))
		})
	})
})
