package command_test

import (
	"pagepilot/command"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {

	var parser *command.Parser

	BeforeEach(func() {
		parser = command.NewParser(nil)
	})

	Describe("single-selector verbs", func() {
		It("parses CLICK with a selector", func() {
			cmd, ok := parser.ParseDirect("CLICK css:#go")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.Click))
			Expect(cmd.Selector).To(Equal("css:#go"))
			Expect(cmd.Value).To(BeNil())
			Expect(cmd.Attribute).To(BeNil())
		})

		It("rejects CLICK without a selector", func() {
			_, ok := parser.ParseDirect("CLICK")
			Expect(ok).To(BeFalse())
		})

		It("keeps spaces inside the selector remainder", func() {
			cmd, ok := parser.ParseDirect("READ css:div.results > span")
			Expect(ok).To(BeTrue())
			Expect(cmd.Selector).To(Equal("css:div.results > span"))
		})

		It("parses the remaining one-argument verbs", func() {
			for _, verb := range []command.Verb{
				command.Read, command.GetValue, command.ElementExists,
				command.IsVisible, command.ScrollTo, command.Hover,
			} {
				cmd, ok := parser.ParseDirect(string(verb) + " css:#target")
				Expect(ok).To(BeTrue(), "verb %s should parse", verb)
				Expect(cmd.Verb).To(Equal(verb))
				Expect(cmd.Selector).To(Equal("css:#target"))
			}
		})

		It("matches verbs case-insensitively", func() {
			cmd, ok := parser.ParseDirect("click css:#go")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.Click))
		})
	})

	Describe("TYPE", func() {
		It("treats everything after the selector as the text", func() {
			cmd, ok := parser.ParseDirect("TYPE css:#name Jane Q. Public")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.TypeText))
			Expect(cmd.Selector).To(Equal("css:#name"))
			Expect(cmd.Value).NotTo(BeNil())
			Expect(*cmd.Value).To(Equal("Jane Q. Public"))
		})

		It("rejects TYPE without text", func() {
			_, ok := parser.ParseDirect("TYPE css:#name")
			Expect(ok).To(BeFalse())
		})

		It("rejects TYPE without any arguments", func() {
			_, ok := parser.ParseDirect("TYPE")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("SELECTOPTION", func() {
		It("parses selector and option value", func() {
			cmd, ok := parser.ParseDirect("SELECTOPTION css:#country NO")
			Expect(ok).To(BeTrue())
			Expect(cmd.Selector).To(Equal("css:#country"))
			Expect(*cmd.Value).To(Equal("NO"))
		})

		It("rejects a missing option value", func() {
			_, ok := parser.ParseDirect("SELECTOPTION css:#country")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("attribute verbs", func() {
		It("parses GETATTRIBUTE", func() {
			cmd, ok := parser.ParseDirect("GETATTRIBUTE css:#link href")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.GetAttribute))
			Expect(cmd.Selector).To(Equal("css:#link"))
			Expect(*cmd.Attribute).To(Equal("href"))
		})

		It("parses GET_ALL_ATTRIBUTES", func() {
			cmd, ok := parser.ParseDirect("GET_ALL_ATTRIBUTES css:.attr-item data-value")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.GetAllAttributes))
			Expect(cmd.Selector).To(Equal("css:.attr-item"))
			Expect(*cmd.Attribute).To(Equal("data-value"))
		})

		It("parses SETATTRIBUTE with a multi-word value", func() {
			cmd, ok := parser.ParseDirect("SETATTRIBUTE css:#box data-note hello out there")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.SetAttribute))
			Expect(cmd.Selector).To(Equal("css:#box"))
			Expect(*cmd.Attribute).To(Equal("data-note"))
			Expect(*cmd.Value).To(Equal("hello out there"))
		})

		It("rejects SETATTRIBUTE missing the value", func() {
			_, ok := parser.ParseDirect("SETATTRIBUTE css:#box data-note")
			Expect(ok).To(BeFalse())
		})

		It("rejects GETATTRIBUTE missing the attribute", func() {
			_, ok := parser.ParseDirect("GETATTRIBUTE css:#link")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("GET_URL", func() {
		It("parses with no arguments", func() {
			cmd, ok := parser.ParseDirect("GET_URL")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.GetURL))
			Expect(cmd.Selector).To(BeEmpty())
		})

		It("ignores trailing arguments", func() {
			cmd, ok := parser.ParseDirect("GET_URL please and thanks")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.GetURL))
			Expect(cmd.Selector).To(BeEmpty())
			Expect(cmd.Value).To(BeNil())
		})
	})

	Describe("WAIT_FOR_ELEMENT", func() {
		It("parses selector with a numeric timeout", func() {
			cmd, ok := parser.ParseDirect("WAIT_FOR_ELEMENT css:#late 2500")
			Expect(ok).To(BeTrue())
			Expect(cmd.Selector).To(Equal("css:#late"))
			Expect(cmd.Value).NotTo(BeNil())
			Expect(*cmd.Value).To(Equal("2500"))
		})

		It("parses selector without a timeout", func() {
			cmd, ok := parser.ParseDirect("WAIT_FOR_ELEMENT css:#late")
			Expect(ok).To(BeTrue())
			Expect(cmd.Selector).To(Equal("css:#late"))
			Expect(cmd.Value).To(BeNil())
		})

		It("discards a non-numeric timeout token instead of failing", func() {
			cmd, ok := parser.ParseDirect("WAIT_FOR_ELEMENT css:#x abc")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.WaitForElement))
			Expect(cmd.Selector).To(Equal("css:#x"))
			Expect(cmd.Value).To(BeNil())
		})

		It("rejects a missing selector", func() {
			_, ok := parser.ParseDirect("WAIT_FOR_ELEMENT")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("GET_ALL_TEXT", func() {
		It("parses a quote-delimited separator verbatim", func() {
			cmd, ok := parser.ParseDirect(`GET_ALL_TEXT css:.row " | "`)
			Expect(ok).To(BeTrue())
			Expect(cmd.Selector).To(Equal("css:.row"))
			Expect(cmd.Value).NotTo(BeNil())
			Expect(*cmd.Value).To(Equal(" | "))
		})

		It("allows an explicitly empty separator", func() {
			cmd, ok := parser.ParseDirect(`GET_ALL_TEXT css:.row ""`)
			Expect(ok).To(BeTrue())
			Expect(cmd.Value).NotTo(BeNil())
			Expect(*cmd.Value).To(BeEmpty())
		})

		It("uses an unquoted remainder as-is", func() {
			cmd, ok := parser.ParseDirect("GET_ALL_TEXT css:.row ;")
			Expect(ok).To(BeTrue())
			Expect(cmd.Value).NotTo(BeNil())
			Expect(*cmd.Value).To(Equal(";"))
		})

		It("leaves the separator unset when absent", func() {
			cmd, ok := parser.ParseDirect("GET_ALL_TEXT css:.row")
			Expect(ok).To(BeTrue())
			Expect(cmd.Value).To(BeNil())
		})
	})

	Describe("misses", func() {
		It("does not match an unknown verb", func() {
			_, ok := parser.ParseDirect("NAVIGATE https://example.com")
			Expect(ok).To(BeFalse())
		})

		It("does not match free-form text", func() {
			_, ok := parser.ParseDirect("find the login button and click it")
			Expect(ok).To(BeFalse())
		})

		It("matches a verb head even when the remainder is prose", func() {
			cmd, ok := parser.ParseDirect("click the login button")
			Expect(ok).To(BeTrue())
			Expect(cmd.Verb).To(Equal(command.Click))
			Expect(cmd.Selector).To(Equal("the login button"))
		})

		It("does not match an empty task", func() {
			_, ok := parser.ParseDirect("   ")
			Expect(ok).To(BeFalse())
		})
	})
})
