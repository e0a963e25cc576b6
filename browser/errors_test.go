package browser

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DriverError", func() {

	It("prints the code before the message", func() {
		err := &DriverError{Code: CodeElementNotFound, Message: "No element found for CSS selector '#x'"}
		Expect(err.Error()).To(Equal("ElementNotFound: No element found for CSS selector '#x'"))
	})

	Describe("AsDriverError", func() {
		It("unwraps through error chains", func() {
			derr := notFoundErr(ParseSelector("css:#missing"))
			wrapped := fmt.Errorf("running command: %w", derr)

			got, ok := AsDriverError(wrapped)
			Expect(ok).To(BeTrue())
			Expect(got.Code).To(Equal(CodeElementNotFound))
		})

		It("rejects plain errors", func() {
			_, ok := AsDriverError(errors.New("boom"))
			Expect(ok).To(BeFalse())
		})
	})

	Describe("messages", func() {
		boom := errors.New("boom")

		It("reports a missing element with the selector language", func() {
			Expect(notFoundErr(ParseSelector("css:#missing")).Message).
				To(Equal("No element found for CSS selector 'css:#missing'"))
			Expect(notFoundErr(ParseSelector("xpath://div[@id='missing']")).Message).
				To(Equal("No element found for XPath selector 'xpath://div[@id='missing']'"))
			Expect(notFoundErr(ParseSelector("#missing")).Message).
				To(Equal("No element found for CSS selector '#missing'"))
		})

		It("reports an invalid selector with its cause", func() {
			Expect(invalidSelectorErr(ParseSelector("css:???"), boom).Message).
				To(Equal("Invalid CSS selector 'css:???'. Details: boom"))
			Expect(invalidSelectorErr(ParseSelector("xpath:///"), boom).Message).
				To(Equal("Invalid XPath expression 'xpath:///'. Details: boom"))
		})

		It("reports element type mismatches", func() {
			Expect(notInputErr(ParseSelector("css:#title")).Message).
				To(Equal("Element for selector 'css:#title' is not an input element."))
			Expect(notSelectErr(ParseSelector("css:#title")).Message).
				To(Equal("Element for selector 'css:#title' is not a select element."))
		})

		It("reports a missing attribute", func() {
			Expect(attrNotFoundErr(ParseSelector("css:#link"), "href").Message).
				To(Equal("Attribute 'href' not found on element with selector 'css:#link'"))
		})

		It("reports attribute write failures with their cause", func() {
			Expect(setAttrErr(ParseSelector("css:#node"), "data-state", boom).Message).
				To(Equal("Failed to set attribute 'data-state' on element with selector 'css:#node'. Details: boom"))
		})

		It("reports serialization failures", func() {
			Expect(serializationErr(boom).Message).
				To(Equal("Failed to serialize attributes to JSON. Details: boom"))
		})

		It("reports action failures with the action name", func() {
			Expect(internalErr("click", ParseSelector("css:#go"), boom).Message).
				To(Equal("Failed to click element with selector 'css:#go'. Details: boom"))
		})
	})
})
