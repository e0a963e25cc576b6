package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"pagepilot/command"
	"pagepilot/persona"
)

//go:embed interpreter.md
var interpreterTemplate string

// System returns the interpreter system prompt for a persona. Output is
// deterministic: verbs and examples render in grammar order, so the same
// persona and task always produce the same prompt.
func System(p persona.Persona) string {
	prompt := interpreterTemplate
	prompt = strings.Replace(prompt, "{{PERSONA_ID}}", p.ID, 1)
	prompt = strings.Replace(prompt, "{{PERSONA_ROLE}}", string(p.Role), 1)
	prompt = strings.Replace(prompt, "{{VERBS}}", formatVerbs(), 1)
	prompt = strings.Replace(prompt, "{{EXAMPLES}}", formatExamples(), 1)
	return prompt
}

// User returns the user turn carrying the task text.
func User(task string) string {
	return fmt.Sprintf("Task: %s", task)
}

func formatVerbs() string {
	var sb strings.Builder
	for _, v := range command.Verbs {
		sb.WriteString(fmt.Sprintf("- `%s`\n", v.Usage()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatExamples() string {
	var sb strings.Builder
	for _, v := range command.Verbs {
		sb.WriteString(fmt.Sprintf("- %s: `%s`\n", v, exampleFor(v)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func exampleFor(v command.Verb) string {
	switch v {
	case command.Click:
		return `{"action": "CLICK", "selector": "css:#submit"}`
	case command.TypeText:
		return `{"action": "TYPE", "selector": "css:#email", "value": "user@example.com"}`
	case command.Read:
		return `{"action": "READ", "selector": "css:h1"}`
	case command.GetValue:
		return `{"action": "GETVALUE", "selector": "css:#email"}`
	case command.ElementExists:
		return `{"action": "ELEMENT_EXISTS", "selector": "css:#banner"}`
	case command.IsVisible:
		return `{"action": "IS_VISIBLE", "selector": "css:#banner"}`
	case command.ScrollTo:
		return `{"action": "SCROLL_TO", "selector": "css:#footer"}`
	case command.Hover:
		return `{"action": "HOVER", "selector": "css:#menu"}`
	case command.GetURL:
		return `{"action": "GET_URL", "selector": ""}`
	case command.GetAttribute:
		return `{"action": "GETATTRIBUTE", "selector": "css:#link", "attribute_name": "href"}`
	case command.SetAttribute:
		return `{"action": "SETATTRIBUTE", "selector": "css:#box", "attribute_name": "data-state", "value": "open"}`
	case command.SelectOption:
		return `{"action": "SELECTOPTION", "selector": "css:#country", "value": "NL"}`
	case command.GetAllAttributes:
		return `{"action": "GET_ALL_ATTRIBUTES", "selector": "css:.item", "attribute_name": "data-id"}`
	case command.WaitForElement:
		return `{"action": "WAIT_FOR_ELEMENT", "selector": "css:#spinner", "value": "3000"}`
	case command.GetAllText:
		return `{"action": "GET_ALL_TEXT", "selector": "css:.result", "value": "; "}`
	default:
		return ""
	}
}
