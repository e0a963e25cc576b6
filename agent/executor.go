package agent

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"pagepilot/browser"
	"pagepilot/command"
)

// Executor runs structured commands against the page driver. Each verb
// delegates exactly one driver call; driver failures pass through with
// their message intact, tagged KindElementInteraction.
type Executor struct {
	driver browser.Driver
	log    hclog.Logger
}

func NewExecutor(driver browser.Driver, log hclog.Logger) *Executor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Executor{driver: driver, log: log}
}

// Execute dispatches one command. Data verbs return the bare value so the
// output can feed the next task's placeholder; action verbs return a
// confirmation sentence. Required value/attribute fields are guaranteed
// populated by construction (parser or validation), not re-checked here.
func (e *Executor) Execute(cmd *command.Command) (string, *Error) {
	e.log.Debug("executing command", "verb", cmd.Verb, "selector", cmd.Selector)

	switch cmd.Verb {
	case command.Click:
		if err := e.driver.Click(cmd.Selector); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully clicked element with selector: %s", cmd.Selector), nil

	case command.TypeText:
		if err := e.driver.SetValue(cmd.Selector, *cmd.Value); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully typed '%s' in element with selector: %s", *cmd.Value, cmd.Selector), nil

	case command.Read:
		text, err := e.driver.Text(cmd.Selector)
		if err != nil {
			return "", interactionError(err)
		}
		return text, nil

	case command.GetValue:
		value, err := e.driver.Value(cmd.Selector)
		if err != nil {
			return "", interactionError(err)
		}
		return value, nil

	case command.ElementExists:
		exists, err := e.driver.Exists(cmd.Selector)
		if err != nil {
			return "", interactionError(err)
		}
		return strconv.FormatBool(exists), nil

	case command.IsVisible:
		visible, err := e.driver.Visible(cmd.Selector)
		if err != nil {
			return "", interactionError(err)
		}
		return strconv.FormatBool(visible), nil

	case command.ScrollTo:
		if err := e.driver.ScrollTo(cmd.Selector); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully scrolled to element with selector: %s", cmd.Selector), nil

	case command.Hover:
		if err := e.driver.Hover(cmd.Selector); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully hovered over element with selector: %s", cmd.Selector), nil

	case command.GetURL:
		url, err := e.driver.URL()
		if err != nil {
			return "", interactionError(err)
		}
		return url, nil

	case command.GetAttribute:
		value, err := e.driver.Attribute(cmd.Selector, *cmd.Attribute)
		if err != nil {
			return "", interactionError(err)
		}
		return value, nil

	case command.SetAttribute:
		if err := e.driver.SetAttribute(cmd.Selector, *cmd.Attribute, *cmd.Value); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully set attribute '%s' to '%s' for element with selector: %s",
			*cmd.Attribute, *cmd.Value, cmd.Selector), nil

	case command.SelectOption:
		if err := e.driver.SelectOption(cmd.Selector, *cmd.Value); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully selected option with value '%s' for dropdown with selector: %s",
			*cmd.Value, cmd.Selector), nil

	case command.GetAllAttributes:
		payload, err := e.driver.AllAttributes(cmd.Selector, *cmd.Attribute)
		if err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully retrieved attributes '%s' for elements matching selector '%s': %s",
			*cmd.Attribute, cmd.Selector, payload), nil

	case command.WaitForElement:
		timeout := browser.DefaultWaitTimeoutMs
		if cmd.Value != nil {
			if n, err := strconv.ParseUint(*cmd.Value, 10, 64); err == nil {
				timeout = n
			}
		}
		if err := e.driver.WaitFor(cmd.Selector, timeout); err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully waited for element with selector: %s", cmd.Selector), nil

	case command.GetAllText:
		separator := browser.DefaultSeparator
		if cmd.Value != nil {
			separator = *cmd.Value
		}
		joined, err := e.driver.AllText(cmd.Selector, separator)
		if err != nil {
			return "", interactionError(err)
		}
		return fmt.Sprintf("Successfully retrieved text for elements matching selector '%s' (separator %q): %s",
			cmd.Selector, separator, joined), nil

	default:
		return "", &Error{
			Kind:    KindCommandValidation,
			Message: fmt.Sprintf("unsupported verb %q", cmd.Verb),
		}
	}
}

func interactionError(err error) *Error {
	return &Error{Kind: KindElementInteraction, Message: err.Error()}
}
