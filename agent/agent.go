package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"pagepilot/browser"
	"pagepilot/command"
	"pagepilot/llm"
	"pagepilot/persona"
	"pagepilot/streamers"
)

// PreviousResultPlaceholder is the literal marker a task can embed to
// receive the preceding task's successful output.
const PreviousResultPlaceholder = "{{PREVIOUS_RESULT}}"

// Options configures an Agent.
type Options struct {
	// Driver is the live page session commands execute against.
	Driver browser.Driver

	// Provider and Model select the language model used for tasks the
	// direct grammar cannot parse.
	Provider llm.Provider
	Model    string

	// MaxTokens and Temperature ride along on every model call; zero
	// values defer to the provider's defaults.
	MaxTokens   int
	Temperature float64

	// Personas overrides the built-in registry.
	Personas *persona.Registry

	// Streamer receives run lifecycle events.
	Streamer streamers.RunHandler

	Logger hclog.Logger
}

// Agent resolves task strings into commands and executes them in order.
type Agent struct {
	driver   browser.Driver
	parser   *command.Parser
	personas *persona.Registry
	executor *Executor
	interp   *Interpreter
	streamer streamers.RunHandler
	log      hclog.Logger
}

// New validates the configuration up front: a missing driver, provider,
// model, or fallback persona aborts here, before any task can run.
func New(opts Options) (*Agent, error) {
	if opts.Driver == nil {
		return nil, errors.New("agent: driver is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("agent: model provider is required")
	}
	if opts.Model == "" {
		return nil, errors.New("agent: model name is required")
	}

	registry := opts.Personas
	if registry == nil {
		registry = persona.Default()
	}
	hasFallback := false
	for _, p := range registry.All() {
		if len(p.Keywords) == 0 {
			hasFallback = true
			break
		}
	}
	if !hasFallback {
		return nil, errors.New("agent: persona registry needs a fallback persona with no keywords")
	}

	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	streamer := opts.Streamer
	if streamer == nil {
		streamer = streamers.Discard()
	}

	return &Agent{
		driver:   opts.Driver,
		parser:   command.NewParser(log.Named("parser")),
		personas: registry,
		executor: NewExecutor(opts.Driver, log.Named("executor")),
		interp:   NewInterpreter(opts.Provider, opts.Model, opts.MaxTokens, opts.Temperature, log.Named("interpreter")),
		streamer: streamer,
		log:      log,
	}, nil
}

// Run executes tasks strictly in order and returns one Result per task,
// index-aligned with tasks. A failing task never stops the run; it only
// clears the carried output, so the next task's placeholder resolves to
// the empty string.
func (a *Agent) Run(ctx context.Context, tasks []string) []Result {
	a.streamer.RunStarted(len(tasks))

	results := make([]Result, 0, len(tasks))
	carry := ""
	for i, task := range tasks {
		resolved := strings.ReplaceAll(task, PreviousResultPlaceholder, carry)
		a.streamer.TaskStarted(i, resolved)

		res := a.runTask(ctx, i, resolved)
		if res.Succeeded() {
			carry = res.Message()
			a.streamer.TaskCompleted(i, carry)
		} else {
			carry = ""
			a.streamer.TaskFailed(i, res.Error)
		}
		results = append(results, res)
	}

	a.streamer.RunCompleted(len(results))
	return results
}

func (a *Agent) runTask(ctx context.Context, index int, task string) Result {
	p, err := a.personas.Select(task)
	if err != nil {
		return Failure(KindCommandValidation, err.Error())
	}
	a.log.Debug("persona selected", "task", index, "persona", p.ID)

	if cmd, ok := a.parser.ParseDirect(task); ok {
		message, execErr := a.executor.Execute(cmd)
		if execErr != nil {
			return Result{Error: execErr}
		}
		return Success(message)
	}

	a.streamer.TaskInterpreting(index, p.ID)
	interp, ierr := a.interp.Interpret(ctx, task, p)
	if ierr != nil {
		return Result{Error: ierr}
	}
	if !interp.IsBatch {
		return Success(interp.Answer)
	}

	batch := a.executor.ExecuteBatch(interp.Batch)
	payload, err := json.Marshal(batch)
	if err != nil {
		return Failure(KindResultSerialization,
			fmt.Sprintf("serializing %d command results: %v", len(batch), err))
	}
	return Success(string(payload))
}

// Close releases the page session behind the agent.
func (a *Agent) Close() error {
	return a.driver.Close()
}
