package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"pagepilot/agent/internal/prompts"
	"pagepilot/llm"
	"pagepilot/persona"
)

// Interpretation is a classified model response: either a batch of proposed
// commands or a natural-language answer echoed back to the caller.
type Interpretation struct {
	IsBatch bool
	Batch   []json.RawMessage
	Answer  string
}

// Interpreter turns tasks the grammar cannot parse into proposed commands
// through the model. One call per task, no retry. Zero maxTokens or
// temperature defers to the provider's defaults.
type Interpreter struct {
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
	log         hclog.Logger
}

func NewInterpreter(provider llm.Provider, model string, maxTokens int, temperature float64, log hclog.Logger) *Interpreter {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Interpreter{
		provider:    provider,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		log:         log,
	}
}

func (in *Interpreter) Interpret(ctx context.Context, task string, p persona.Persona) (*Interpretation, *Error) {
	req := &llm.ChatRequest{
		Model: in.model,
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleSystem, prompts.System(p)),
			llm.NewTextMessage(llm.RoleUser, prompts.User(task)),
		},
		MaxTokens:   in.maxTokens,
		Temperature: in.temperature,
	}

	resp, err := in.provider.Chat(ctx, req)
	if err != nil {
		return nil, &Error{Kind: KindLanguageModelCall, Message: err.Error()}
	}
	in.log.Debug("model responded", "persona", p.ID, "chars", len(resp.Content))

	return classify(resp.Content)
}

// classify decides what the raw model text is. A JSON array is the batch
// path, with an empty array demoted to an answer; any other valid JSON is
// treated as a natural-language answer; text that merely looks like JSON
// is an invalid response.
func classify(raw string) (*Interpretation, *Error) {
	var batch []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &batch); err == nil && batch != nil {
		if len(batch) == 0 {
			return &Interpretation{Answer: raw}, nil
		}
		return &Interpretation{IsBatch: true, Batch: batch}, nil
	}

	var loose interface{}
	if err := json.Unmarshal([]byte(raw), &loose); err == nil {
		return &Interpretation{Answer: raw}, nil
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return nil, &Error{
			Kind:    KindInvalidModelResponse,
			Message: fmt.Sprintf("model response looks like structured data but failed to parse: %s", raw),
		}
	}
	return &Interpretation{Answer: raw}, nil
}
