package llm

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn of a model conversation. Command proposal is
// text-only: a system prompt, one user task, and the model's reply.
type Message struct {
	Role    Role
	Content string
}

func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}

type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type ChatResponse struct {
	ID           string
	Content      string
	FinishReason string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is a model vendor client. Proposal calls are single-shot; there
// is no session state between tasks.
type Provider interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
