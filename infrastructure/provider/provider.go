// Package provider implements clients for the hosted embedding and
// chat-completion services.
package provider

import "context"

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged chat message.
type Message struct {
	role    string
	content string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{role: RoleSystem, content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{role: RoleUser, content: content}
}

// Role returns the message role.
func (m Message) Role() string { return m.role }

// Content returns the message content.
func (m Message) Content() string { return m.content }

// ChatCompletionRequest is an ordered message exchange with options.
type ChatCompletionRequest struct {
	messages    []Message
	temperature float64
}

// NewChatCompletionRequest creates a request from ordered messages.
func NewChatCompletionRequest(messages []Message) ChatCompletionRequest {
	ms := make([]Message, len(messages))
	copy(ms, messages)
	return ChatCompletionRequest{messages: ms}
}

// WithTemperature sets the sampling temperature.
func (r ChatCompletionRequest) WithTemperature(t float64) ChatCompletionRequest {
	r.temperature = t
	return r
}

// Messages returns the ordered messages.
func (r ChatCompletionRequest) Messages() []Message {
	ms := make([]Message, len(r.messages))
	copy(ms, r.messages)
	return ms
}

// Temperature returns the sampling temperature (0 = service default).
func (r ChatCompletionRequest) Temperature() float64 { return r.temperature }

// ChatCompletionResponse holds the generated choices. A well-formed
// response from the service may legitimately carry zero choices;
// callers decide what that means (fallback, sentinel answer).
type ChatCompletionResponse struct {
	choices []string
}

// NewChatCompletionResponse creates a response from choice contents.
func NewChatCompletionResponse(choices []string) ChatCompletionResponse {
	cs := make([]string, len(choices))
	copy(cs, choices)
	return ChatCompletionResponse{choices: cs}
}

// Choices returns the generated choice contents in order.
func (r ChatCompletionResponse) Choices() []string {
	cs := make([]string, len(r.choices))
	copy(cs, r.choices)
	return cs
}

// Content returns the first choice's content, or "" when the response
// carries no choices.
func (r ChatCompletionResponse) Content() string {
	if len(r.choices) == 0 {
		return ""
	}
	return r.choices[0]
}

// Empty reports whether the response carries no choices.
func (r ChatCompletionResponse) Empty() bool { return len(r.choices) == 0 }

// Embedder converts texts into embedding vectors, one per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// TextGenerator produces chat completions.
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
}
