// Package llm generates and reworks flashcards with a chat model.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is the capability required from a language model.
type ChatModel = model.BaseChatModel

// ErrNoModel is returned when no chat model is configured.
var ErrNoModel = errors.New("no LLM configured")

// Assistant sends prompts to a chat model.
// A nil *Assistant is valid and fails every request with ErrNoModel.
type Assistant struct {
	model    ChatModel
	progress func(message string)
}

// NewAssistant returns an assistant using the given chat model.
func NewAssistant(chatModel ChatModel, options ...func(*Assistant)) *Assistant {
	a := &Assistant{
		model:    chatModel,
		progress: func(string) {},
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// WithProgress reports each step of long-running operations.
func WithProgress(fn func(message string)) func(*Assistant) {
	return func(a *Assistant) {
		a.progress = fn
	}
}

func (a *Assistant) available() error {
	if a == nil || a.model == nil {
		return ErrNoModel
	}
	return nil
}

// Query sends a single user prompt and returns the reply.
// Replies are deterministic (temperature 0).
func (a *Assistant) Query(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
}

func (a *Assistant) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if err := a.available(); err != nil {
		return "", err
	}
	reply, err := a.model.Generate(ctx, messages, model.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if reply == nil {
		return "", errors.New("empty reply")
	}
	return reply.Content, nil
}

// extractJSON returns the JSON object contained in a reply, ignoring code fences
// and surrounding text.
func extractJSON(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return reply
	}
	return reply[start : end+1]
}
