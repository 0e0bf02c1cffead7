package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config describes an OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Supported chat model providers.
const (
	ProviderEino   = "eino"       // OpenAI through the eino model component
	ProviderOpenAI = "openai-sdk" // OpenAI SDK called directly
)

var Providers = []string{ProviderEino, ProviderOpenAI}

// NewChatModel creates the chat model of a provider.
// An empty provider selects eino.
func NewChatModel(ctx context.Context, provider string, config Config) (ChatModel, error) {
	switch provider {
	case "", ProviderEino:
		return NewEinoModel(ctx, config)
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, ErrNoModel
		}
		return NewOpenAIModel(config), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", provider)
}

// NewEinoModel creates an OpenAI chat model.
func NewEinoModel(ctx context.Context, config Config) (ChatModel, error) {
	if config.APIKey == "" {
		return nil, ErrNoModel
	}
	temperature := float32(0)
	chatModelConfig := &openai.ChatModelConfig{
		Model:       config.Model,
		APIKey:      config.APIKey,
		Temperature: &temperature,
	}
	if config.BaseURL != "" {
		chatModelConfig.BaseURL = config.BaseURL
	}
	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return chatModel, nil
}

// OpenAIModel is a chat model calling the OpenAI SDK directly.
type OpenAIModel struct {
	client openaisdk.Client
	model  string
}

var _ ChatModel = (*OpenAIModel)(nil)

// NewOpenAIModel creates a chat model using the OpenAI SDK.
func NewOpenAIModel(config Config, opts ...option.RequestOption) *OpenAIModel {
	opts = append([]option.RequestOption{option.WithAPIKey(config.APIKey)}, opts...)
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAIModel{
		client: openaisdk.NewClient(opts...),
		model:  config.Model,
	}
}

func (m *OpenAIModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	var messages []openaisdk.ChatCompletionMessageParamUnion
	for _, message := range input {
		switch message.Role {
		case schema.System:
			messages = append(messages, openaisdk.SystemMessage(message.Content))
		case schema.Assistant:
			messages = append(messages, openaisdk.AssistantMessage(message.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(message.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    m.model,
		Messages: messages,
	}
	if options.Temperature != nil {
		params.Temperature = openaisdk.Float(float64(*options.Temperature))
	}
	if options.MaxTokens != nil {
		params.MaxTokens = openaisdk.Int(int64(*options.MaxTokens))
	}

	response, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("no response choices returned")
	}
	return schema.AssistantMessage(response.Choices[0].Message.Content, nil), nil
}

// Stream returns the complete reply as a single chunk.
func (m *OpenAIModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	message, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{message}), nil
}
