package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/tikblok/core/internal/config"
)

const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 512
)

var errEmptyCompletion = errors.New("empty response from model")

// NewCompleter builds the chat-completion client selected by config.
func NewCompleter(cfg *config.AppConfig) (Completer, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return newOpenAICompleter(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel), nil
	case config.ProviderAnthropic:
		model := cfg.Anthropic.Model
		if model == "" {
			model = string(anthropic.ModelClaude3_5HaikuLatest)
		}
		return newAnthropicCompleter(cfg.Anthropic.APIKey, model), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.AI.Provider)
	}
}

type openAICompleter struct {
	client openai.Client
	model  string
}

func newOpenAICompleter(apiKey, model string) *openAICompleter {
	return &openAICompleter{
		client: openai.NewClient(openaioption.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, prompt string) (string, Usage, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(summaryTemperature),
	})
	if err != nil {
		return "", Usage{}, err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", Usage{}, errEmptyCompletion
	}
	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}

type anthropicCompleter struct {
	client anthropic.Client
	model  string
}

func newAnthropicCompleter(apiKey, model string) *anthropicCompleter {
	return &anthropicCompleter{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *anthropicCompleter) Complete(ctx context.Context, prompt string) (string, Usage, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   summaryMaxTokens,
		Temperature: anthropic.Float(summaryTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", Usage{}, err
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", Usage{}, errEmptyCompletion
	}
	usage := Usage{
		PromptTokens:     msg.Usage.InputTokens,
		CompletionTokens: msg.Usage.OutputTokens,
		TotalTokens:      msg.Usage.InputTokens + msg.Usage.OutputTokens,
	}
	return text, usage, nil
}
