package ai

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v2"
)

//go:embed prompt/word_generator.yaml
var wordGeneratorYAML []byte

type generatorPrompt struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// ChatGPT represents a client for the OpenAI chat completion API
type ChatGPT struct {
	client       *openai.Client
	model        string
	systemPrompt string
	timeout      time.Duration
}

// New creates a new ChatGPT client
func New(apiKey string) (*ChatGPT, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is empty")
	}

	var prompt generatorPrompt
	if err := yaml.Unmarshal(wordGeneratorYAML, &prompt); err != nil {
		return nil, fmt.Errorf("failed to parse prompt yaml: %v", err)
	}

	return &ChatGPT{
		client:       openai.NewClient(apiKey),
		model:        openai.GPT3Dot5Turbo,
		systemPrompt: prompt.SystemPrompt,
		timeout:      30 * time.Second,
	}, nil
}

// Complete sends the user prompt to the model and returns the raw
// response content. The call is bounded by the client timeout; a timeout
// surfaces as a generation failure to the caller.
func (c *ChatGPT) Complete(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
