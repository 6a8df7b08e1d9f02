package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"ai-tools/internal/embeddings"
)

var (
	ErrNoChoices              = errors.New("openai: no choices returned")
	ErrEmbeddingCountMismatch = errors.New("openai: embedding count does not match input count")
	ErrEmbeddingIndex         = errors.New("openai: embedding index out of range or repeated")
)

// OpenAIOptions configures an OpenAIClient. Only APIKey is required.
type OpenAIOptions struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	HTTPClient     *http.Client
}

// OpenAIClient calls the OpenAI Chat Completions and Embeddings APIs.
// Each call is a single request: SDK retries are disabled and provider
// errors are returned as-is.
type OpenAIClient struct {
	chatModel      openai.ChatModel
	embeddingModel openai.EmbeddingModel
	client         *openai.Client
}

// NewOpenAIClient builds a client from explicit options; nothing is read
// from the environment.
func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	if opts.EmbeddingModel == "" {
		opts.EmbeddingModel = DefaultEmbeddingModel
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		chatModel:      openai.ChatModel(opts.ChatModel),
		embeddingModel: openai.EmbeddingModel(opts.EmbeddingModel),
		client:         &cli,
	}, nil
}

// Complete sends messages in order and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, model string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	chatModel := c.chatModel
	if model != "" {
		chatModel = openai.ChatModel(model)
	}
	params, err := buildMessages(messages)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    chatModel,
		Messages: params,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed requests one embedding per text in a single batch. The result is
// ordered by the provider's index field, so result i always belongs to texts[i].
func (c *OpenAIClient) Embed(ctx context.Context, texts []string, model string) ([]embeddings.Vector, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("nil openai client")
	}
	embeddingModel := c.embeddingModel
	if model != "" {
		embeddingModel = openai.EmbeddingModel(model)
	}
	input := texts
	if input == nil {
		input = []string{}
	}
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: input,
		},
		Model:          embeddingModel,
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCountMismatch, len(resp.Data), len(texts))
	}
	out := make([]embeddings.Vector, len(texts))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(out) || out[i] != nil {
			return nil, fmt.Errorf("%w: %d", ErrEmbeddingIndex, d.Index)
		}
		out[i] = embeddings.Vector(d.Embedding)
	}
	return out, nil
}

// buildMessages rejects zero-value messages that bypassed NewMessage.
func buildMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.content))
		case RoleUser:
			out = append(out, openai.UserMessage(m.content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.content))
		default:
			return nil, &ValidationError{Field: "role", Value: string(m.role)}
		}
	}
	return out, nil
}
