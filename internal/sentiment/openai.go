package sentiment

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/pkg/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const headlineSystemPrompt = "You classify the tone of a single stock market headline. Reply with exactly one word: positive, negative or neutral."

type chatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIClassifier asks a chat model for a headline's tone and falls back to
// keyword counting on any failure.
type OpenAIClassifier struct {
	client   chatClient
	model    string
	timeout  time.Duration
	fallback TextClassifier
	log      *logger.Entry
}

// NewOpenAIClassifier returns nil when apiKey is empty.
func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return newOpenAIClassifier(&openAIClient{client: client}, model)
}

func newOpenAIClassifier(client chatClient, model string) *OpenAIClassifier {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClassifier{
		client:   client,
		model:    model,
		timeout:  10 * time.Second,
		fallback: KeywordClassifier{},
		log:      logger.GetLogger().WithComponent("openai-classifier"),
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) domain.NewsSentiment {
	if c == nil || c.client == nil {
		return SentimentOf(text)
	}
	label, err := c.ask(ctx, text)
	if err != nil {
		c.log.WithError(err).Debug("llm headline classification failed, using keywords")
		return c.fallback.Classify(ctx, text)
	}
	return label
}

func (c *OpenAIClassifier) ask(ctx context.Context, text string) (domain.NewsSentiment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(headlineSystemPrompt),
			openai.UserMessage(strings.TrimSpace(text)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty classifier completion")
	}
	return normalizeLabel(completion.Choices[0].Message.Content)
}

func normalizeLabel(label string) (domain.NewsSentiment, error) {
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), ".!\"'`"))
	switch label {
	case "positive", "bullish":
		return domain.NewsPositive, nil
	case "negative", "bearish":
		return domain.NewsNegative, nil
	case "neutral":
		return domain.NewsNeutral, nil
	default:
		return "", errors.New("unrecognised label " + label)
	}
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
