package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/Conversly/prompt-relay/internal/utils"
)

// NewChatModel builds the hosted chat model selected by cfg.HostedProvider,
// rotating across every configured key for that provider.
func NewChatModel(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*MultiKeyChatModel, error) {
	maxTokens := cfg.HostedMaxTokens
	temperature := cfg.HostedTemperature

	var build func(ctx context.Context, apiKey string) (model.BaseChatModel, error)
	switch cfg.HostedProvider {
	case config.ProviderOpenAI:
		build = func(ctx context.Context, apiKey string) (model.BaseChatModel, error) {
			return openai.NewChatModel(ctx, &openai.ChatModelConfig{
				APIKey:      apiKey,
				BaseURL:     cfg.OpenAIBaseURL,
				Model:       cfg.HostedModel,
				MaxTokens:   &maxTokens,
				Temperature: &temperature,
				HTTPClient:  httpClient,
			})
		}
	case config.ProviderGemini:
		build = func(ctx context.Context, apiKey string) (model.BaseChatModel, error) {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:     apiKey,
				Backend:    genai.BackendGeminiAPI,
				HTTPClient: httpClient,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini client: %w", err)
			}
			return gemini.NewChatModel(ctx, &gemini.Config{
				Client:      client,
				Model:       cfg.HostedModel,
				MaxTokens:   &maxTokens,
				Temperature: &temperature,
			})
		}
	default:
		return nil, fmt.Errorf("unsupported hosted provider %q", cfg.HostedProvider)
	}

	chatModel, err := NewMultiKeyChatModel(ctx, cfg.HostedAPIKeys(), build)
	if err != nil {
		return nil, err
	}

	utils.Zlog.Info("Created hosted chat model",
		zap.String("provider", cfg.HostedProvider),
		zap.String("model", cfg.HostedModel),
		zap.Int("key_count", chatModel.Size()))

	return chatModel, nil
}
