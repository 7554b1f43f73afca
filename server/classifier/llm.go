package classifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// FallbackClassifier is the last-resort, out-of-process intent classifier.
// Any error it returns is treated as "no result" by the pipeline, never as a
// user-facing failure.
type FallbackClassifier interface {
	ClassifyIntent(ctx context.Context, text string) (Category, error)
}

const fallbackSystemPrompt = `다음 메시지를 4가지 카테고리로 분류해주세요:

- casual: 일상 대화, 인사말, AI 관련 질문, 상담사 연결 요청
- technical: 기술적 문제 해결, 시스템 관련 질문, 하드웨어/소프트웨어 문제
- non_counseling: 상담 범위를 벗어나는 일반 지식 질문, 역사/지리/과학 등
- profanity: 욕설 및 공격적 표현

답변 형식: casual 또는 technical 또는 non_counseling 또는 profanity
답변만 출력하고 다른 설명은 하지 마세요.`

// LLMClassifierConfig holds the fallback classifier settings.
type LLMClassifierConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LLMClassifier classifies intent through an OpenAI-compatible chat
// completion endpoint.
type LLMClassifier struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewLLMClassifier creates a fallback classifier.
func NewLLMClassifier(cfg LLMClassifierConfig, logger *slog.Logger) *LLMClassifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}
}

// ClassifyIntent asks the model for a single category label. Classification
// should be fast, so the call is bounded to 10 seconds.
func (c *LLMClassifier) ClassifyIntent(ctx context.Context, text string) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   10,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fallbackSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		return "", errors.Wrap(err, "fallback classification request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from fallback classifier")
	}

	content := resp.Choices[0].Message.Content
	category, ok := ParseCategory(content)
	if !ok {
		return "", errors.Errorf("unparseable fallback response: %q", content)
	}

	c.logger.Debug("fallback classification completed",
		slog.String("category", category.String()),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.Int("tokens", resp.Usage.TotalTokens))

	return category, nil
}
