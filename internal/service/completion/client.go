package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/paulhq/paul-assistant/internal/config"
	"github.com/paulhq/paul-assistant/internal/store"
)

// Client talks to an OpenAI-compatible chat-completion endpoint. It reads
// conversation history through the store but never writes to it; persisting
// the exchange is the caller's job.
type Client struct {
	api         *openai.Client
	store       store.Store
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	log         zerolog.Logger
}

// NewClient builds a completion client from configuration.
func NewClient(cfg config.CompletionConfig, st store.Store, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		store:       st,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		log:         log.With().Str("component", "completion").Logger(),
	}
}

// GenerateReply sends the bounded-context prompt for the conversation plus
// the new user query and returns the generated text verbatim. Upstream
// failures and timeouts come back as *UpstreamError.
func (c *Client) GenerateReply(ctx context.Context, conversationID, userQuery string) (string, error) {
	history := c.store.History(conversationID)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    BuildPrompt(history, userQuery),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		upstream := upstreamError(err)
		c.log.Error().Err(err).Str("conversation_id", conversationID).
			Int("status", upstream.StatusCode).Bool("timeout", upstream.Timeout).
			Msg("completion request failed")
		return "", upstream
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Detail: "completion response contained no choices"}
	}

	reply := resp.Choices[0].Message.Content
	c.log.Debug().Str("conversation_id", conversationID).Int("reply_length", len(reply)).Msg("generated reply")
	return reply, nil
}

// UpstreamError reports a failed completion call: a non-success status from
// the API, or a transport/timeout failure (StatusCode zero, Timeout set).
type UpstreamError struct {
	StatusCode int
	Detail     string
	Timeout    bool
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("completion API timed out: %s", e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("completion API unreachable: %s", e.Detail)
	}
}

func upstreamError(err error) *UpstreamError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Detail: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Detail: reqErr.Error()}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpstreamError{Timeout: true, Detail: err.Error()}
	}

	return &UpstreamError{Detail: err.Error()}
}
