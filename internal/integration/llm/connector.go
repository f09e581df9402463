package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/futig/course-backend/internal/config"
	"github.com/futig/course-backend/internal/entity"
	pkghttp "github.com/futig/course-backend/pkg/http"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// requestIDHeader forwards the inbound request ID so upstream logs can be matched
const requestIDHeader = "X-Request-Id"

// Connector talks to an OpenAI compatible chat completion endpoint.
// Every Generate call issues exactly one request: no retries, no caching.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger

	mu     sync.RWMutex
	apiKey string
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	apiKey string,
	logger *zap.Logger,
) *Connector {
	c := &Connector{
		config: cfg,
		logger: logger,
		apiKey: strings.TrimSpace(apiKey),
	}
	c.connector = newHTTPConnector(cfg.HTTPClientConfig, c.token, logger)
	return c
}

func newHTTPConnector(cfg config.HTTPClientConfig, token pkghttp.TokenSource, logger *zap.Logger) *pkghttp.Connector {
	return pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			Logger:  logger,
			BaseURL: cfg.Url,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthTokenSource(token),
	)
}

func (c *Connector) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// SetAPIKey replaces the credential used for subsequent calls
func (c *Connector) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(key)
	c.mu.Unlock()
}

func (c *Connector) HasCredential() bool {
	return c.token() != ""
}

func (c *Connector) DefaultModel() string {
	return c.config.Model
}

// Generate sends the prompt as a single user message and returns the completion text
func (c *Connector) Generate(ctx context.Context, prompt, model string) (string, error) {
	return c.ChatComplete(ctx, model, []entity.Message{
		{Role: entity.RoleUser, Content: prompt},
	})
}

// ChatComplete performs one chat completion call bounded by the configured call timeout
func (c *Connector) ChatComplete(ctx context.Context, model string, messages []entity.Message) (string, error) {
	if !c.HasCredential() {
		return "", entity.ErrMissingCredential
	}
	if model == "" {
		model = c.config.Model
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("model", model),
		zap.Int("message_count", len(messages)),
	)

	req := entity.LLMChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	var opts []pkghttp.RequestOpt
	if requestID := chimiddleware.GetReqID(ctx); requestID != "" {
		opts = append(opts, pkghttp.WithHeader(requestIDHeader, requestID))
	}

	var resp entity.LLMChatCompletionResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, &req, &resp, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: call timed out after %s: %w", entity.ErrGenerationFailed, c.config.CallTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", entity.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contains no choices", entity.ErrGenerationFailed)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", entity.ErrGenerationFailed)
	}

	ctxzap.Info(ctx, "chat completion received",
		zap.String("model", resp.Model),
		zap.Int("result_length", len(content)),
	)

	return content, nil
}
