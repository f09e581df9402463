package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/course-backend/internal/config"
	"github.com/futig/course-backend/internal/entity"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.LLMConnectorConfig {
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Url:                   url,
		},
		ChatEndpoint: "/v1/chat/completions",
		Model:        "gpt-3.5-turbo",
		CallTimeout:  5 * time.Second,
	}
}

func TestGenerate_SendsChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req entity.LLMChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, entity.RoleUser, req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)

		json.NewEncoder(w).Encode(entity.LLMChatCompletionResponse{
			Model:   req.Model,
			Choices: []entity.LLMChatCompletionChoice{{Message: entity.Message{Role: entity.RoleAssistant, Content: " world \n"}}},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "sk-test", zap.NewNop())
	text, err := c.Generate(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "world", text)
}

func TestGenerate_MissingCredentialSkipsCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "  ", zap.NewNop())
	_, err := c.Generate(context.Background(), "hello", "")
	assert.ErrorIs(t, err, entity.ErrMissingCredential)
	assert.Zero(t, hits.Load())

	c.SetAPIKey("sk-late")
	assert.True(t, c.HasCredential())
}

func TestGenerate_ServiceErrorIsGenerationFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "sk-test", zap.NewNop())
	_, err := c.Generate(context.Background(), "hello", "")
	assert.ErrorIs(t, err, entity.ErrGenerationFailed)
	assert.EqualValues(t, 1, hits.Load(), "failures must not be retried")
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "sk-test", zap.NewNop())
	_, err := c.Generate(context.Background(), "hello", "")
	assert.ErrorIs(t, err, entity.ErrGenerationFailed)
}

func TestGenerate_TimeoutIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.CallTimeout = 30 * time.Millisecond
	c := NewConnector(cfg, "sk-test", zap.NewNop())

	_, err := c.Generate(context.Background(), "hello", "")
	assert.ErrorIs(t, err, entity.ErrGenerationFailed)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGenerate_DoesNotCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"same"}}]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "sk-test", zap.NewNop())
	for i := 0; i < 3; i++ {
		_, err := c.Generate(context.Background(), "identical", "")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, hits.Load())
}

func TestGenerate_ForwardsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(entity.LLMChatCompletionResponse{
			Choices: []entity.LLMChatCompletionChoice{{Message: entity.Message{Content: "ok"}}},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), "sk-test", zap.NewNop())
	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
	_, err := c.Generate(ctx, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}
