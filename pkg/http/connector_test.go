package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(url string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, opts...)
}

func TestDoRequest_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	var resp struct {
		Answer string `json:"answer"`
	}
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/echo",
		map[string]string{"q": "x"}, &resp, WithHeader("X-Test", "yes"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, "slow down", httpErr.Message)
}

func TestDoRequest_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL, WithRequestTimeout(20*time.Millisecond)).
		DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestAuthTokenSource_ReadsTokenPerRequest(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	token := ""
	conn := newTestConnector(srv.URL, WithAuthTokenSource(func() string { return token }), WithRequestLogging())

	require.NoError(t, conn.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
	token = "secret"
	require.NoError(t, conn.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))

	assert.Equal(t, []string{"", "Bearer secret"}, got)
}
