package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/dota-draft-assistant/internal/config"
)

type stubProvider struct {
	text  string
	err   error
	calls int32
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req Request) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.text, p.err
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		err    error
		wantOK bool
	}{
		{"success", `{"a": 1}`, nil, true},
		{"transport error", "", errors.New("connection refused"), false},
		{"no choices", "", ErrNoAnswer, false},
		{"whitespace content", "   \n", nil, false},
		{"disabled", "", ErrDisabled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&stubProvider{text: tt.text, err: tt.err}, BreakerSettings{Failures: 5, Timeout: time.Minute})

			text, ok := c.Complete(context.Background(), "system", "user", 100)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.text, text)
			} else {
				assert.Empty(t, text)
			}
		})
	}
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	c := NewClient(p, BreakerSettings{Failures: 2, Timeout: time.Hour})

	for i := 0; i < 4; i++ {
		_, ok := c.Complete(context.Background(), "s", "u", 10)
		assert.False(t, ok)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&p.calls), "open breaker should short-circuit calls")
}

func TestClient_DisabledDoesNotTripBreaker(t *testing.T) {
	p := &stubProvider{err: ErrDisabled}
	c := NewClient(p, BreakerSettings{Failures: 1, Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		c.Complete(context.Background(), "s", "u", 10)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&p.calls))
}

func TestNew_DisabledWithoutKey(t *testing.T) {
	c, err := New(context.Background(), config.OracleConfig{Provider: "openai"})
	require.NoError(t, err)

	assert.False(t, c.Enabled())
	_, ok := c.Complete(context.Background(), "s", "u", 10)
	assert.False(t, ok)
}

func TestNew_UsesKeyOfSelectedProvider(t *testing.T) {
	c, err := New(context.Background(), config.OracleConfig{Provider: "openai", GeminiAPIKey: "gemini-key"})
	require.NoError(t, err)
	assert.False(t, c.Enabled(), "a gemini key must not enable the openai provider")

	c, err = New(context.Background(), config.OracleConfig{Provider: "openai", OpenAIAPIKey: "sk-openai", GeminiAPIKey: "gemini-key"})
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	assert.Equal(t, "openai", c.Provider())
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hello"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-4o", Timeout: 5 * time.Second})

	text, err := p.Complete(context.Background(), Request{SystemPrompt: "s", UserPrompt: "u", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
}

func TestOpenAIProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, nil},
		{"empty choices", http.StatusOK, `{"choices": []}`, ErrNoAnswer},
		{"garbage body", http.StatusOK, `not json`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second})
			_, err := p.Complete(context.Background(), Request{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 20 * time.Millisecond})
	c := NewClient(p, BreakerSettings{})

	text, ok := c.Complete(context.Background(), "s", "u", 10)
	assert.False(t, ok)
	assert.Empty(t, text)
}
