package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/metrics"
)

// Client wraps a Provider with a circuit breaker, call logging and metrics.
// It satisfies Oracle.
type Client struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker[string]
	log      zerolog.Logger
}

type BreakerSettings struct {
	Failures uint32
	Timeout  time.Duration
}

func NewClient(provider Provider, bs BreakerSettings) *Client {
	log := logging.With("oracle")
	if bs.Failures == 0 {
		bs.Failures = 5
	}

	settings := gobreaker.Settings{
		Name:        "oracle-" + provider.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.Failures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations and a disabled provider say nothing about provider health.
			return err == nil || errors.Is(err, ErrDisabled) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("oracle circuit breaker state change")
		},
	}

	return &Client{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker[string](settings),
		log:      log,
	}
}

// New builds the configured provider and wraps it in a Client. A missing API key
// yields a disabled client rather than an error.
func New(ctx context.Context, cfg config.OracleConfig) (*Client, error) {
	var provider Provider
	apiKey := cfg.APIKey()
	switch {
	case cfg.Provider == "none" || apiKey == "":
		provider = disabledProvider{}
	case cfg.Provider == "gemini":
		model := cfg.Model
		if strings.HasPrefix(model, "gpt") {
			model = ""
		}
		p, err := NewGeminiProvider(ctx, apiKey, model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		provider = p
	case cfg.Provider == "openai":
		provider = NewOpenAIProvider(OpenAIConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}

	return NewClient(provider, BreakerSettings{
		Failures: cfg.BreakerFailures,
		Timeout:  cfg.BreakerTimeout,
	}), nil
}

// Provider returns the name of the wrapped backend.
func (c *Client) Provider() string {
	return c.provider.Name()
}

// Enabled reports whether calls can reach a real backend.
func (c *Client) Enabled() bool {
	_, disabled := c.provider.(disabledProvider)
	return !disabled
}

// Complete asks the model for a completion. Any failure is logged and reported as ok=false.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, bool) {
	callID := uuid.NewString()[:8]
	name := c.provider.Name()
	log := c.log.With().Str("call_id", callID).Str("provider", name).Logger()

	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		return c.provider.Complete(ctx, Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			MaxTokens:    maxTokens,
		})
	})
	elapsed := time.Since(start)
	metrics.OracleRequestDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, ErrDisabled):
		outcome = "disabled"
		log.Debug().Msg("oracle disabled, skipping call")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "breaker_open"
		log.Warn().Err(err).Msg("oracle circuit breaker rejected call")
	case errors.Is(err, ErrNoAnswer):
		outcome = "empty"
		log.Warn().Dur("elapsed", elapsed).Msg("oracle returned no answer")
	case err != nil:
		outcome = "transport_error"
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("oracle call failed")
	case strings.TrimSpace(text) == "":
		outcome = "empty"
		log.Warn().Dur("elapsed", elapsed).Msg("oracle returned empty content")
	default:
		log.Info().Dur("elapsed", elapsed).Int("chars", len(text)).Msg("oracle call completed")
	}
	metrics.OracleRequestsTotal.WithLabelValues(name, outcome).Inc()

	if outcome != "ok" {
		return "", false
	}
	return text, true
}
