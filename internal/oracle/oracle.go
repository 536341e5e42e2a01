// Package oracle talks to the external language model and turns its free-form
// answers into schema-checked JSON documents.
//
// Every failure of the model call (transport, auth, timeout, empty answer, open
// circuit breaker) collapses into a single "no result" outcome so callers only
// have one fallback branch to handle.
package oracle

import (
	"context"
	"errors"
)

// Call failures. Providers return these; Client logs and collapses them.
var (
	ErrDisabled = errors.New("oracle disabled")
	ErrNoAnswer = errors.New("oracle returned no choices")
)

// Answer rejections, produced after a call succeeded.
var (
	ErrNullAnswer     = errors.New("oracle answered null")
	ErrMalformedJSON  = errors.New("oracle answer is not valid JSON")
	ErrSchemaRejected = errors.New("oracle answer does not match the response schema")
	ErrInvalidContent = errors.New("oracle answer could not be mapped")
)

// Oracle returns raw model text, or ok=false on any failure.
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (text string, ok bool)
}

// Request is a single chat completion request.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Provider is a concrete model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

type disabledProvider struct{}

func (disabledProvider) Name() string { return "none" }

func (disabledProvider) Complete(context.Context, Request) (string, error) {
	return "", ErrDisabled
}
