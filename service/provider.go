package service

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no insight provider is configured.
var ErrNoProvider = errors.New("no insight provider configured")

// Provider generates text for a prompt with a single request/response exchange.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
