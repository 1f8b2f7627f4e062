// Package auth provides the authentication token contract for real-time
// connections.
//
// The engine never manages credentials itself: every connection attempt
// consults a TokenProvider, and a missing token prevents the connection
// from being opened at all.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TokenProvider supplies the bearer token embedded in the connection URL.
// Implementations must be safe for concurrent use; the engine shares a single
// provider across all feature connections.
type TokenProvider interface {
	// Token returns the current auth token, or an empty string when the
	// caller is not authenticated.
	Token(ctx context.Context) (string, error)
}

// StaticProvider returns a fixed token. Useful for tests and tooling.
type StaticProvider struct {
	Value string
}

func (p StaticProvider) Token(ctx context.Context) (string, error) {
	return p.Value, nil
}

// EnvProvider reads the token from an environment variable on every call,
// so a rotated token is picked up by the next connection attempt.
type EnvProvider struct {
	Key string
}

func (p EnvProvider) Token(ctx context.Context) (string, error) {
	if p.Key == "" {
		return "", fmt.Errorf("token environment variable name is required")
	}
	return strings.TrimSpace(os.Getenv(p.Key)), nil
}

// FileProvider reads the token from a file on every call. The file is
// re-read per attempt so external refresh (e.g. a sidecar writing a new
// token) takes effect without restarting.
type FileProvider struct {
	Path string
}

func (p FileProvider) Token(ctx context.Context) (string, error) {
	if p.Path == "" {
		return "", fmt.Errorf("token file path is required")
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
