package api

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidToken is returned for missing or unrecognized credentials.
var ErrInvalidToken = errors.New("invalid or missing token")

// TokenVerifier resolves a bearer token to a caller identity. Session
// issuance lives in an external auth service; this is only the checking
// contract.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// StaticVerifier maps pre-shared tokens to user ids. Suitable for
// single-tenant deployments and tests.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	if userID, ok := v.tokens[token]; ok {
		return userID, nil
	}
	return "", ErrInvalidToken
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
