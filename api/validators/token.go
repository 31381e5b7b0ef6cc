package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	token := strings.TrimSpace(header)
	if len(token) < len("bearer ") || !strings.EqualFold(token[:len("bearer ")], "bearer ") {
		return "", ErrInvalidToken
	}
	token = strings.TrimSpace(token[len("bearer "):])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
