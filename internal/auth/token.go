package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/oklog/ulid/v2"
)

// Token format: nx_{ulid}_{secret}
// Example: nx_01HV6Z7W8K3Q2R5T9Y4X1B0C2D_4f8d2e1b...(64 hex chars)
const (
	TokenPrefix    = "nx"
	TokenSecretLen = 64 // Secret length (hex encoded 32 bytes)
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^nx_([0-9A-HJKMNP-TV-Z]{26})_([a-f0-9]{64})$`)
)

// SessionToken is a freshly minted session credential.
type SessionToken struct {
	Plaintext string // Sent to the client once, in the cookie
	ID        string // ULID, safe to log
	Hash      string // Storage key; the plaintext is never persisted
}

// GenerateSessionToken creates a new random session token.
func GenerateSessionToken() (*SessionToken, error) {
	id := ulid.Make().String()

	secretBytes := make([]byte, TokenSecretLen/2)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("%s_%s_%s", TokenPrefix, id, hex.EncodeToString(secretBytes))

	return &SessionToken{
		Plaintext: plaintext,
		ID:        id,
		Hash:      QuickHash(plaintext),
	}, nil
}

// ParseSessionToken validates the token format and returns its ULID part.
func ParseSessionToken(token string) (string, error) {
	matches := tokenFormatRegex.FindStringSubmatch(token)
	if matches == nil {
		return "", ErrInvalidTokenFormat
	}
	return matches[1], nil
}
