package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// tokenByteLen is the number of random bytes in a session token.
// 32 bytes of crypto/rand entropy makes collisions and guessing
// astronomically unlikely; no uniqueness check against the active set
// is needed.
const tokenByteLen = 32

// BearerPrefix is the required Authorization header scheme.
const BearerPrefix = "Bearer "

var tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateToken creates a new opaque session token.
// Tokens carry no structure; they are keys into the active-session store.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidTokenFormat checks if a token has the shape this server issues.
func ValidTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// ExtractBearer pulls the token out of an Authorization header value.
// Returns empty string when the header is missing or not Bearer-formed.
func ExtractBearer(authorization string) string {
	if !strings.HasPrefix(authorization, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authorization, BearerPrefix)
}
