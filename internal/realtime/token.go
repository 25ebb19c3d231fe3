package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenSigner mints and verifies the short-lived HMAC tokens clients present
// when opening a realtime connection. The payload is base64(userID|expiry)
// and the signature is HMAC-SHA256 over that payload.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a signer from the shared session secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Mint returns a token authorizing userID until now+ttl.
func (s *TokenSigner) Mint(userID string, ttl time.Duration) string {
	payload := fmt.Sprintf("%s|%d", userID, time.Now().Add(ttl).Unix())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + s.sign(encoded)
}

// Verify checks the token's signature and expiry and returns the user id.
func (s *TokenSigner) Verify(token string) (string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed token")
	}
	if !hmac.Equal([]byte(s.sign(parts[0])), []byte(parts[1])) {
		return "", fmt.Errorf("invalid token signature")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed token payload")
	}
	fields := strings.SplitN(string(decoded), "|", 2)
	if len(fields) != 2 {
		return "", fmt.Errorf("malformed token payload")
	}
	exp, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", fmt.Errorf("token expired")
	}
	return fields[0], nil
}

func (s *TokenSigner) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
