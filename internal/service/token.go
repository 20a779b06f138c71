package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/webodise/siteapi/internal/model"
)

// TokenPayload is the self-contained identity a token carries. Validity is
// entirely computable from the token bytes plus the signing secret; the only
// server-side check beyond the signature is that the referenced user still
// exists, which the middleware performs.
type TokenPayload struct {
	Sub   string     `json:"sub"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Exp   int64      `json:"exp"`
}

// TokenCodec produces and validates bearer tokens in the form
// base64url(payload JSON) + "." + base64url(HMAC-SHA256 signature).
// Tokens are never persisted and cannot be revoked before expiry; that is a
// deliberate trade-off, not an oversight.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec with the given signing secret and token TTL.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Encode issues a signed token for the given identity, expiring after the
// configured TTL.
func (c *TokenCodec) Encode(user model.SanitizedAdmin) (string, error) {
	payload := TokenPayload{
		Sub:   user.ID,
		Email: user.Email,
		Role:  user.Role,
		Exp:   time.Now().Add(c.ttl).Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.sign(encoded), nil
}

// Decode validates a token and returns its payload, or ErrInvalidToken /
// ErrTokenExpired. The signature is verified in constant time before the
// payload JSON is trusted; clock skew is not compensated.
func (c *TokenCodec) Decode(token string) (*TokenPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}

	expected := []byte(c.sign(parts[0]))
	provided := []byte(parts[1])
	if len(expected) != len(provided) {
		return nil, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare(expected, provided) != 1 {
		return nil, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}
	var payload TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalidToken
	}
	if payload.Sub == "" || payload.Exp == 0 {
		return nil, ErrInvalidToken
	}
	if payload.Exp <= time.Now().Unix() {
		return nil, ErrTokenExpired
	}
	return &payload, nil
}

func (c *TokenCodec) sign(payloadEncoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payloadEncoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
