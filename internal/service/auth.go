package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// AuthService authenticates admin users against the store and issues bearer
// tokens via the TokenCodec.
type AuthService struct {
	store *store.Store
	codec *TokenCodec
}

// NewAuthService creates an AuthService with the given signing secret and
// token TTL.
func NewAuthService(st *store.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store: st,
		codec: NewTokenCodec(secret, ttl),
	}
}

// Codec exposes the token codec, used by tests and the login handler for
// expiry reporting.
func (s *AuthService) Codec() *TokenCodec {
	return s.codec
}

// NormalizeEmail trims surrounding whitespace and lower-cases an email so all
// lookups and uniqueness checks share one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, model.SanitizedAdmin, error) {
	user, err := s.store.GetAdminByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", model.SanitizedAdmin{}, ErrInvalidCredentials
		}
		return "", model.SanitizedAdmin{}, err
	}

	if !VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return "", model.SanitizedAdmin{}, ErrInvalidCredentials
	}

	safe := user.Sanitized()
	token, err := s.codec.Encode(safe)
	if err != nil {
		return "", model.SanitizedAdmin{}, err
	}
	return token, safe, nil
}

// Authenticate validates a bearer token and confirms the referenced user
// still exists. A structurally valid token whose subject has been deleted is
// rejected, so deletion takes effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.SanitizedAdmin, error) {
	payload, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetAdminByID(ctx, payload.Sub)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	safe := user.Sanitized()
	return &safe, nil
}
