package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and verifies the bearer tokens handed out at register/login.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

// IssuedToken is a freshly signed token plus the identifiers stored alongside it.
type IssuedToken struct {
	ID        string // jti claim, also the auth_tokens primary key
	Token     string
	ExpiresAt time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Auth exposes the underlying verifier for jwtauth middleware.
func (m *TokenManager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) Issue(userID string) (*IssuedToken, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	id := uuid.NewString()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     id,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{ID: id, Token: tokenString, ExpiresAt: expiresAt}, nil
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetTokenIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["jti"].(string)
	if !ok || id == "" {
		return "", errors.New("jti claim is missing or not a string")
	}
	return id, nil
}
