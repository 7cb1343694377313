package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// ErrInvalidToken reports a missing, expired or tampered session token.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the session identity carried by a token.
type Claims struct {
	SessionID string `json:"sid"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.StandardClaims
}

// Session converts the claims back into the immutable session context.
func (c *Claims) Session() models.Session {
	return models.Session{ID: c.SessionID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens returns a signer using secret with tokens valid for ttl.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for session.
func (t *Tokens) Issue(session models.Session) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := &Claims{
		SessionID: session.ID,
		Name:      session.Name,
		Email:     session.Email,
		Role:      session.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signed and returns its claims.
func (t *Tokens) Parse(signed string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
