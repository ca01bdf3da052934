// Package auth issues and validates the signed bearer tokens that protect
// the dashboard API.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/subham-proj/barelytics-server/internal/users"
)

// Authentication errors mapped to a 401 by the middleware.
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid or expired access token")
	ErrExpiredCredentials = errors.New("access token expired")
)

// tokenCookie is the fallback cookie consulted when no Authorization
// header is present.
const tokenCookie = "token"

// Claims are the JWT claims carried by barelytics access tokens.
type Claims struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
	jwt.RegisteredClaims
}

// Manager signs and validates access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager with the given HMAC secret and token
// lifetime.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// IssueToken creates a signed access token for a user.
func (m *Manager) IssueToken(user *users.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: user.Email,
		Plan:  user.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and verifies a token string, returning its claims.
func (m *Manager) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// TokenFromRequest extracts the bearer token from the Authorization header,
// falling back to the token cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	return c.Cookies(tokenCookie)
}
