package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
)

// TokenManager handles issuing and validating recruiter JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes JWT payload. The recruiter id travels in the registered
// subject claim.
type Claims struct {
	Name           string               `json:"name,omitempty"`
	OrganizationID string               `json:"org"`
	Role           domain.RecruiterRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the actor recorded on transitions.
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{
		ID:             c.Subject,
		Name:           c.Name,
		OrganizationID: c.OrganizationID,
		Role:           c.Role,
	}
}

// GenerateToken builds and signs a JWT for the recruiter.
func (tm *TokenManager) GenerateToken(actor domain.Actor) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Name:           actor.Name,
		OrganizationID: actor.OrganizationID,
		Role:           actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.OrganizationID == "" {
		return nil, errors.New("token missing recruiter or organization")
	}
	return claims, nil
}
