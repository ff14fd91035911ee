package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// Claims is the JWT payload carried by every access token.
// The role is embedded so the middleware can build a domain.Actor without
// a database round trip on each request.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager signing with secret.
// ttl is the lifetime of issued tokens.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token identifying the given employee.
// The subject is the employee ID; the role travels in a custom claim.
func (m *TokenManager) Issue(employee domain.Employee) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(employee.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "transferte-prenota",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token string and returns the actor it identifies.
// Returns domain.ErrUnauthorized for any invalid, expired, or malformed token.
func (m *TokenManager) Parse(tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return domain.Actor{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: invalid token subject", domain.ErrUnauthorized)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: invalid token role", domain.ErrUnauthorized)
	}

	return domain.Actor{ID: id, Role: role}, nil
}
