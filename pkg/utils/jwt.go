package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Audiences keep a refresh token from being presented as an access token.
const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// JWTClaims is the payload of an access token
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and checks HS256 tokens for one issuer
type JWTManager struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewJWTManager(secret, issuer string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// AccessTokenExpiry is the lifetime of issued access tokens.
func (m *JWTManager) AccessTokenExpiry() time.Duration {
	return m.accessExpiry
}

func (m *JWTManager) registered(userID uuid.UUID, audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *JWTManager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// GenerateAccessToken issues a token carrying the user's email and role
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, email, role string) (string, error) {
	return m.sign(&JWTClaims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		RegisteredClaims: m.registered(userID, audienceAccess, m.accessExpiry),
	})
}

// GenerateRefreshToken issues a token that only identifies the user
func (m *JWTManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	claims := m.registered(userID, audienceRefresh, m.refreshExpiry)
	return m.sign(&claims)
}

func (m *JWTManager) parse(raw, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ValidateAccessToken checks an access token and returns its claims
func (m *JWTManager) ValidateAccessToken(raw string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := m.parse(raw, audienceAccess, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken checks a refresh token and returns the user it names
func (m *JWTManager) ValidateRefreshToken(raw string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	if err := m.parse(raw, audienceRefresh, claims); err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
