package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/sauron136/custos/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sauron136/custos/pkg/constant"
)

// TokenGenerator mints stateless access tokens and the opaque random
// strings stored for refresh, verification, and reset tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string, verified bool) (string, time.Time, error)
	GenerateOpaqueToken() (string, error)
	GetAccessTokenExpiry() time.Duration
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
}

type TokenService struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

func NewTokenService(accessSecret string, accessExpiry time.Duration) *TokenService {
	return &TokenService{
		AccessTokenSecret: accessSecret,
		AccessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken signs a short-lived HS256 credential carrying the
// user's identity claims. No store lookup is needed to verify it.
func (ts *TokenService) GenerateAccessToken(userID, email string, verified bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.AccessTokenExpiry)

	claims := JWTCustomClaims{
		UserID:     userID,
		Email:      email,
		IsVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// GenerateOpaqueToken returns a URL-safe random string with 32 bytes of
// entropy, used for all stored token kinds.
func (ts *TokenService) GenerateOpaqueToken() (string, error) {
	buf := make([]byte, constant.TokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.AccessTokenSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
