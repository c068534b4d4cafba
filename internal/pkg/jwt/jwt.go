package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

type Service interface {
	GenerateAccessToken(ref user.Ref, email string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(ref user.Ref) (token string, expiresAt int64, err error)
	ParseRefreshToken(token string) (user.Ref, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64
	mu                         sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(ref user.Ref, email string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":   ref.ID,
		"user_type": string(ref.Type),
		"email":     email,
		"type":      TokenTypeAccess,
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(ref user.Ref) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":   ref.ID,
		"user_type": string(ref.Type),
		"exp":       expiresAt,
		"type":      TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken verifies a refresh token and returns its subject.
func (j *JWTService) ParseRefreshToken(tokenString string) (user.Ref, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Ref{}, err
	}

	claims := token.PrivateClaims()
	if claims["type"] != TokenTypeRefresh {
		return user.Ref{}, ErrInvalidClaims
	}
	return refFromClaims(claims)
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// PrincipalFromContext reads the caller from verified access token claims.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if claims["type"] != TokenTypeAccess {
		return user.Principal{}, ErrInvalidClaims
	}

	ref, err := refFromClaims(claims)
	if err != nil {
		return user.Principal{}, err
	}
	email, _ := claims["email"].(string)

	return user.Principal{Ref: ref, Email: email}, nil
}

func refFromClaims(claims map[string]interface{}) (user.Ref, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return user.Ref{}, ErrInvalidClaims
	}
	rawType, _ := claims["user_type"].(string)
	userType, err := user.ParseUserType(rawType)
	if err != nil {
		return user.Ref{}, ErrInvalidClaims
	}
	return user.Ref{Type: userType, ID: id}, nil
}
