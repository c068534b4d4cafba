package auth

import (
	"context"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionInfo) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, principal user.Principal) (user.AccountResponse, error)
}

// RefreshTokenRepository persists issued refresh tokens by hash.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, ref user.Ref, token string, expiresAt int64, session SessionInfo) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}
