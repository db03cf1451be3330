package auth

import (
	"context"

	"github.com/shinelab/detailing-ops/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req RefreshTokenRequest) error
	Me(ctx context.Context, userID string) (user.UserResponse, error)
}
