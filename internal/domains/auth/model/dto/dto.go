package dto

import (
	"lockngo/infras/jwt"
	userModel "lockngo/internal/domains/user/model"
	gModel "lockngo/shared/model"
	"strings"
	"time"
)

// RegisterRequest creates a customer or agent account. Admin accounts are
// only ever seeded.
type RegisterRequest struct {
	Name    string `json:"name"              validate:"required,notblank,max=100"`
	Email   string `json:"email"             validate:"required,email"`
	Role    string `json:"role"              validate:"required,oneof=user agent"`
	Phone   string `json:"phone,omitempty"   validate:"omitempty,max=32"`
	Vehicle string `json:"vehicle,omitempty" validate:"omitempty,max=64"`
}

func (r *RegisterRequest) ToUserModel(id string, now time.Time) userModel.User {
	user := userModel.User{
		ID:    id,
		Name:  strings.TrimSpace(r.Name),
		Email: strings.ToLower(strings.TrimSpace(r.Email)),
		Role:  r.Role,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  id,
			ModifiedBy: id,
		},
	}

	if user.IsAgent() {
		user.Phone = r.Phone
		user.Vehicle = r.Vehicle
	}

	return user
}

// LoginRequest selects an existing account by email. There is no password.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
