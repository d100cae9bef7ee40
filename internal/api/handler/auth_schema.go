package handler

import (
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
	BranchID string `json:"branchId"`
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Phone:    r.Phone,
		BranchID: r.BranchID,
		Category: r.Category,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Name    *string `json:"name"    validate:"omitempty,max=120"`
	Avatar  *string `json:"avatar"  validate:"omitempty,max=500"`
	Phone   *string `json:"phone"   validate:"omitempty,max=30"`
	Bio     *string `json:"bio"     validate:"omitempty,max=2000"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

func (r updateProfileRequest) toUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{Name: r.Name, Avatar: r.Avatar, Phone: r.Phone, Bio: r.Bio, Address: r.Address}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

// authResponse carries a token pair. ExpiresAt is the access token expiry in
// Unix milliseconds.
type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    int64        `json:"expiresAt"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         *domain.User `json:"user"`
}

func newAuthResponse(res *ports.AuthResult, nowMillis int64) authResponse {
	exp := res.Tokens.ExpiresAt.UnixMilli()
	in := (exp - nowMillis) / 1000
	if in < 0 {
		in = 0
	}
	return authResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresAt:    exp,
		ExpiresIn:    in,
		User:         res.User,
	}
}
