package handlers

import (
	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
)

// LoginResponse is returned by login and refresh. The refresh token travels
// only in the cookie.
type LoginResponse struct {
	AccessToken        string `json:"accessToken"`
	MustChangePassword bool   `json:"mustChangePassword"`
	Role               string `json:"role"`
	ID                 string `json:"id"`
}

func toLoginResponse(r *usecases.AuthResult) *LoginResponse {
	return &LoginResponse{
		AccessToken:        r.AccessToken,
		MustChangePassword: r.MustChangePassword,
		Role:               string(r.Role),
		ID:                 r.UserID,
	}
}
