package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a registered person, identified by phone number.
type User struct {
	ID          uuid.UUID   `json:"id"`
	Phone       string      `json:"phone"`
	DisplayName string      `json:"displayName"`
	Username    string      `json:"username"`
	DocumentID  null.String `json:"documentId,omitempty"`
	AvatarURL   null.String `json:"avatarUrl,omitempty"`
	Email       null.String `json:"email,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"-"`
}

// RegisterInput represents input for completing registration
type RegisterInput struct {
	Phone       string `json:"phone" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Username    string `json:"username" binding:"required"`
	DocumentID  string `json:"documentId"`
}

// UpdateProfileInput represents input for editing a profile
type UpdateProfileInput struct {
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

// SendCodeInput represents input for requesting an OTP
type SendCodeInput struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyCodeInput represents input for checking an OTP
type VerifyCodeInput struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// SendCodeResponse is returned by the send-code endpoint. DevCode is
// only populated when OTP dev mode is enabled.
type SendCodeResponse struct {
	Success bool   `json:"success"`
	DevCode string `json:"dev_code,omitempty"`
}

// VerifyCodeResponse reports whether the code matched and whether a
// user already exists for the phone (login vs registration path).
type VerifyCodeResponse struct {
	Verified     bool       `json:"verified"`
	IsRegistered bool       `json:"isRegistered"`
	User         *User      `json:"user"`
	Tokens       *TokenPair `json:"tokens,omitempty"`
}

// AuthResponse is returned on successful registration.
type AuthResponse struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
