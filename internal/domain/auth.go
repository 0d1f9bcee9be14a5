package domain

import "time"

// User is a CRM operator account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

// Credentials are never returned to clients.
type Credentials struct {
	UserID       int64
	PasswordHash string
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token pair and the user identity the SPA keeps
// for the session.
type LoginResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
	Message      string `json:"message,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest creates an operator account. Registration is
// invite-only.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	InviteToken string `json:"invite_token"`
}

// Invite is a registration invite link.
type Invite struct {
	ID          int64      `json:"id"`
	Token       string     `json:"token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxUses     int        `json:"max_uses"`
	CurrentUses int        `json:"current_uses"`
	Active      bool       `json:"is_active"`
}

// CreateInviteRequest issues a new invite.
type CreateInviteRequest struct {
	MaxUses   int        `json:"max_uses,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PasswordResetRequestBody asks for a reset token to be emailed.
type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest sets a new password using a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetToken is the stored (hashed) form of an issued reset token.
type ResetToken struct {
	ID        int64
	UserID    int64
	ExpiresAt time.Time
	Used      bool
}

// RefreshToken is the stored (hashed) form of an issued refresh token.
type RefreshToken struct {
	UserID    int64
	ExpiresAt time.Time
}
