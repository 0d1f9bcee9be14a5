package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// PasswordResetRequest issues a reset token and emails it. The response is
// identical whether or not the email is registered, so the endpoint cannot
// be used to probe for accounts.
func (s *AuthService) PasswordResetRequest(ctx context.Context, req *domain.PasswordResetRequestBody) error {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetRequest")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return &domain.ErrValidation{Field: "email", Message: "required"}
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.store.StoreResetToken(ctx, user.ID, hashToken(token), time.Now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.mail != nil {
		if err := s.mail.SendPasswordReset(user.Email, user.Name, token); err != nil {
			s.logger.Error("password reset: email delivery failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
			return &domain.ErrExternalService{Service: "smtp", Err: err}
		}
	} else {
		s.logger.Warn("password reset: mail not configured, token only logged",
			zap.Int64("user_id", user.ID),
		)
	}

	s.logger.Info("password reset token issued", zap.Int64("user_id", user.ID))
	return nil
}

// PasswordResetConfirm validates the reset token and replaces the password.
// All refresh tokens are revoked so other sessions must log in again.
func (s *AuthService) PasswordResetConfirm(ctx context.Context, req *domain.PasswordResetConfirmRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetConfirm")
	defer span.End()

	if req.Token == "" {
		return &domain.ErrValidation{Field: "token", Message: "required"}
	}
	if len(req.NewPassword) < minPasswordLength {
		return &domain.ErrValidation{Field: "new_password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	stored, err := s.store.GetResetToken(ctx, hashToken(req.Token))
	if err != nil {
		return fmt.Errorf("get reset token: %w", err)
	}
	if stored == nil || stored.Used || stored.ExpiresAt.Before(time.Now()) {
		return &domain.ErrInvalidCode{}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, stored.UserID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.store.MarkResetTokenUsed(ctx, stored.ID)
	_ = s.store.RevokeAllRefreshTokens(ctx, stored.UserID)

	s.logger.Info("password reset completed", zap.Int64("user_id", stored.UserID))
	return nil
}
