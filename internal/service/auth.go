package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const (
	bcryptCost         = 12
	minPasswordLength  = 6
	defaultInviteUses  = 1
	defaultInviteValid = 7 * 24 * time.Hour
)

// AuthService handles login, invite-only registration, JWT token management
// and password reset.
type AuthService struct {
	store      port.AuthStore
	mail       port.MailSender
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewAuthService creates the auth service. mail may be nil when SMTP is not
// configured; password reset then only logs the token.
func NewAuthService(store port.AuthStore, mail port.MailSender, jwtSecret string, accessTTL, refreshTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:      store,
		mail:       mail,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Login authenticates by email and password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "email and password are required"}
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &domain.ErrUnauthorized{Message: "Неверный email или пароль"}
	}

	cred, err := s.store.GetCredentials(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login: failed password attempt", zap.String("email", email))
		return nil, &domain.ErrUnauthorized{Message: "Неверный email или пароль"}
	}

	_ = s.store.TouchLastLogin(ctx, user.ID)

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return pair, nil
}

// Register creates an operator account. Registration is invite-gated: the
// invite token must exist, be active, not expired and not exhausted.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ErrValidation{Field: "email", Message: "valid email is required"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &domain.ErrValidation{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if req.InviteToken == "" {
		return nil, &domain.ErrValidation{Field: "invite_token", Message: "required"}
	}

	invite, err := s.store.GetInvite(ctx, req.InviteToken)
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite == nil || !invite.Active {
		return nil, &domain.ErrForbidden{Action: "register without a valid invite"}
	}
	if invite.ExpiresAt != nil && invite.ExpiresAt.Before(time.Now()) {
		return nil, &domain.ErrForbidden{Action: "register with an expired invite"}
	}
	if invite.MaxUses > 0 && invite.CurrentUses >= invite.MaxUses {
		return nil, &domain.ErrForbidden{Action: "register with an exhausted invite"}
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "Пользователь с таким email уже существует"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.store.CreateUser(ctx, email, strings.TrimSpace(req.Name), string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	_ = s.store.IncrementInviteUse(ctx, invite.ID)

	user := &domain.User{ID: id, Email: email, Name: strings.TrimSpace(req.Name)}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", id),
		zap.Int64("invite_id", invite.ID),
	)
	return pair, nil
}

// Logout revokes every refresh token of the user.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	ctx, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	if err := s.store.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	s.logger.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}

// CreateInvite issues a registration invite link token.
func (s *AuthService) CreateInvite(ctx context.Context, req *domain.CreateInviteRequest) (*domain.Invite, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.CreateInvite")
	defer span.End()

	maxUses := req.MaxUses
	if maxUses <= 0 {
		maxUses = defaultInviteUses
	}
	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(defaultInviteValid)
		expiresAt = &t
	}

	token, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}

	invite, err := s.store.CreateInvite(ctx, token, maxUses, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("store invite: %w", err)
	}

	s.logger.Info("invite created",
		zap.Int64("invite_id", invite.ID),
		zap.Int("max_uses", maxUses),
	)
	return invite, nil
}

// GetUser returns the user's public profile.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.GetUser")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: fmt.Sprint(userID)}
	}
	return user, nil
}
