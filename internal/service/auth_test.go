package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthStore struct {
	user       *domain.User
	cred       *domain.Credentials
	invite     *domain.Invite
	resetToken *domain.ResetToken
	refresh    *domain.RefreshToken
	err        error

	createdUsers   int
	storedRefresh  string
	revokedAll     int
	inviteUses     int
	passwordResets int
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, _ string) (*domain.User, error) {
	return m.user, m.err
}

func (m *mockAuthStore) GetUserByID(_ context.Context, _ int64) (*domain.User, error) {
	return m.user, m.err
}

func (m *mockAuthStore) CreateUser(_ context.Context, _, _, _ string) (int64, error) {
	m.createdUsers++
	return 1, m.err
}

func (m *mockAuthStore) GetCredentials(_ context.Context, _ int64) (*domain.Credentials, error) {
	return m.cred, m.err
}

func (m *mockAuthStore) UpdatePassword(_ context.Context, _ int64, _ string) error {
	m.passwordResets++
	return m.err
}

func (m *mockAuthStore) TouchLastLogin(_ context.Context, _ int64) error { return nil }

func (m *mockAuthStore) GetInvite(_ context.Context, _ string) (*domain.Invite, error) {
	return m.invite, m.err
}

func (m *mockAuthStore) CreateInvite(_ context.Context, token string, maxUses int, expiresAt *time.Time) (*domain.Invite, error) {
	return &domain.Invite{ID: 1, Token: token, MaxUses: maxUses, ExpiresAt: expiresAt, Active: true}, m.err
}

func (m *mockAuthStore) IncrementInviteUse(_ context.Context, _ int64) error {
	m.inviteUses++
	return nil
}

func (m *mockAuthStore) StoreResetToken(_ context.Context, _ int64, _ string, _ time.Time) error {
	return m.err
}

func (m *mockAuthStore) GetResetToken(_ context.Context, _ string) (*domain.ResetToken, error) {
	return m.resetToken, m.err
}

func (m *mockAuthStore) MarkResetTokenUsed(_ context.Context, _ int64) error { return nil }

func (m *mockAuthStore) StoreRefreshToken(_ context.Context, _ int64, tokenHash string, _ time.Time) error {
	m.storedRefresh = tokenHash
	return m.err
}

func (m *mockAuthStore) GetRefreshToken(_ context.Context, _ string) (*domain.RefreshToken, error) {
	return m.refresh, m.err
}

func (m *mockAuthStore) RevokeRefreshToken(_ context.Context, _ string) error { return nil }

func (m *mockAuthStore) RevokeAllRefreshTokens(_ context.Context, _ int64) error {
	m.revokedAll++
	return nil
}

func newAuth(store *mockAuthStore) *service.AuthService {
	return service.NewAuthService(store, nil, "test-secret", 15*time.Minute, 7*24*time.Hour, zap.NewNop())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestLogin_Success(t *testing.T) {
	store := &mockAuthStore{
		user: &domain.User{ID: 1, Email: "anna@1dayhr.ru", Name: "Анна"},
		cred: &domain.Credentials{UserID: 1, PasswordHash: hashOf(t, "correct-password")},
	}
	auth := newAuth(store)

	resp, err := auth.Login(context.Background(), &domain.LoginRequest{
		Email:    "Anna@1dayhr.ru",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Success || resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Errorf("expected a full token pair, got %+v", resp)
	}

	claims, err := auth.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued access token does not validate: %v", err)
	}
	if claims.Sub != 1 {
		t.Errorf("expected subject 1, got %d", claims.Sub)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := &mockAuthStore{
		user: &domain.User{ID: 1, Email: "anna@1dayhr.ru"},
		cred: &domain.Credentials{UserID: 1, PasswordHash: hashOf(t, "correct-password")},
	}
	auth := newAuth(store)

	_, err := auth.Login(context.Background(), &domain.LoginRequest{
		Email:    "anna@1dayhr.ru",
		Password: "wrong",
	})

	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	auth := newAuth(&mockAuthStore{})

	_, err := auth.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@1dayhr.ru",
		Password: "whatever",
	})

	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// Unknown user and wrong password must be indistinguishable.
	if unauthorized.Message != "Неверный email или пароль" {
		t.Errorf("unexpected message: %s", unauthorized.Message)
	}
}

func TestRegister_RequiresInvite(t *testing.T) {
	store := &mockAuthStore{}
	auth := newAuth(store)

	_, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:    "new@1dayhr.ru",
		Password: "long-enough-password",
		Name:     "Новый",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if store.createdUsers != 0 {
		t.Errorf("a user was created without an invite")
	}
}

func TestRegister_UnknownInviteForbidden(t *testing.T) {
	store := &mockAuthStore{}
	auth := newAuth(store)

	_, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "new@1dayhr.ru",
		Password:    "long-enough-password",
		Name:        "Новый",
		InviteToken: "no-such-token",
	})

	var forbidden *domain.ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.createdUsers != 0 {
		t.Errorf("a user was created with an unknown invite")
	}
}

func TestRegister_ExhaustedInviteForbidden(t *testing.T) {
	store := &mockAuthStore{invite: &domain.Invite{
		ID: 1, Token: "tok", Active: true, MaxUses: 1, CurrentUses: 1,
	}}
	auth := newAuth(store)

	_, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "new@1dayhr.ru",
		Password:    "long-enough-password",
		Name:        "Новый",
		InviteToken: "tok",
	})

	var forbidden *domain.ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRegister_ExpiredInviteForbidden(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	store := &mockAuthStore{invite: &domain.Invite{
		ID: 1, Token: "tok", Active: true, MaxUses: 5, ExpiresAt: &past,
	}}
	auth := newAuth(store)

	_, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "new@1dayhr.ru",
		Password:    "long-enough-password",
		Name:        "Новый",
		InviteToken: "tok",
	})

	var forbidden *domain.ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	store := &mockAuthStore{invite: &domain.Invite{ID: 1, Token: "tok", Active: true, MaxUses: 5}}
	auth := newAuth(store)

	_, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "new@1dayhr.ru",
		Password:    "12345",
		Name:        "Новый",
		InviteToken: "tok",
	})

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if verr.Field != "password" {
		t.Errorf("expected the password field to be flagged, got %q", verr.Field)
	}
	if store.createdUsers != 0 {
		t.Errorf("expected no created user, got %d", store.createdUsers)
	}
}

func TestRegister_SixCharPasswordAccepted(t *testing.T) {
	store := &mockAuthStore{invite: &domain.Invite{ID: 1, Token: "tok", Active: true, MaxUses: 5}}
	auth := newAuth(store)

	resp, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "new@1dayhr.ru",
		Password:    "123456",
		Name:        "Новый",
		InviteToken: "tok",
	})
	if err != nil {
		t.Fatalf("expected a six character password to pass, got %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token after registration")
	}
}

func TestRegister_ValidInviteCreatesUser(t *testing.T) {
	store := &mockAuthStore{invite: &domain.Invite{ID: 1, Token: "tok", Active: true, MaxUses: 5}}
	auth := newAuth(store)

	resp, err := auth.Register(context.Background(), &domain.RegisterRequest{
		Email:       "New@1dayhr.ru",
		Password:    "long-enough-password",
		Name:        "Новый",
		InviteToken: "tok",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.createdUsers != 1 {
		t.Errorf("expected exactly one created user, got %d", store.createdUsers)
	}
	if store.inviteUses != 1 {
		t.Errorf("expected the invite use to be counted, got %d", store.inviteUses)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token after registration")
	}
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	auth := newAuth(&mockAuthStore{})

	if _, err := auth.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("expected an error for a malformed token")
	}
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	store := &mockAuthStore{}
	auth := newAuth(store)

	if err := auth.Logout(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.revokedAll != 1 {
		t.Errorf("expected all refresh tokens revoked once, got %d", store.revokedAll)
	}
}
