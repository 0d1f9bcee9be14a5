package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
)

// userRow maps the users table.
type userRow struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"password_hash"`
	CreatedAt    storeTime  `json:"created_at"`
	LastLogin    *storeTime `json:"last_login"`
}

func (r *userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.Time,
	}
	if r.LastLogin != nil {
		u.LastLogin = r.LastLogin.Time
	}
	return u
}

func (c *Client) getUser(ctx context.Context, filter string) (*userRow, error) {
	var row *userRow
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "users?"+filter+"&limit=1")
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return nil
		}
		var rows []userRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		if len(rows) > 0 {
			row = &rows[0]
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/users", Err: err}
	}
	return row, nil
}

// GetUserByEmail returns nil without error when no user matches.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByEmail")
	defer span.End()

	row, err := c.getUser(ctx, "email=eq."+url.QueryEscape(email))
	if err != nil || row == nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetUserByID returns nil without error when no user matches.
func (c *Client) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByID")
	defer span.End()

	row, err := c.getUser(ctx, fmt.Sprintf("id=eq.%d", id))
	if err != nil || row == nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// CreateUser inserts an operator account and returns its id.
func (c *Client) CreateUser(ctx context.Context, email, name, passwordHash string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateUser")
	defer span.End()

	var id int64
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "users", map[string]any{
			"email":         email,
			"name":          name,
			"password_hash": passwordHash,
		})
		if err != nil {
			return err
		}
		id, err = insertedID(body)
		return err
	})
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "store/users", Err: err}
	}
	return id, nil
}

// GetCredentials fetches the stored password hash for a user.
func (c *Client) GetCredentials(ctx context.Context, userID int64) (*domain.Credentials, error) {
	ctx, span := tracer.Start(ctx, "Store.GetCredentials")
	defer span.End()

	row, err := c.getUser(ctx, fmt.Sprintf("id=eq.%d", userID))
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: fmt.Sprint(userID)}
	}
	return &domain.Credentials{UserID: row.ID, PasswordHash: row.PasswordHash}, nil
}

// UpdatePassword replaces a user's password hash.
func (c *Client) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	ctx, span := tracer.Start(ctx, "Store.UpdatePassword")
	defer span.End()

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("users?id=eq.%d", userID), map[string]any{
			"password_hash": passwordHash,
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/users", Err: err}
	}
	return nil
}

// TouchLastLogin stamps the user's last successful login.
func (c *Client) TouchLastLogin(ctx context.Context, userID int64) error {
	ctx, span := tracer.Start(ctx, "Store.TouchLastLogin")
	defer span.End()

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("users?id=eq.%d", userID), map[string]any{
			"last_login": time.Now().UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/users", Err: err}
	}
	return nil
}

// inviteRow maps the invite_links table.
type inviteRow struct {
	ID          int64      `json:"id"`
	Token       string     `json:"token"`
	ExpiresAt   *storeTime `json:"expires_at"`
	MaxUses     int        `json:"max_uses"`
	CurrentUses int        `json:"current_uses"`
	IsActive    bool       `json:"is_active"`
}

func (r *inviteRow) toDomain() *domain.Invite {
	return &domain.Invite{
		ID:          r.ID,
		Token:       r.Token,
		ExpiresAt:   timeOrNil(r.ExpiresAt),
		MaxUses:     r.MaxUses,
		CurrentUses: r.CurrentUses,
		Active:      r.IsActive,
	}
}

// GetInvite returns nil without error when the token is unknown.
func (c *Client) GetInvite(ctx context.Context, token string) (*domain.Invite, error) {
	ctx, span := tracer.Start(ctx, "Store.GetInvite")
	defer span.End()

	var invite *domain.Invite
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "invite_links?token=eq."+url.QueryEscape(token)+"&limit=1")
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return nil
		}
		var rows []inviteRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode invite: %w", err)
		}
		if len(rows) > 0 {
			invite = rows[0].toDomain()
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/invites", Err: err}
	}
	return invite, nil
}

// CreateInvite stores a new invite token.
func (c *Client) CreateInvite(ctx context.Context, token string, maxUses int, expiresAt *time.Time) (*domain.Invite, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateInvite")
	defer span.End()

	data := map[string]any{
		"token":        token,
		"max_uses":     maxUses,
		"current_uses": 0,
		"is_active":    true,
	}
	if expiresAt != nil {
		data["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}

	var invite *domain.Invite
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "invite_links", data)
		if err != nil {
			return err
		}
		id, err := insertedID(body)
		if err != nil {
			return err
		}
		invite = &domain.Invite{
			ID:        id,
			Token:     token,
			MaxUses:   maxUses,
			ExpiresAt: expiresAt,
			Active:    true,
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/invites", Err: err}
	}
	return invite, nil
}

// IncrementInviteUse bumps the invite's use counter.
func (c *Client) IncrementInviteUse(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Store.IncrementInviteUse")
	defer span.End()

	// Read-modify-write; invite contention is not a realistic concern here.
	var current int
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("invite_links?id=eq.%d&limit=1", id))
		if err != nil {
			return err
		}
		if body == nil {
			return &domain.ErrNotFound{Resource: "invite", ID: fmt.Sprint(id)}
		}
		var rows []inviteRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode invite: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "invite", ID: fmt.Sprint(id)}
		}
		current = rows[0].CurrentUses
		return nil
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/invites", Err: err}
	}

	err = c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("invite_links?id=eq.%d", id), map[string]any{
			"current_uses": current + 1,
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/invites", Err: err}
	}
	return nil
}

// resetTokenRow maps the password_reset_tokens table.
type resetTokenRow struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt storeTime `json:"expires_at"`
	Used      bool      `json:"used"`
}

// StoreResetToken stores the hashed form of an issued reset token.
func (c *Client) StoreResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Store.StoreResetToken")
	defer span.End()

	err := c.execute(ctx, func() error {
		_, err := c.doPost(ctx, "password_reset_tokens", map[string]any{
			"user_id":    userID,
			"token_hash": tokenHash,
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
			"used":       false,
		})
		return err
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/reset_tokens", Err: err}
	}
	return nil
}

// GetResetToken returns nil without error when the hash is unknown.
func (c *Client) GetResetToken(ctx context.Context, tokenHash string) (*domain.ResetToken, error) {
	ctx, span := tracer.Start(ctx, "Store.GetResetToken")
	defer span.End()

	var token *domain.ResetToken
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "password_reset_tokens?token_hash=eq."+url.QueryEscape(tokenHash)+"&limit=1")
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return nil
		}
		var rows []resetTokenRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode reset token: %w", err)
		}
		if len(rows) > 0 {
			token = &domain.ResetToken{
				ID:        rows[0].ID,
				UserID:    rows[0].UserID,
				ExpiresAt: rows[0].ExpiresAt.Time,
				Used:      rows[0].Used,
			}
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/reset_tokens", Err: err}
	}
	return token, nil
}

// MarkResetTokenUsed consumes a reset token.
func (c *Client) MarkResetTokenUsed(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Store.MarkResetTokenUsed")
	defer span.End()

	err := c.execute(ctx, func() error {
		return c.doPatch(ctx, fmt.Sprintf("password_reset_tokens?id=eq.%d", id), map[string]any{
			"used": true,
		})
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/reset_tokens", Err: err}
	}
	return nil
}

// refreshTokenRow maps the refresh_tokens table.
type refreshTokenRow struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt storeTime `json:"expires_at"`
}

// StoreRefreshToken stores the hashed form of an issued refresh token.
func (c *Client) StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Store.StoreRefreshToken")
	defer span.End()

	err := c.execute(ctx, func() error {
		_, err := c.doPost(ctx, "refresh_tokens", map[string]any{
			"user_id":    userID,
			"token_hash": tokenHash,
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
		})
		return err
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/refresh_tokens", Err: err}
	}
	return nil
}

// GetRefreshToken returns nil without error when the hash is unknown.
func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Store.GetRefreshToken")
	defer span.End()

	var token *domain.RefreshToken
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "refresh_tokens?token_hash=eq."+url.QueryEscape(tokenHash)+"&limit=1")
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return nil
		}
		var rows []refreshTokenRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode refresh token: %w", err)
		}
		if len(rows) > 0 {
			token = &domain.RefreshToken{
				UserID:    rows[0].UserID,
				ExpiresAt: rows[0].ExpiresAt.Time,
			}
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "store/refresh_tokens", Err: err}
	}
	return token, nil
}

// RevokeRefreshToken deletes one refresh token by hash.
func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Store.RevokeRefreshToken")
	defer span.End()

	err := c.execute(ctx, func() error {
		return c.doDelete(ctx, "refresh_tokens?token_hash=eq."+url.QueryEscape(tokenHash))
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/refresh_tokens", Err: err}
	}
	return nil
}

// RevokeAllRefreshTokens deletes every refresh token of a user.
func (c *Client) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	ctx, span := tracer.Start(ctx, "Store.RevokeAllRefreshTokens")
	defer span.End()

	err := c.execute(ctx, func() error {
		return c.doDelete(ctx, fmt.Sprintf("refresh_tokens?user_id=eq.%d", userID))
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "store/refresh_tokens", Err: err}
	}
	return nil
}
