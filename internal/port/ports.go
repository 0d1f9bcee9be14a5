// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
)

// LeadStore defines lead persistence operations against the external store.
type LeadStore interface {
	ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error)
	GetLead(ctx context.Context, id domain.LeadID) (*domain.Lead, error)
	CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (domain.LeadID, error)
	UpdateLead(ctx context.Context, id domain.LeadID, req *domain.UpdateLeadRequest) error
	MoveLead(ctx context.Context, id domain.LeadID, stageID domain.StageID) error
}

// StageStore defines pipeline stage persistence operations.
type StageStore interface {
	ListStages(ctx context.Context) ([]domain.Stage, error)
	CreateStage(ctx context.Context, req *domain.CreateStageRequest) (domain.StageID, error)
	UpdateStage(ctx context.Context, id domain.StageID, req *domain.UpdateStageRequest) error
	// DeleteStage reassigns the stage's leads to the lowest-position stage,
	// then deletes the stage.
	DeleteStage(ctx context.Context, id domain.StageID) error
}

// ActivityStore defines task, comment and call persistence operations.
type ActivityStore interface {
	ListTasks(ctx context.Context, leadID domain.LeadID) ([]domain.Task, error)
	// ListDueTasks returns open tasks across all leads whose due date is on
	// or before the cutoff. Used by the notification sweep.
	ListDueTasks(ctx context.Context, dueBefore time.Time) ([]domain.Task, error)
	CreateTask(ctx context.Context, leadID domain.LeadID, req *domain.CreateTaskRequest) (domain.TaskID, error)
	SetTaskCompleted(ctx context.Context, id domain.TaskID, completed bool) error

	ListComments(ctx context.Context, leadID domain.LeadID) ([]domain.Comment, error)
	CreateComment(ctx context.Context, leadID domain.LeadID, req *domain.AddCommentRequest) (domain.CommentID, error)

	ListCalls(ctx context.Context, leadID domain.LeadID) ([]domain.Call, error)
	RecordCall(ctx context.Context, call *domain.Call) (domain.CallID, error)
}

// AuthStore defines user, invite and token persistence operations.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, email, name, passwordHash string) (int64, error)
	GetCredentials(ctx context.Context, userID int64) (*domain.Credentials, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID int64) error

	GetInvite(ctx context.Context, token string) (*domain.Invite, error)
	CreateInvite(ctx context.Context, token string, maxUses int, expiresAt *time.Time) (*domain.Invite, error)
	IncrementInviteUse(ctx context.Context, id int64) error

	StoreResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetResetToken(ctx context.Context, tokenHash string) (*domain.ResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id int64) error

	StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error
}

// AgentCaller invokes the external AI agent service.
type AgentCaller interface {
	Call(ctx context.Context, req *domain.AgentRequest) (*domain.AgentResponse, error)
}

// Dialer initiates outgoing calls through the telephony provider.
type Dialer interface {
	Dial(ctx context.Context, leadID domain.LeadID, phone string) (providerCallID string, err error)
}

// LeadNotifier delivers fire-and-forget alerts about new leads (Telegram).
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, req *domain.IntakeRequest) error
}

// EventPublisher publishes lead lifecycle events to the message bus.
type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event *domain.LeadEvent) error
}

// MailSender delivers transactional email (password reset).
type MailSender interface {
	SendPasswordReset(to, name, token string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
