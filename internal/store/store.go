// Package store defines the persistence interfaces consumed by the REST and
// GraphQL layers. Implementations live in store/arango (production) and
// store/memory (tests, local runs without a database).
package store

import (
	"context"
	"errors"

	"github.com/thegr8lewis/health-backend/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a unique email constraint is hit.
	ErrDuplicateEmail = errors.New("email already in use")
)

// Users persists user accounts.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByKey(ctx context.Context, key string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

// Clients persists client records.
type Clients interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	GetByKey(ctx context.Context, key string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
	CountByProgram(ctx context.Context) (map[string]int, error)
}

// Programs persists program records.
type Programs interface {
	Create(ctx context.Context, p *model.Program) (*model.Program, error)
	GetByKey(ctx context.Context, key string) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
	Update(ctx context.Context, p *model.Program) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context, status string) (int, error)
}

// ResetTokens persists password reset records. The queries are deliberately
// explicit about the "latest unused" selection and the supersede transition.
type ResetTokens interface {
	Create(ctx context.Context, t *model.PasswordResetToken) error
	// LatestUnusedByCode returns the most recently created unused record for
	// the (email, code) pair, or ErrNotFound.
	LatestUnusedByCode(ctx context.Context, email, code string) (*model.PasswordResetToken, error)
	// GetUnusedByToken returns the unused record carrying the opaque token
	// id, or ErrNotFound.
	GetUnusedByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	// MarkAllUsedForUser marks every unused record for the user as used.
	// Called when a new code is issued so only one code is ever current.
	MarkAllUsedForUser(ctx context.Context, userKey string) error
	MarkUsed(ctx context.Context, key string) error
}

// Audit persists the append-only audit trails.
type Audit interface {
	AppendAdminCreation(ctx context.Context, l *model.AdminCreationLog) error
	// ListAdminCreations returns all records, newest first.
	ListAdminCreations(ctx context.Context) ([]model.AdminCreationLog, error)
	AppendClientAccess(ctx context.Context, l *model.ClientAccessLog) error
	// ListClientAccess returns the most recent records, newest first.
	ListClientAccess(ctx context.Context, limit int) ([]model.ClientAccessLog, error)
	CountClientAccess(ctx context.Context) (int, error)
}

// Store aggregates all persistence interfaces handed to the API layers.
type Store struct {
	Users       Users
	Clients     Clients
	Programs    Programs
	ResetTokens ResetTokens
	Audit       Audit
}
