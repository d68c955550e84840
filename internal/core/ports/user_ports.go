package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

type UserRepository interface {
	// Create persists the user, failing with domain.ErrUsernameTaken when the
	// exact username is already present.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	// ResetAll atomically replaces the whole user set with the single given
	// record and drops every session.
	ResetAll(ctx context.Context, keep *domain.User) error
}

type SessionRepository interface {
	Store(ctx context.Context, session *domain.Session) error
	// GetByTokenHash returns (nil, nil) when no session matches the hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// IdentityVerifier resolves a bearer token to the user it was issued to. The
// lifecycle services use it as their authentication gate.
type IdentityVerifier interface {
	WhoAmI(ctx context.Context, token string) (domain.User, error)
}
