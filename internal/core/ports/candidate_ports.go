package ports

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

type CandidateRepository interface {
	Save(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Candidate, error)
	CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error)
	HasRegistered(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RegisterCandidateInput struct {
	PollID   uuid.UUID
	Name     string
	Symbol   string
	ImageURL string
}

func (in RegisterCandidateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.ImageURL, validation.Length(0, 2000)),
	)
}

type CandidacyService interface {
	Register(ctx context.Context, token string, input RegisterCandidateInput) (*domain.Candidate, error)
	Remove(ctx context.Context, token string, candidateID uuid.UUID) error
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Candidate, error)
	HasRegistered(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
}
