package ports

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	// Delete removes the poll and cascades to its candidates and votes in one
	// transaction. Returns domain.ErrPollNotFound for unknown ids.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Title           string
	Description     string
	StartsAt        time.Time
	EndsAt          time.Time
	CandidateFormat domain.CandidateFormat
}

func (in CreatePollInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.CandidateFormat, validation.Required,
			validation.In(domain.CandidateFormatSymbols, domain.CandidateFormatImages)),
	)
}

type PollService interface {
	Create(ctx context.Context, token string, input CreatePollInput) (*domain.Poll, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context) ([]*domain.Poll, error)
	// Status derives the poll's phase from the current clock; it never trusts
	// the cached IsActive flag.
	Status(ctx context.Context, id uuid.UUID) (domain.PollStatus, error)
	Retime(ctx context.Context, token string, id uuid.UUID, startsAt, endsAt time.Time) error
	// Cancel force-ends a poll by moving its end boundary to now.
	Cancel(ctx context.Context, token string, id uuid.UUID) error
	Delete(ctx context.Context, token string, id uuid.UUID) error
	// RefreshActiveFlags recomputes and persists the IsActive cache for every
	// poll. Each run is a complete, idempotent recomputation.
	RefreshActiveFlags(ctx context.Context) error
}
