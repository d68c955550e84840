package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type pollService struct {
	identity      ports.IdentityVerifier
	pollRepo      ports.PollRepository
	candidateRepo ports.CandidateRepository
	now           func() time.Time
}

func NewPollService(identity ports.IdentityVerifier, pollRepo ports.PollRepository, candidateRepo ports.CandidateRepository) ports.PollService {
	return &pollService{
		identity:      identity,
		pollRepo:      pollRepo,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, token string, input ports.CreatePollInput) (*domain.Poll, error) {
	actor, err := requireAdmin(ctx, s.identity, token)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Ordering is validated here, not in callers, so it cannot be bypassed.
	now := s.now().UTC()
	if !input.EndsAt.After(input.StartsAt) || input.StartsAt.Before(now) {
		return nil, domain.ErrInvalidTimeWindow
	}

	poll := &domain.Poll{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		StartsAt:        input.StartsAt.UTC(),
		EndsAt:          input.EndsAt.UTC(),
		IsActive:        false,
		CreatedBy:       actor.ID,
		CandidateFormat: input.CandidateFormat,
	}
	if err := s.pollRepo.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.pollRepo.GetByID(ctx, id)
}

func (s *pollService) List(ctx context.Context) ([]*domain.Poll, error) {
	return s.pollRepo.GetAll(ctx)
}

// Status is derived fresh from the clock on every call; the stored IsActive
// flag plays no part in it.
func (s *pollService) Status(ctx context.Context, id uuid.UUID) (domain.PollStatus, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return domain.PollStatus{}, err
	}

	count, err := s.candidateRepo.CountByPoll(ctx, id)
	if err != nil {
		return domain.PollStatus{}, err
	}

	now := s.now()
	return domain.PollStatus{
		HasStarted:     poll.HasStarted(now),
		HasEnded:       poll.HasEnded(now),
		CandidateCount: count,
	}, nil
}

func (s *pollService) Retime(ctx context.Context, token string, id uuid.UUID, startsAt, endsAt time.Time) error {
	if _, err := requireAdmin(ctx, s.identity, token); err != nil {
		return err
	}

	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if poll.HasEnded(s.now()) {
		return domain.ErrPollEnded
	}
	if !endsAt.After(startsAt) {
		return domain.ErrInvalidTimeWindow
	}

	poll.StartsAt = startsAt.UTC()
	poll.EndsAt = endsAt.UTC()
	return s.pollRepo.Save(ctx, poll)
}

// Cancel force-ends a running or upcoming poll by moving its end boundary to
// the current instant.
func (s *pollService) Cancel(ctx context.Context, token string, id uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.identity, token); err != nil {
		return err
	}

	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	if poll.HasEnded(now) {
		return domain.ErrPollEnded
	}

	poll.EndsAt = now
	poll.IsActive = false
	return s.pollRepo.Save(ctx, poll)
}

func (s *pollService) Delete(ctx context.Context, token string, id uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.identity, token); err != nil {
		return err
	}
	return s.pollRepo.Delete(ctx, id)
}

func (s *pollService) RefreshActiveFlags(ctx context.Context) error {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	for _, poll := range polls {
		active := poll.Open(now)
		if active == poll.IsActive {
			continue
		}
		poll.IsActive = active
		if err := s.pollRepo.Save(ctx, poll); err != nil {
			return err
		}
	}
	return nil
}
