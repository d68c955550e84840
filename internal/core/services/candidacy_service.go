package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type candidacyService struct {
	identity      ports.IdentityVerifier
	pollRepo      ports.PollRepository
	candidateRepo ports.CandidateRepository
	now           func() time.Time
}

func NewCandidacyService(identity ports.IdentityVerifier, pollRepo ports.PollRepository, candidateRepo ports.CandidateRepository) ports.CandidacyService {
	return &candidacyService{
		identity:      identity,
		pollRepo:      pollRepo,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

// Register enters the token's user as a candidate. The registration window is
// [poll creation, poll start) and is enforced here for every caller.
func (s *candidacyService) Register(ctx context.Context, token string, input ports.RegisterCandidateInput) (*domain.Candidate, error) {
	user, err := s.identity.WhoAmI(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	if poll.HasStarted(s.now()) {
		return nil, domain.ErrRegistrationClosed
	}
	if err := validateVisual(poll.CandidateFormat, input); err != nil {
		return nil, err
	}

	registered, err := s.candidateRepo.HasRegistered(ctx, input.PollID, user.ID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, domain.ErrAlreadyRegistered
	}

	candidate := &domain.Candidate{
		ID:           uuid.New(),
		PollID:       input.PollID,
		Name:         input.Name,
		Symbol:       input.Symbol,
		ImageURL:     input.ImageURL,
		Votes:        0,
		RegisteredBy: user.ID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.candidateRepo.Save(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *candidacyService) Remove(ctx context.Context, token string, candidateID uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.identity, token); err != nil {
		return err
	}
	return s.candidateRepo.Delete(ctx, candidateID)
}

func (s *candidacyService) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Candidate, error) {
	return s.candidateRepo.ListByPoll(ctx, pollID)
}

func (s *candidacyService) HasRegistered(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	return s.candidateRepo.HasRegistered(ctx, pollID, userID)
}

func validateVisual(format domain.CandidateFormat, input ports.RegisterCandidateInput) error {
	switch format {
	case domain.CandidateFormatSymbols:
		if !domain.ValidSymbol(input.Symbol) {
			return domain.ErrInvalidSymbol
		}
	case domain.CandidateFormatImages:
		if input.ImageURL == "" {
			return domain.ErrInvalidSymbol
		}
	}
	return nil
}
