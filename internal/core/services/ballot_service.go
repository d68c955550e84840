package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type ballotService struct {
	identity      ports.IdentityVerifier
	pollRepo      ports.PollRepository
	candidateRepo ports.CandidateRepository
	voteRepo      ports.VoteRepository
	now           func() time.Time
}

func NewBallotService(identity ports.IdentityVerifier, pollRepo ports.PollRepository, candidateRepo ports.CandidateRepository, voteRepo ports.VoteRepository) ports.BallotService {
	return &ballotService{
		identity:      identity,
		pollRepo:      pollRepo,
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
		now:           time.Now,
	}
}

// Cast records one vote for the token's user. The write and the candidate
// tally increment commit together or not at all.
func (s *ballotService) Cast(ctx context.Context, token string, pollID, candidateID uuid.UUID) error {
	user, err := s.identity.WhoAmI(ctx, token)
	if err != nil {
		return err
	}

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.Open(s.now()) {
		return domain.ErrPollNotActive
	}

	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}
	if candidate.PollID != pollID {
		return domain.ErrCandidateNotFound
	}

	vote := &domain.Vote{
		PollID:      pollID,
		UserID:      user.ID,
		CandidateID: candidateID,
		CastAt:      s.now().UTC(),
	}
	return s.voteRepo.CastVote(ctx, vote)
}

func (s *ballotService) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	return s.voteRepo.HasVoted(ctx, pollID, userID)
}

func (s *ballotService) MyVote(ctx context.Context, token string, pollID uuid.UUID) (uuid.UUID, error) {
	user, err := s.identity.WhoAmI(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	vote, err := s.voteRepo.GetUserVote(ctx, pollID, user.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if vote == nil {
		return uuid.Nil, domain.ErrNotVoted
	}
	return vote.CandidateID, nil
}

// ResetPoll wipes the poll's ballots and zeroes its tallies. Admin only.
func (s *ballotService) ResetPoll(ctx context.Context, token string, pollID uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.identity, token); err != nil {
		return err
	}
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return err
	}
	return s.voteRepo.ResetPoll(ctx, pollID)
}

func (s *ballotService) Tally(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int, error) {
	candidates, err := s.candidateRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	tally := make(map[uuid.UUID]int, len(candidates))
	for _, candidate := range candidates {
		tally[candidate.ID] = candidate.Votes
	}
	return tally, nil
}

func (s *ballotService) TotalVotes(ctx context.Context, pollID uuid.UUID) (int, error) {
	candidates, err := s.candidateRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, candidate := range candidates {
		total += candidate.Votes
	}
	return total, nil
}
