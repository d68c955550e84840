package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

type VoteRepository interface {
	// CastVote writes the vote record and increments the target candidate's
	// tally in one atomic commit. Fails with domain.ErrAlreadyVoted when a
	// vote for (PollID, UserID) already exists.
	CastVote(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	// GetUserVote returns (nil, nil) when the user has not voted in the poll.
	GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	CountByPoll(ctx context.Context, pollID uuid.UUID) (int, error)
	// ResetPoll deletes every vote for the poll and zeroes its candidates'
	// tallies in one atomic commit.
	ResetPoll(ctx context.Context, pollID uuid.UUID) error
}

type BallotService interface {
	Cast(ctx context.Context, token string, pollID, candidateID uuid.UUID) error
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	// MyVote returns the candidate the token's user voted for, or
	// domain.ErrNotVoted.
	MyVote(ctx context.Context, token string, pollID uuid.UUID) (uuid.UUID, error)
	ResetPoll(ctx context.Context, token string, pollID uuid.UUID) error
	Tally(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int, error)
	TotalVotes(ctx context.Context, pollID uuid.UUID) (int, error)
}
