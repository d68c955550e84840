package kv

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/democrasee/internal/adapters/store/memory"
	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

func newUser(username string, createdAt time.Time) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    createdAt,
	}
}

func TestUserRepositoryRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.New())
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newUser("alice", now)))
	err := repo.Create(ctx, newUser("alice", now))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserRepositoryGetAllIsOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.New())
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newUser("carol", now.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newUser("bob", now)))
	require.NoError(t, repo.Create(ctx, newUser("alice", now)))

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)
}

func TestUserRepositoryResetAllDropsSessions(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	users := NewUserRepository(st)
	sessions := NewSessionRepository(st)
	now := time.Now().UTC()

	alice := newUser("alice", now)
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, sessions.Store(ctx, &domain.Session{
		ID:        uuid.New(),
		UserID:    alice.ID,
		TokenHash: "deadbeef",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}))

	admin := newUser("admin", now)
	admin.IsAdmin = true
	require.NoError(t, users.ResetAll(ctx, admin))

	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "admin", all[0].Username)

	session, err := sessions.GetByTokenHash(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepositoryRevoke(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(memory.New())
	now := time.Now().UTC()

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: "cafe",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.Store(ctx, session))

	require.NoError(t, repo.Revoke(ctx, session.ID))
	got, err := repo.GetByTokenHash(ctx, "cafe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Revoked)

	// Revoking an unknown session is a no-op.
	assert.NoError(t, repo.Revoke(ctx, uuid.New()))
}

func seedPollWithCandidate(t *testing.T, polls *PollRepository, candidates *CandidateRepository) (*domain.Poll, *domain.Candidate) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	poll := &domain.Poll{
		ID:              uuid.New(),
		Title:           "Poll",
		StartsAt:        now,
		EndsAt:          now.Add(time.Hour),
		CandidateFormat: domain.CandidateFormatSymbols,
	}
	require.NoError(t, polls.Save(ctx, poll))

	candidate := &domain.Candidate{
		ID:           uuid.New(),
		PollID:       poll.ID,
		Name:         "Alice",
		Symbol:       "symbol-1",
		RegisteredBy: uuid.New(),
		CreatedAt:    now,
	}
	require.NoError(t, candidates.Save(ctx, candidate))
	return poll, candidate
}

func TestCastVoteIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	polls := NewPollRepository(st)
	candidates := NewCandidateRepository(st)
	votes := NewVoteRepository(st)

	poll, candidate := seedPollWithCandidate(t, polls, candidates)
	userID := uuid.New()

	vote := &domain.Vote{
		PollID:      poll.ID,
		UserID:      userID,
		CandidateID: candidate.ID,
		CastAt:      time.Now().UTC(),
	}
	require.NoError(t, votes.CastVote(ctx, vote))

	got, err := candidates.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)

	// The duplicate fails and must not bump the tally again.
	err = votes.CastVote(ctx, vote)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	got, err = candidates.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
}

func TestCastVoteUnknownCandidateLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	polls := NewPollRepository(st)
	candidates := NewCandidateRepository(st)
	votes := NewVoteRepository(st)

	poll, _ := seedPollWithCandidate(t, polls, candidates)
	userID := uuid.New()

	err := votes.CastVote(ctx, &domain.Vote{
		PollID:      poll.ID,
		UserID:      userID,
		CandidateID: uuid.New(),
		CastAt:      time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)

	// The failed cast rolled back the vote record too.
	voted, err := votes.HasVoted(ctx, poll.ID, userID)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestResetPollClearsVotesAndTallies(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	polls := NewPollRepository(st)
	candidates := NewCandidateRepository(st)
	votes := NewVoteRepository(st)

	poll, candidate := seedPollWithCandidate(t, polls, candidates)
	userID := uuid.New()

	require.NoError(t, votes.CastVote(ctx, &domain.Vote{
		PollID:      poll.ID,
		UserID:      userID,
		CandidateID: candidate.ID,
		CastAt:      time.Now().UTC(),
	}))

	require.NoError(t, votes.ResetPoll(ctx, poll.ID))

	count, err := votes.CountByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := candidates.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Votes)
}

func TestPollDeleteCascades(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	polls := NewPollRepository(st)
	candidates := NewCandidateRepository(st)
	votes := NewVoteRepository(st)

	poll, candidate := seedPollWithCandidate(t, polls, candidates)
	userID := uuid.New()

	require.NoError(t, votes.CastVote(ctx, &domain.Vote{
		PollID:      poll.ID,
		UserID:      userID,
		CandidateID: candidate.ID,
		CastAt:      time.Now().UTC(),
	}))

	require.NoError(t, polls.Delete(ctx, poll.ID))

	_, err := polls.GetByID(ctx, poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
	_, err = candidates.GetByID(ctx, candidate.ID)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	voted, err := votes.HasVoted(ctx, poll.ID, userID)
	require.NoError(t, err)
	assert.False(t, voted)

	err = polls.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestGetUserVote(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	polls := NewPollRepository(st)
	candidates := NewCandidateRepository(st)
	votes := NewVoteRepository(st)

	poll, candidate := seedPollWithCandidate(t, polls, candidates)
	userID := uuid.New()

	got, err := votes.GetUserVote(ctx, poll.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, votes.CastVote(ctx, &domain.Vote{
		PollID:      poll.ID,
		UserID:      userID,
		CandidateID: candidate.ID,
		CastAt:      time.Now().UTC(),
	}))

	got, err = votes.GetUserVote(ctx, poll.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, candidate.ID, got.CandidateID)
}
