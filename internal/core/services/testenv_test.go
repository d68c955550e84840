package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/democrasee/internal/adapters/repository/kv"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store/memory"
	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

// The fake clock starts at the real wall clock because issued JWTs carry real
// expiry claims; tests move time forward, never backward.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now().UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	clock     *fakeClock
	identity  *IdentityService
	polls     ports.PollService
	candidacy ports.CandidacyService
	ballots   ports.BallotService
	export    *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	userRepo := kv.NewUserRepository(st)
	sessionRepo := kv.NewSessionRepository(st)
	pollRepo := kv.NewPollRepository(st)
	candidateRepo := kv.NewCandidateRepository(st)
	voteRepo := kv.NewVoteRepository(st)

	clock := newFakeClock()

	// The TTL dwarfs any Advance a test performs so sessions never expire
	// under the fake clock.
	identity := NewIdentityService(userRepo, sessionRepo, IdentityConfig{
		JWTSigningKey: "test-signing-key",
		SessionTTL:    720 * time.Hour,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	})
	identity.now = clock.Now
	require.NoError(t, identity.Bootstrap(context.Background()))

	polls := NewPollService(identity, pollRepo, candidateRepo)
	polls.(*pollService).now = clock.Now

	candidacy := NewCandidacyService(identity, pollRepo, candidateRepo)
	candidacy.(*candidacyService).now = clock.Now

	ballots := NewBallotService(identity, pollRepo, candidateRepo, voteRepo)
	ballots.(*ballotService).now = clock.Now

	export := NewExportService(pollRepo, candidateRepo)
	export.now = clock.Now

	return &testEnv{
		clock:     clock,
		identity:  identity,
		polls:     polls,
		candidacy: candidacy,
		ballots:   ballots,
		export:    export,
	}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.identity.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T, username string) (string, domain.User) {
	t.Helper()
	user, err := e.identity.Register(context.Background(), username, "secret123", false)
	require.NoError(t, err)
	token, _, err := e.identity.Login(context.Background(), username, "secret123")
	require.NoError(t, err)
	return token, user
}

// createPoll makes a symbols poll whose window is offset from the fake
// clock's current instant.
func (e *testEnv) createPoll(t *testing.T, token string, startIn, duration time.Duration) *domain.Poll {
	t.Helper()
	now := e.clock.Now()
	poll, err := e.polls.Create(context.Background(), token, ports.CreatePollInput{
		Title:           "Test Poll",
		Description:     "A poll created by the test harness",
		StartsAt:        now.Add(startIn),
		EndsAt:          now.Add(startIn + duration),
		CandidateFormat: domain.CandidateFormatSymbols,
	})
	require.NoError(t, err)
	return poll
}

// registerCandidate enrolls a fresh user as a candidate in the poll.
func (e *testEnv) registerCandidate(t *testing.T, pollID uuid.UUID, username, symbol string) *domain.Candidate {
	t.Helper()
	token, _ := e.userToken(t, username)
	candidate, err := e.candidacy.Register(context.Background(), token, ports.RegisterCandidateInput{
		PollID: pollID,
		Name:   username,
		Symbol: symbol,
	})
	require.NoError(t, err)
	return candidate
}
