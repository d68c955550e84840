package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

func TestSnapshotPercentages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminToken := env.adminToken(t)

	poll := env.createPoll(t, adminToken, time.Hour, time.Hour)
	first := env.registerCandidate(t, poll.ID, "alice", "symbol-1")
	second := env.registerCandidate(t, poll.ID, "bob", "symbol-2")
	env.registerCandidate(t, poll.ID, "carol", "symbol-3")

	env.clock.Advance(90 * time.Minute)
	for _, voter := range []string{"v1", "v2", "v3"} {
		token, _ := env.userToken(t, "voter-"+voter)
		require.NoError(t, env.ballots.Cast(ctx, token, poll.ID, first.ID))
	}
	token, _ := env.userToken(t, "voter-v4")
	require.NoError(t, env.ballots.Cast(ctx, token, poll.ID, second.ID))

	snapshot, err := env.export.Snapshot(ctx, poll.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, snapshot.TotalVotes)
	require.Len(t, snapshot.Candidates, 3)

	byID := make(map[string]domain.CandidateResult)
	for _, r := range snapshot.Candidates {
		byID[r.Name] = r
	}
	assert.Equal(t, 3, byID["alice"].Votes)
	assert.Equal(t, 75, byID["alice"].Percentage)
	assert.Equal(t, 1, byID["bob"].Votes)
	assert.Equal(t, 25, byID["bob"].Percentage)
	assert.Equal(t, 0, byID["carol"].Votes)
	assert.Equal(t, 0, byID["carol"].Percentage)
}

func TestSnapshotWithNoVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminToken := env.adminToken(t)

	poll := env.createPoll(t, adminToken, time.Hour, time.Hour)
	env.registerCandidate(t, poll.ID, "alice", "symbol-1")

	snapshot, err := env.export.Snapshot(ctx, poll.ID)
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalVotes)
	require.Len(t, snapshot.Candidates, 1)
	assert.Zero(t, snapshot.Candidates[0].Percentage)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminToken := env.adminToken(t)

	poll := env.createPoll(t, adminToken, time.Hour, time.Hour)
	env.registerCandidate(t, poll.ID, "alice", "symbol-1")

	snapshot, err := env.export.Snapshot(ctx, poll.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.export.WriteJSON(&buf, snapshot))

	var decoded domain.ResultsSnapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, snapshot.Poll.ID, decoded.Poll.ID)
	assert.Equal(t, snapshot.TotalVotes, decoded.TotalVotes)
	assert.Contains(t, buf.String(), "\n  \"poll\"", "output is indented")
}

func TestWriteReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminToken := env.adminToken(t)

	poll := env.createPoll(t, adminToken, time.Hour, time.Hour)
	env.registerCandidate(t, poll.ID, "alice", "symbol-1")

	snapshot, err := env.export.Snapshot(ctx, poll.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.export.WriteReport(&buf, snapshot))

	out := buf.String()
	assert.Contains(t, out, snapshot.Poll.Title)
	assert.Contains(t, out, "Total votes: 0")
	assert.Contains(t, out, "alice")
}

func TestFileName(t *testing.T) {
	env := newTestEnv(t)
	exported := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	snapshot := &domain.ResultsSnapshot{
		Poll:       domain.Poll{Title: "City Council 2026!"},
		ExportedAt: exported,
	}
	assert.Equal(t, "democrasee_results_city_council_2026_2026-08-29.json", env.export.FileName(snapshot))

	snapshot.Poll.Title = "!!!"
	assert.Equal(t, "democrasee_results_poll_2026-08-29.json", env.export.FileName(snapshot))
}
