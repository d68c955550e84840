// Package kv implements the entity repositories over the abstract key-value
// Store. Records are JSON blobs under fixed namespaces; the namespace names
// are kept stable for compatibility with existing data sets.
package kv

import "github.com/google/uuid"

const (
	userPrefix      = "democrasee_users/"
	pollPrefix      = "democrasee_polls/"
	candidatePrefix = "democrasee_candidates/"
	votePrefix      = "democrasee_votes/"
	sessionPrefix   = "democrasee_sessions/"
)

func userKey(id uuid.UUID) string {
	return userPrefix + id.String()
}

func pollKey(id uuid.UUID) string {
	return pollPrefix + id.String()
}

func candidateKey(id uuid.UUID) string {
	return candidatePrefix + id.String()
}

func sessionKey(id uuid.UUID) string {
	return sessionPrefix + id.String()
}

// Votes are keyed by (poll, user) so the one-vote-per-user-per-poll rule is a
// plain key collision.
func voteKey(pollID, userID uuid.UUID) string {
	return votePrefix + pollID.String() + "/" + userID.String()
}

func pollVotesPrefix(pollID uuid.UUID) string {
	return votePrefix + pollID.String() + "/"
}
