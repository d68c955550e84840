package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is naturally keyed by (PollID, UserID); the storage layout enforces
// the one-vote-per-user-per-poll rule on that pair.
type Vote struct {
	PollID      uuid.UUID `json:"poll_id"`
	UserID      uuid.UUID `json:"user_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}
