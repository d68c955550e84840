package domain

import (
	"time"

	"github.com/google/uuid"
)

type CandidateFormat string

const (
	CandidateFormatSymbols CandidateFormat = "symbols"
	CandidateFormatImages  CandidateFormat = "images"
)

type Poll struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	// IsActive is a cached projection of Open(now), refreshed by the status
	// job. It is never authoritative; callers derive phase from the clock.
	IsActive        bool            `json:"is_active"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CandidateFormat CandidateFormat `json:"candidate_format"`
}

// HasStarted reports whether the poll's start boundary has passed. The start
// instant itself counts as started.
func (p Poll) HasStarted(now time.Time) bool {
	return !now.Before(p.StartsAt)
}

// HasEnded reports whether the poll's end boundary has passed. The end
// instant itself still counts as open.
func (p Poll) HasEnded(now time.Time) bool {
	return now.After(p.EndsAt)
}

// Open reports whether votes may be cast at the given instant. Every window
// check in the engine goes through this single predicate.
func (p Poll) Open(now time.Time) bool {
	return p.HasStarted(now) && !p.HasEnded(now)
}

type PollStatus struct {
	HasStarted     bool `json:"has_started"`
	HasEnded       bool `json:"has_ended"`
	CandidateCount int  `json:"candidate_count"`
}
