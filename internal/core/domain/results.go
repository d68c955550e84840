package domain

import "time"

type CandidateResult struct {
	Candidate
	// Percentage is the candidate's rounded share of the total, 0 when no
	// votes were cast.
	Percentage int `json:"percentage"`
}

type ResultsSnapshot struct {
	Poll       Poll              `json:"poll"`
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int               `json:"total_votes"`
	ExportedAt time.Time         `json:"exported_at"`
}
