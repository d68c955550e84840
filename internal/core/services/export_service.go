package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

// ExportService materializes poll results into portable snapshots.
type ExportService struct {
	pollRepo      ports.PollRepository
	candidateRepo ports.CandidateRepository
	now           func() time.Time
}

func NewExportService(pollRepo ports.PollRepository, candidateRepo ports.CandidateRepository) *ExportService {
	return &ExportService{
		pollRepo:      pollRepo,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

// Snapshot captures the poll, its candidates with vote shares, and the total
// at the moment of the call.
func (s *ExportService) Snapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidateRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, candidate := range candidates {
		total += candidate.Votes
	}

	results := make([]domain.CandidateResult, 0, len(candidates))
	for _, candidate := range candidates {
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(candidate.Votes) / float64(total) * 100))
		}
		results = append(results, domain.CandidateResult{
			Candidate:  *candidate,
			Percentage: percentage,
		})
	}

	return &domain.ResultsSnapshot{
		Poll:       *poll,
		Candidates: results,
		TotalVotes: total,
		ExportedAt: s.now().UTC(),
	}, nil
}

// WriteJSON renders the snapshot as indented JSON, the interchange format for
// downstream tooling.
func (s *ExportService) WriteJSON(w io.Writer, snapshot *domain.ResultsSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteReport renders a human-readable tabular summary of the snapshot.
func (s *ExportService) WriteReport(w io.Writer, snapshot *domain.ResultsSnapshot) error {
	fmt.Fprintf(w, "Results for %q\n", snapshot.Poll.Title)
	fmt.Fprintf(w, "Window: %s to %s\n", snapshot.Poll.StartsAt.Format(time.RFC3339), snapshot.Poll.EndsAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Total votes: %d\n\n", snapshot.TotalVotes)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tVISUAL\tVOTES\tSHARE")
	for _, result := range snapshot.Candidates {
		visual := result.Symbol
		if visual == "" {
			visual = result.ImageURL
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d%%\n", result.Name, visual, result.Votes, result.Percentage)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	fmt.Fprintf(w, "\nExported at %s\n", snapshot.ExportedAt.Format(time.RFC3339))
	return nil
}

// FileName builds the conventional export file name for a snapshot, such as
// democrasee_results_city_council_2026-08-29.json.
func (s *ExportService) FileName(snapshot *domain.ResultsSnapshot) string {
	return fmt.Sprintf("democrasee_results_%s_%s.json",
		sanitizeTitle(snapshot.Poll.Title),
		snapshot.ExportedAt.Format("2006-01-02"))
}

func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "poll"
	}
	return b.String()
}
