package rank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arenaoj/backend/subm"
)

// Lister feeds the aggregator; the submission repo satisfies it.
type Lister interface {
	List(ctx context.Context, contestID string) ([]subm.Submission, error)
}

type RankSrvc struct {
	logger *slog.Logger
	subms  Lister
}

func NewRankSrvc(subms Lister) *RankSrvc {
	return &RankSrvc{
		logger: slog.Default().With("module", "rank"),
		subms:  subms,
	}
}

func (s *RankSrvc) Leaderboard(ctx context.Context, contestID string) ([]Entry, error) {
	subms, err := s.subms.List(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list contest submissions: %w", err)
	}
	entries := Aggregate(subms)
	s.logger.Debug("computed leaderboard",
		"contest", contestID, "entries", len(entries), "subms", len(subms))
	return entries, nil
}
