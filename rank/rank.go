package rank

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arenaoj/backend/subm"
)

// Entry is one scoreboard row. Entries have no persistent identity; the
// whole board is recomputed from the submission stream on demand.
type Entry struct {
	AuthorUUID   uuid.UUID
	Score        int
	Solved       int // distinct problems credited
	SubmCount    int
	LastScoredAt time.Time
}

// Aggregate folds submissions into a ranked scoreboard.
//
// Every submission bumps its author's tally. Only the first accepted
// submission per (author, problem) pair is credited: its score adds to the
// author's total and its creation time becomes a candidate for the author's
// last-scored time. Later accepted resubmissions of an already solved
// problem count in the tally only. "First" means earliest CreatedAt, so the
// result does not depend on input order.
//
// Ranking: score descending, ties broken by ascending last-scored time
// (earlier solvers rank higher). Behavior under identical timestamps is
// undefined; author uuid is compared last only to keep the output stable.
func Aggregate(subms []subm.Submission) []Entry {
	type credit struct {
		score    int
		scoredAt time.Time
	}
	type fold struct {
		submCount int
		credited  map[string]credit // keyed by problem id
	}

	folds := make(map[uuid.UUID]*fold)
	for _, s := range subms {
		f, ok := folds[s.AuthorUUID]
		if !ok {
			f = &fold{credited: make(map[string]credit)}
			folds[s.AuthorUUID] = f
		}
		f.submCount++
		if s.Status != subm.StatusAccepted {
			continue
		}
		prev, ok := f.credited[s.ProblemID]
		if !ok || s.CreatedAt.Before(prev.scoredAt) {
			f.credited[s.ProblemID] = credit{score: s.Score, scoredAt: s.CreatedAt}
		}
	}

	entries := make([]Entry, 0, len(folds))
	for author, f := range folds {
		entry := Entry{
			AuthorUUID: author,
			SubmCount:  f.submCount,
			Solved:     len(f.credited),
		}
		for _, c := range f.credited {
			entry.Score += c.score
			if c.scoredAt.After(entry.LastScoredAt) {
				entry.LastScoredAt = c.scoredAt
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].LastScoredAt.Equal(entries[j].LastScoredAt) {
			return entries[i].LastScoredAt.Before(entries[j].LastScoredAt)
		}
		return entries[i].AuthorUUID.String() < entries[j].AuthorUUID.String()
	})
	return entries
}
