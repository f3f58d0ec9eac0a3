package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arenaoj/backend/srvcerror"
	"github.com/arenaoj/backend/subm"
)

// Grader is the adapter in front of the external grading service. The
// service itself is a black box: jobs go out on one queue, result messages
// eventually come back on another, carrying a terminal status. Nothing here
// computes verdicts.
type Grader struct {
	logger  *slog.Logger
	repo    subm.Repo
	jobs    Queue
	results Queue
}

func NewGrader(repo subm.Repo, jobs Queue, results Queue) *Grader {
	return &Grader{
		logger:  slog.Default().With("module", "grader"),
		repo:    repo,
		jobs:    jobs,
		results: results,
	}
}

// Job is the wire format of one grading request.
type Job struct {
	SubmUuid  string `json:"subm_uuid"`
	ProblemID string `json:"problem_id"`
	LangID    string `json:"lang_id"`
	Code      string `json:"code"`
	CaseCount int    `json:"case_count"`
}

// Result is the wire format of one grading outcome.
type Result struct {
	SubmUuid string         `json:"subm_uuid"`
	Status   string         `json:"status"`
	TestRes  []subm.TestRes `json:"test_res"`
}

func (g *Grader) Enqueue(ctx context.Context, s *subm.Submission) error {
	body, err := json.Marshal(Job{
		SubmUuid:  s.UUID.String(),
		ProblemID: s.ProblemID,
		LangID:    s.LangID,
		Code:      s.Code,
		CaseCount: s.CaseCount,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal grading job: %w", err)
	}
	if err := g.jobs.Send(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to enqueue grading job: %w", err)
	}
	return nil
}

// ProcessResults drains the result queue until the context is canceled.
// Receive errors are logged and retried; they are expected to be transient.
func (g *Grader) ProcessResults(ctx context.Context) {
	for ctx.Err() == nil {
		msgs, err := g.results.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			g.logger.Error("failed to receive grading results", "error", err)
			continue
		}
		for _, msg := range msgs {
			if err := g.Apply(ctx, msg.Body); err != nil {
				g.logger.Error("failed to apply grading result", "error", err)
				// fall through to ack: redelivery would fail the same way
			}
			if msg.Handle == "" {
				continue
			}
			if err := g.results.Ack(ctx, msg.Handle); err != nil {
				g.logger.Error("failed to ack grading result", "error", err)
			}
		}
	}
}

// Apply records one grading result on the stored submission. The monotonic
// status guard lives in subm.ApplyResult; a regression attempt (e.g. a
// duplicate delivery with a stale status) is dropped with a warning rather
// than surfaced.
func (g *Grader) Apply(ctx context.Context, body string) error {
	var res Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return fmt.Errorf("failed to unmarshal grading result: %w", err)
	}
	id, err := uuid.Parse(res.SubmUuid)
	if err != nil {
		return fmt.Errorf("grading result has invalid submission uuid: %w", err)
	}

	s, err := g.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", id, err)
	}
	if err := s.ApplyResult(subm.Status(res.Status), res.TestRes); err != nil {
		srvcErr := &srvcerror.Error{}
		if errors.As(err, &srvcErr) && srvcErr.ErrorCode() == subm.ErrCodeStatusRegression {
			g.logger.Warn("dropping stale grading result",
				"subm", id, "status", res.Status, "current", s.Status)
			return nil
		}
		return err
	}
	if err := g.repo.Store(ctx, *s); err != nil {
		return fmt.Errorf("failed to store graded submission: %w", err)
	}
	g.logger.Info("grading result applied",
		"subm", id, "status", s.Status, "score", s.Score)
	return nil
}
