package subm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Language is a programming language users may submit in.
type Language struct {
	ID       string `toml:"id"`
	FullName string `toml:"full_name"`
}

// Enqueuer hands a freshly created submission to the grading service.
// Grading happens out of band; its results come back through ApplyResult.
type Enqueuer interface {
	Enqueue(ctx context.Context, subm *Submission) error
}

type SubmSrvc struct {
	logger *slog.Logger
	repo   Repo
	grader Enqueuer
	langs  map[string]Language
}

func NewSubmSrvc(repo Repo, grader Enqueuer, langs []Language) *SubmSrvc {
	langMap := make(map[string]Language, len(langs))
	for _, lang := range langs {
		langMap[lang.ID] = lang
	}
	return &SubmSrvc{
		logger: slog.Default().With("module", "subm"),
		repo:   repo,
		grader: grader,
		langs:  langMap,
	}
}

type CreateSubmParams struct {
	AuthorUUID uuid.UUID
	ProblemID  string
	ContestID  string
	LangID     string
	Code       string
	CaseCount  int // test case count of the problem
}

func (s *SubmSrvc) CreateSubm(ctx context.Context, p CreateSubmParams) (*Submission, error) {
	if _, ok := s.langs[p.LangID]; !ok {
		return nil, ErrInvalidLanguage(p.LangID)
	}
	subm, err := New(p.AuthorUUID, p.ProblemID, p.ContestID, p.LangID, p.Code, p.CaseCount)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Store(ctx, *subm); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	if err := s.grader.Enqueue(ctx, subm); err != nil {
		return nil, fmt.Errorf("enqueue submission for grading: %w", err)
	}
	s.logger.Info("submission created",
		"subm", subm.UUID, "problem", subm.ProblemID, "lang", subm.LangID)
	return subm, nil
}

func (s *SubmSrvc) GetSubm(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.Get(ctx, id)
}

func (s *SubmSrvc) ListSubms(ctx context.Context, contestID string) ([]Submission, error) {
	return s.repo.List(ctx, contestID)
}

// Fetch makes the service usable as a poll.Fetcher for in-process observers.
func (s *SubmSrvc) Fetch(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.Get(ctx, id)
}

func (s *SubmSrvc) Languages() []Language {
	langs := make([]Language, 0, len(s.langs))
	for _, lang := range s.langs {
		langs = append(langs, lang)
	}
	return langs
}
