package http

import (
	"time"

	"github.com/arenaoj/backend/subm"
)

type TestRes struct {
	Passed    bool    `json:"passed"`
	CpuMillis int     `json:"cpu_millis"`
	MemoryKiB int     `json:"memory_kib"`
	Pts       int     `json:"pts"`
	ErrMsg    *string `json:"err_msg,omitempty"`
}

type Submission struct {
	SubmUuid   string    `json:"subm_uuid"`
	AuthorUuid string    `json:"author_uuid"`
	ProblemID  string    `json:"problem_id"`
	ContestID  string    `json:"contest_id"`
	LangID     string    `json:"lang_id"`
	Status     string    `json:"status"`
	Score      int       `json:"score"`
	CaseCount  int       `json:"case_count"`
	TestRes    []TestRes `json:"test_res,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func mapSubm(s *subm.Submission) Submission {
	res := Submission{
		SubmUuid:   s.UUID.String(),
		AuthorUuid: s.AuthorUUID.String(),
		ProblemID:  s.ProblemID,
		ContestID:  s.ContestID,
		LangID:     s.LangID,
		Status:     string(s.Status),
		Score:      s.Score,
		CaseCount:  s.CaseCount,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	for _, tr := range s.TestRes {
		res.TestRes = append(res.TestRes, TestRes(tr))
	}
	return res
}

type LeaderboardEntry struct {
	AuthorUuid   string    `json:"author_uuid"`
	Score        int       `json:"score"`
	Solved       int       `json:"solved"`
	SubmCount    int       `json:"subm_count"`
	LastScoredAt time.Time `json:"last_scored_at"`
}
