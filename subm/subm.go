package subm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const maxCodeLengthKB = 64

// TestRes is the outcome of one test case run.
type TestRes struct {
	Passed    bool    `json:"passed"`
	CpuMillis int     `json:"cpu_millis"`
	MemoryKiB int     `json:"memory_kib"`
	Pts       int     `json:"pts"` // point weight of this case
	ErrMsg    *string `json:"err_msg,omitempty"`
}

// Submission is one graded attempt at a problem. The grading service is the
// only writer of Status and TestRes (via ApplyResult); everything else is
// set at creation and never changes.
type Submission struct {
	UUID       uuid.UUID
	AuthorUUID uuid.UUID
	ProblemID  string
	ContestID  string
	LangID     string
	Code       string

	Status    Status
	Score     int
	CaseCount int // test cases declared by the problem, >= 1
	TestRes   []TestRes

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates and constructs a pending submission. caseCount is the number
// of test cases the problem declares; a problem with zero test cases cannot
// be submitted against.
func New(author uuid.UUID, problemID, contestID, langID, code string, caseCount int) (*Submission, error) {
	if caseCount < 1 {
		return nil, ErrNoTestCases()
	}
	if code == "" {
		return nil, ErrEmptyCode()
	}
	if len(code) > maxCodeLengthKB*1024 {
		return nil, ErrCodeTooLong(maxCodeLengthKB)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate submission uuid: %w", err)
	}
	now := time.Now()
	return &Submission{
		UUID:       id,
		AuthorUUID: author,
		ProblemID:  problemID,
		ContestID:  contestID,
		LangID:     langID,
		Code:       code,
		Status:     StatusPending,
		CaseCount:  caseCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ScoreOf is the score a set of case results is worth: the sum of the point
// weights of the passed cases.
func ScoreOf(results []TestRes) int {
	score := 0
	for _, res := range results {
		if res.Passed {
			score += res.Pts
		}
	}
	return score
}

// ApplyResult records a grading update. The status is monotonic: it never
// moves backwards and a terminal status is never overwritten. Re-applying
// the current terminal status is a no-op.
func (s *Submission) ApplyResult(status Status, results []TestRes) error {
	if !status.Valid() {
		return ErrInvalidStatus(string(status))
	}
	if s.Status.IsTerminal() {
		if status == s.Status {
			return nil
		}
		return ErrStatusRegression(s.Status, status)
	}
	if status.rank() < s.Status.rank() {
		return ErrStatusRegression(s.Status, status)
	}
	if len(results) > s.CaseCount {
		return ErrInconsistentResult(fmt.Sprintf(
			"got %d case results for %d declared cases",
			len(results), s.CaseCount))
	}
	if status == StatusAccepted {
		if len(results) != s.CaseCount {
			return ErrInconsistentResult(fmt.Sprintf(
				"accepted verdict covers %d of %d cases",
				len(results), s.CaseCount))
		}
		for i, res := range results {
			if !res.Passed {
				return ErrInconsistentResult(fmt.Sprintf(
					"accepted verdict but case %d failed", i))
			}
		}
	}

	s.Status = status
	s.TestRes = results
	s.Score = ScoreOf(results)
	s.UpdatedAt = time.Now()
	return nil
}
