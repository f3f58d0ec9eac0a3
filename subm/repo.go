package subm

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

type Repo interface {
	// Store inserts or overwrites a submission.
	Store(ctx context.Context, subm Submission) error
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
	// List returns submissions in a contest, newest first.
	// An empty contestID returns everything.
	List(ctx context.Context, contestID string) ([]Submission, error)
}

// InMemRepo keeps submissions in process memory. Used in tests and as the
// storage backend when no postgres connection is configured.
type InMemRepo struct {
	subms *xsync.MapOf[uuid.UUID, Submission]
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{
		subms: xsync.NewMapOf[uuid.UUID, Submission](),
	}
}

func (m *InMemRepo) Store(ctx context.Context, subm Submission) error {
	m.subms.Store(subm.UUID, subm)
	return nil
}

func (m *InMemRepo) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	subm, ok := m.subms.Load(id)
	if !ok {
		return nil, ErrSubmNotFound()
	}
	return &subm, nil
}

func (m *InMemRepo) List(ctx context.Context, contestID string) ([]Submission, error) {
	subms := make([]Submission, 0)
	m.subms.Range(func(_ uuid.UUID, subm Submission) bool {
		if contestID == "" || subm.ContestID == contestID {
			subms = append(subms, subm)
		}
		return true
	})
	sort.Slice(subms, func(i, j int) bool {
		return subms[i].CreatedAt.After(subms[j].CreatedAt)
	})
	return subms, nil
}
