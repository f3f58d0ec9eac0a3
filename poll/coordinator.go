package poll

import (
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Coordinator tracks which submissions have reached a terminal grading
// status and which ones currently have a poll session in flight. One
// instance is created at the composition root and shared by every observer
// in the process.
//
// The completed set is append-only for the lifetime of the process: once a
// submission is known to be done, no session for it is ever started again.
// The active set enforces single-flight: at most one session per submission
// at any instant, no matter how many surfaces watch it.
type Coordinator struct {
	logger    *slog.Logger
	completed mapset.Set[uuid.UUID]
	active    *xsync.MapOf[uuid.UUID, struct{}]
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		logger:    slog.Default().With("module", "poll"),
		completed: mapset.NewSet[uuid.UUID](),
		active:    xsync.NewMapOf[uuid.UUID, struct{}](),
	}
}

// IsCompleted reports whether a terminal status has already been observed
// for the submission. UIs use this to skip polling entirely.
func (c *Coordinator) IsCompleted(id uuid.UUID) bool {
	return c.completed.Contains(id)
}

// MarkCompleted is idempotent and never undone.
func (c *Coordinator) MarkCompleted(id uuid.UUID) {
	c.completed.Add(id)
}

// TryAcquire claims the poll slot for a submission. Exactly one of any
// number of concurrent callers gets true; everyone else must not start a
// session. Completed submissions are locked out permanently.
func (c *Coordinator) TryAcquire(id uuid.UUID) bool {
	if c.completed.Contains(id) {
		return false
	}
	_, loaded := c.active.LoadOrStore(id, struct{}{})
	return !loaded
}

// Release frees the poll slot. Idempotent.
func (c *Coordinator) Release(id uuid.UUID) {
	c.active.Delete(id)
}
