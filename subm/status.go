package subm

// Status is the grading state of a submission. It is written by the grading
// service; the backend only observes it. Once a terminal status is reached
// it never changes again.
type Status string

const (
	StatusPending             Status = "pending"
	StatusRunning             Status = "running"
	StatusAccepted            Status = "accepted"
	StatusWrongAnswer         Status = "wrong_answer"
	StatusTimeLimitExceeded   Status = "time_limit_exceeded"
	StatusMemoryLimitExceeded Status = "memory_limit_exceeded"
	StatusRuntimeError        Status = "runtime_error"
	StatusCompilationError    Status = "compilation_error"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning,
		StatusAccepted, StatusWrongAnswer,
		StatusTimeLimitExceeded, StatusMemoryLimitExceeded,
		StatusRuntimeError, StatusCompilationError:
		return true
	}
	return false
}

// IsTerminal reports whether no further grading updates are expected.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusWrongAnswer,
		StatusTimeLimitExceeded, StatusMemoryLimitExceeded,
		StatusRuntimeError, StatusCompilationError:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}

// rank orders statuses along the lifecycle so that regressions are
// detectable: pending < running < any terminal.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusRunning:
		return 1
	}
	return 2
}
