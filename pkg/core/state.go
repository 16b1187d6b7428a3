package core

import "time"

// SessionState is what a backend session is currently doing.
type SessionState int

// Session states.
const (
	SessionIdle SessionState = iota
	SessionLoading
	SessionSaving
	SessionQuerying
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionSaving:
		return "saving"
	case SessionQuerying:
		return "querying"
	default:
		return "unknown"
	}
}

// Store records the history of load, save and query runs against a target.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	CreateRun(kind RunKind, target string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, objects int, errMsg string) error
	GetLatestRun(target string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
}

// RunKind is the operation a run performed.
type RunKind string

// Run kinds.
const (
	RunKindLoad   RunKind = "load"
	RunKindSave   RunKind = "save"
	RunKindQuery  RunKind = "query"
	RunKindCreate RunKind = "create"
)

// RunStatus represents the status of a run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded session operation.
type Run struct {
	ID          string
	Kind        RunKind
	Target      string
	Status      RunStatus
	Objects     int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}
