package models

import "time"

// RunCommand names the administrative action a run performed.
type RunCommand string

const (
	RunInspect RunCommand = "inspect"
	RunClear   RunCommand = "clear"
)

// Run records one inspect or clear invocation.
type Run struct {
	ID         string     `json:"id"`
	Command    RunCommand `json:"command"`
	Pattern    string     `json:"pattern"`
	Keys       int        `json:"keys"`
	Deleted    int        `json:"deleted"`
	Remaining  int        `json:"remaining"`
	DryRun     bool       `json:"dry_run,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
