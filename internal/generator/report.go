package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPathCollision means a target already exists and the run was not
	// allowed to replace it.
	ErrPathCollision = errors.New("path collision")

	// ErrIO wraps failures of the underlying filesystem.
	ErrIO = errors.New("i/o failure")
)

// CollisionError lists every target that already existed.
type CollisionError struct {
	Paths []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: already exists: %s", ErrPathCollision, strings.Join(e.Paths, ", "))
}

func (e *CollisionError) Unwrap() error {
	return ErrPathCollision
}

// Status is the outcome of one operation.
type Status int

const (
	StatusPlanned Status = iota // dry run
	StatusCreated
	StatusExisting // folder was already there
	StatusOverwritten
	StatusSkipped
	StatusPatched
	StatusUnchanged
	StatusFailed
	StatusNotAttempted
)

var statusNames = map[Status]string{
	StatusPlanned:      "planned",
	StatusCreated:      "created",
	StatusExisting:     "exists",
	StatusOverwritten:  "overwritten",
	StatusSkipped:      "skipped",
	StatusPatched:      "patched",
	StatusUnchanged:    "unchanged",
	StatusFailed:       "failed",
	StatusNotAttempted: "not attempted",
}

func (s Status) String() string {
	return statusNames[s]
}

// Succeeded reports whether the operation left its target in the wanted state.
func (s Status) Succeeded() bool {
	switch s {
	case StatusCreated, StatusExisting, StatusOverwritten, StatusSkipped, StatusPatched, StatusUnchanged:
		return true
	}
	return false
}

// Entry is the Report line of one operation.
type Entry struct {
	Path        string
	Description string
	Status      Status
	Err         error
}

// Report records what happened to every operation of a run, in order.
type Report struct {
	Entries []Entry
}

// Succeeded returns the paths whose operation succeeded.
func (r *Report) Succeeded() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Status.Succeeded() {
			out = append(out, e.Path)
		}
	}
	return out
}

// Incomplete returns the entries that failed or were never reached.
func (r *Report) Incomplete() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == StatusFailed || e.Status == StatusNotAttempted {
			out = append(out, e)
		}
	}
	return out
}

// Status returns the recorded status of path.
func (r *Report) Status(path string) (Status, bool) {
	for _, e := range r.Entries {
		if e.Path == path {
			return e.Status, true
		}
	}
	return 0, false
}

// MaterializeError is returned when an operation fails after others have
// already been applied. Nothing is rolled back.
type MaterializeError struct {
	Path   string
	Err    error
	Report *Report
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("%s (%d of %d operations completed)",
		e.Err, len(e.Report.Succeeded()), len(e.Report.Entries))
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}
