package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun   bool
	Resolver *Resolver // conflicts are rejected if nil
	Writer   io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute validates every operation, then applies them in order.
//
// Collisions from all operations are gathered into one *CollisionError so the
// caller sees every existing file at once. Nothing is written unless the whole
// run validates. A failure while applying stops the run and returns a
// *MaterializeError; earlier changes stay on disk.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) (*Report, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Resolver == nil {
		opts.Resolver = RejectResolver()
	}

	report := &Report{Entries: make([]Entry, len(ops))}
	seen := make(map[string]bool, len(ops))
	for i, op := range ops {
		report.Entries[i] = Entry{Path: op.Target(), Description: op.Description(), Status: StatusNotAttempted}
		if seen[op.Target()] {
			return report, fmt.Errorf("validation failed: %s is targeted twice", op.Target())
		}
		seen[op.Target()] = true
	}

	// Phase 1: Validate all operations
	var collisions []string
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		err := op.Validate(ctx, opts.Resolver)
		var ce *CollisionError
		switch {
		case err == nil:
		case errors.As(err, &ce):
			collisions = append(collisions, ce.Paths...)
		default:
			return report, fmt.Errorf("validation failed: %w", err)
		}
	}
	if len(collisions) > 0 {
		return report, &CollisionError{Paths: collisions}
	}

	// Phase 2: Execute or report
	for i, op := range ops {
		if opts.DryRun {
			report.Entries[i].Status = StatusPlanned
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			continue
		}

		if err := ctx.Err(); err != nil {
			return report, &MaterializeError{Path: op.Target(), Err: err, Report: report}
		}

		status, err := op.Execute(ctx)
		report.Entries[i].Status = status
		if err != nil {
			report.Entries[i].Status = StatusFailed
			report.Entries[i].Err = err
			return report, &MaterializeError{Path: op.Target(), Err: err, Report: report}
		}

		switch status {
		case StatusSkipped:
			fmt.Fprintf(opts.Writer, "• Skip %s (already exists)\n", op.Target())
		case StatusUnchanged:
			fmt.Fprintf(opts.Writer, "• %s is up to date\n", op.Target())
		case StatusExisting:
		default:
			fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
		}
	}

	return report, nil
}
