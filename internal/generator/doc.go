// Package generator turns rendered files into artifacts on an afero filesystem.
//
// # Features
//
//   - Operations that validate before they execute (folders, files, patches)
//   - Non-destructive writes: existing files are collisions unless a
//     Resolver says otherwise (--force, --skip, --diff, --interactive)
//   - A per-file Report of what was written, skipped, patched or not reached
//   - Unified diffs of colliding files
//
// # Execution
//
// Execute validates every operation first. A collision or a bad precondition
// stops the run before anything is written:
//
//	report, err := generator.Execute(ctx, ops, generator.ExecuteOptions{})
//	if errors.Is(err, generator.ErrPathCollision) {
//	    // nothing was written
//	}
//
// If a write fails halfway, the files already written stay in place and the
// returned *MaterializeError carries the Report, so the caller can decide
// whether to clean up or retry.
package generator
