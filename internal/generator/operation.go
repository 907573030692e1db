package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Operation is one filesystem change that can be checked before it is made.
//
// Validate must not touch the filesystem beyond reading it. Conflicts are
// handed to the resolver; a refused conflict is a *CollisionError.
//
// Execute applies the change and reports how it went. It is only called after
// every operation of the run validated.
type Operation interface {
	Validate(ctx context.Context, r *Resolver) error
	Execute(ctx context.Context) (Status, error)
	Target() string
	Description() string
}

// CreateFolderOp ensures a directory exists. An existing directory is fine;
// an existing file at the same path is a collision.
type CreateFolderOp struct {
	Fs   afero.Fs
	Path string

	existed bool
}

func (op *CreateFolderOp) Validate(ctx context.Context, _ *Resolver) error {
	info, err := op.Fs.Stat(op.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return checkAncestors(op.Fs, op.Path)
	case err != nil:
		return fmt.Errorf("%w: stat %s: %w", ErrIO, op.Path, err)
	case !info.IsDir():
		return &CollisionError{Paths: []string{op.Path}}
	}
	op.existed = true
	return nil
}

func (op *CreateFolderOp) Execute(ctx context.Context) (Status, error) {
	if err := op.Fs.MkdirAll(op.Path, 0o755); err != nil {
		return StatusFailed, fmt.Errorf("%w: creating %s: %w", ErrIO, op.Path, err)
	}
	if op.existed {
		return StatusExisting, nil
	}
	return StatusCreated, nil
}

func (op *CreateFolderOp) Target() string { return op.Path }

func (op *CreateFolderOp) Description() string {
	return fmt.Sprintf("Create %s/", op.Path)
}

// WriteFileOp writes a new file. An existing file is passed to the resolver,
// which may keep it, replace it or refuse.
type WriteFileOp struct {
	Fs      afero.Fs
	Path    string
	Content []byte      // may be empty, must not be nil
	Mode    fs.FileMode // 0644 if zero

	exists   bool
	decision ConflictResolution
}

func (op *WriteFileOp) Validate(ctx context.Context, r *Resolver) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	info, err := op.Fs.Stat(op.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.exists, op.decision = false, Overwrite
		return checkAncestors(op.Fs, filepath.Dir(op.Path))
	case err != nil:
		return fmt.Errorf("%w: stat %s: %w", ErrIO, op.Path, err)
	case info.IsDir():
		return &CollisionError{Paths: []string{op.Path}}
	}

	existing, err := afero.ReadFile(op.Fs, op.Path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrIO, op.Path, err)
	}

	decision, err := r.ResolveConflict(Conflict{
		Path:      op.Path,
		Existing:  existing,
		Generated: op.Content,
		ModTime:   info.ModTime(),
	})
	if err != nil {
		return err
	}

	switch decision {
	case Skip, Overwrite:
		op.exists, op.decision = true, decision
		return nil
	default:
		return &CollisionError{Paths: []string{op.Path}}
	}
}

func (op *WriteFileOp) Execute(ctx context.Context) (Status, error) {
	if op.exists && op.decision == Skip {
		return StatusSkipped, nil
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := op.Fs.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
		return StatusFailed, fmt.Errorf("%w: creating %s: %w", ErrIO, filepath.Dir(op.Path), err)
	}
	if err := afero.WriteFile(op.Fs, op.Path, op.Content, mode); err != nil {
		return StatusFailed, fmt.Errorf("%w: writing %s: %w", ErrIO, op.Path, err)
	}

	if op.exists {
		return StatusOverwritten, nil
	}
	return StatusCreated, nil
}

func (op *WriteFileOp) Target() string { return op.Path }

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// PatchFunc rewrites the content of an existing file. Returning the input
// unchanged means the patch is already applied.
type PatchFunc func(content []byte) ([]byte, error)

// PatchFileOp rewrites an existing file in place.
type PatchFileOp struct {
	Fs    afero.Fs
	Path  string
	Label string // shown in output, e.g. "register ItemModule"
	Patch PatchFunc
}

func (op *PatchFileOp) Validate(ctx context.Context, _ *Resolver) error {
	content, err := afero.ReadFile(op.Fs, op.Path)
	if err != nil {
		return fmt.Errorf("patching %s: %w", op.Path, err)
	}
	if _, err := op.Patch(content); err != nil {
		return fmt.Errorf("patching %s: %w", op.Path, err)
	}
	return nil
}

func (op *PatchFileOp) Execute(ctx context.Context) (Status, error) {
	info, err := op.Fs.Stat(op.Path)
	if err != nil {
		return StatusFailed, fmt.Errorf("%w: stat %s: %w", ErrIO, op.Path, err)
	}
	content, err := afero.ReadFile(op.Fs, op.Path)
	if err != nil {
		return StatusFailed, fmt.Errorf("%w: reading %s: %w", ErrIO, op.Path, err)
	}

	patched, err := op.Patch(content)
	if err != nil {
		return StatusFailed, fmt.Errorf("patching %s: %w", op.Path, err)
	}
	if bytes.Equal(patched, content) {
		return StatusUnchanged, nil
	}

	if err := afero.WriteFile(op.Fs, op.Path, patched, info.Mode().Perm()); err != nil {
		return StatusFailed, fmt.Errorf("%w: writing %s: %w", ErrIO, op.Path, err)
	}
	return StatusPatched, nil
}

func (op *PatchFileOp) Target() string { return op.Path }

func (op *PatchFileOp) Description() string {
	return fmt.Sprintf("Update %s (%s)", op.Path, op.Label)
}

// checkAncestors reports a collision when some parent of dir exists as a file.
func checkAncestors(fsys afero.Fs, dir string) error {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		info, err := fsys.Stat(d)
		if err == nil {
			if !info.IsDir() {
				return &CollisionError{Paths: []string{d}}
			}
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: stat %s: %w", ErrIO, d, err)
		}
		if parent := filepath.Dir(d); parent == d {
			return nil
		}
	}
}
