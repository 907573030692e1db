package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOps(fsys afero.Fs, files map[string]string, order ...string) []Operation {
	ops := make([]Operation, 0, len(order))
	for _, p := range order {
		ops = append(ops, &WriteFileOp{Fs: fsys, Path: p, Content: []byte(files[p])})
	}
	return ops
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestExecute_CreatesEverything(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var out bytes.Buffer

	ops := []Operation{
		&CreateFolderOp{Fs: fsys, Path: "shop/src/item"},
		&WriteFileOp{Fs: fsys, Path: "shop/src/item/__init__.py", Content: []byte{}},
		&WriteFileOp{Fs: fsys, Path: "shop/src/item/item_model.py", Content: []byte("class Item: ...\n")},
	}

	report, err := Execute(context.Background(), ops, ExecuteOptions{Writer: &out})
	require.NoError(t, err)

	assert.Len(t, report.Succeeded(), 3)
	assert.Empty(t, report.Incomplete())
	assert.Equal(t, "", readFile(t, fsys, "shop/src/item/__init__.py"))
	assert.Equal(t, "class Item: ...\n", readFile(t, fsys, "shop/src/item/item_model.py"))
	assert.Contains(t, out.String(), "✓ Create shop/src/item/item_model.py (16 bytes)")
}

func TestExecute_CollisionWritesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "m/b.py", []byte("mine"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "m/d.py", []byte("mine too"), 0o644))

	files := map[string]string{"m/a.py": "a", "m/b.py": "b", "m/c.py": "c", "m/d.py": "d"}
	_, err := Execute(context.Background(), writeOps(fsys, files, "m/a.py", "m/b.py", "m/c.py", "m/d.py"),
		ExecuteOptions{Writer: io.Discard})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathCollision)

	var ce *CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"m/b.py", "m/d.py"}, ce.Paths)

	for _, p := range []string{"m/a.py", "m/c.py"} {
		exists, _ := afero.Exists(fsys, p)
		assert.False(t, exists, p)
	}
	assert.Equal(t, "mine", readFile(t, fsys, "m/b.py"))
}

func TestExecute_SkipFillsGaps(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "m/b.py", []byte("edited by hand"), 0o644))

	resolver, err := NewResolver(ResolverOptions{Skip: true})
	require.NoError(t, err)

	files := map[string]string{"m/a.py": "a", "m/b.py": "b"}
	report, err := Execute(context.Background(), writeOps(fsys, files, "m/a.py", "m/b.py"),
		ExecuteOptions{Resolver: resolver, Writer: io.Discard})
	require.NoError(t, err)

	assert.Equal(t, "a", readFile(t, fsys, "m/a.py"))
	assert.Equal(t, "edited by hand", readFile(t, fsys, "m/b.py"))

	status, ok := report.Status("m/b.py")
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, status)
}

func TestExecute_ForceOverwrites(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "m/a.py", []byte("old"), 0o644))

	resolver, err := NewResolver(ResolverOptions{Force: true})
	require.NoError(t, err)

	report, err := Execute(context.Background(), writeOps(fsys, map[string]string{"m/a.py": "new"}, "m/a.py"),
		ExecuteOptions{Resolver: resolver, Writer: io.Discard})
	require.NoError(t, err)

	assert.Equal(t, "new", readFile(t, fsys, "m/a.py"))
	status, _ := report.Status("m/a.py")
	assert.Equal(t, StatusOverwritten, status)
}

func TestExecute_DryRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var out bytes.Buffer

	ops := []Operation{
		&CreateFolderOp{Fs: fsys, Path: "m"},
		&WriteFileOp{Fs: fsys, Path: "m/a.py", Content: []byte("a")},
	}
	report, err := Execute(context.Background(), ops, ExecuteOptions{DryRun: true, Writer: &out})
	require.NoError(t, err)

	exists, _ := afero.Exists(fsys, "m")
	assert.False(t, exists)
	assert.Contains(t, out.String(), "[DRY RUN] Create m/a.py")
	for _, e := range report.Entries {
		assert.Equal(t, StatusPlanned, e.Status)
	}
}

type failingFs struct {
	afero.Fs
	failOn string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.failOn && flag&os.O_CREATE != 0 {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestExecute_PartialFailureReport(t *testing.T) {
	fsys := failingFs{Fs: afero.NewMemMapFs(), failOn: "m/b.py"}

	files := map[string]string{"m/a.py": "a", "m/b.py": "b", "m/c.py": "c"}
	report, err := Execute(context.Background(), writeOps(fsys, files, "m/a.py", "m/b.py", "m/c.py"),
		ExecuteOptions{Writer: io.Discard})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	var me *MaterializeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "m/b.py", me.Path)
	assert.Contains(t, err.Error(), "1 of 3 operations completed")

	assert.Equal(t, []string{"m/a.py"}, report.Succeeded())
	incomplete := report.Incomplete()
	require.Len(t, incomplete, 2)
	assert.Equal(t, StatusFailed, incomplete[0].Status)
	assert.Equal(t, StatusNotAttempted, incomplete[1].Status)

	assert.Equal(t, "a", readFile(t, fsys, "m/a.py"))
}

func TestCreateFolderOp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("src/item", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "src/order", []byte("not a folder"), 0o644))

	op := &CreateFolderOp{Fs: fsys, Path: "src/item"}
	require.NoError(t, op.Validate(context.Background(), RejectResolver()))
	status, err := op.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusExisting, status)

	err = (&CreateFolderOp{Fs: fsys, Path: "src/order"}).Validate(context.Background(), RejectResolver())
	assert.ErrorIs(t, err, ErrPathCollision)

	err = (&WriteFileOp{Fs: fsys, Path: "src/order/x.py", Content: []byte("x")}).Validate(context.Background(), RejectResolver())
	assert.ErrorIs(t, err, ErrPathCollision)
}

func TestWriteFileOp_NilContent(t *testing.T) {
	op := &WriteFileOp{Fs: afero.NewMemMapFs(), Path: "a.py"}
	assert.ErrorContains(t, op.Validate(context.Background(), RejectResolver()), "content is nil")
}

func TestPatchFileOp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "app.py", []byte("modules=[]\n"), 0o600))

	appendItem := func(content []byte) ([]byte, error) {
		if bytes.Contains(content, []byte("Item")) {
			return content, nil
		}
		if !bytes.Contains(content, []byte("modules=[")) {
			return nil, errors.New("no modules list")
		}
		return bytes.Replace(content, []byte("modules=["), []byte("modules=[Item"), 1), nil
	}
	op := &PatchFileOp{Fs: fsys, Path: "app.py", Label: "register Item", Patch: appendItem}

	report, err := Execute(context.Background(), []Operation{op}, ExecuteOptions{Writer: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, "modules=[Item]\n", readFile(t, fsys, "app.py"))
	status, _ := report.Status("app.py")
	assert.Equal(t, StatusPatched, status)

	info, err := fsys.Stat("app.py")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	report, err = Execute(context.Background(), []Operation{op}, ExecuteOptions{Writer: io.Discard})
	require.NoError(t, err)
	status, _ = report.Status("app.py")
	assert.Equal(t, StatusUnchanged, status)

	require.NoError(t, afero.WriteFile(fsys, "app.py", []byte("app = 1\n"), 0o644))
	ops := []Operation{
		&WriteFileOp{Fs: fsys, Path: "m/a.py", Content: []byte("a")},
		op,
	}
	_, err = Execute(context.Background(), ops, ExecuteOptions{Writer: io.Discard})
	assert.ErrorContains(t, err, "no modules list")
	exists, _ := afero.Exists(fsys, "m/a.py")
	assert.False(t, exists)
}

func TestExecute_DuplicateTarget(t *testing.T) {
	fsys := afero.NewMemMapFs()
	ops := []Operation{
		&WriteFileOp{Fs: fsys, Path: "a.py", Content: []byte("1")},
		&WriteFileOp{Fs: fsys, Path: "a.py", Content: []byte("2")},
	}
	_, err := Execute(context.Background(), ops, ExecuteOptions{Writer: io.Discard})
	assert.ErrorContains(t, err, "targeted twice")
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := afero.NewMemMapFs()
	_, err := Execute(ctx, writeOps(fsys, map[string]string{"a.py": "a"}, "a.py"), ExecuteOptions{Writer: io.Discard})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewResolver(t *testing.T) {
	_, err := NewResolver(ResolverOptions{Force: true, Skip: true})
	assert.Error(t, err)
	_, err = NewResolver(ResolverOptions{Diff: true, Interactive: true})
	assert.Error(t, err)

	r, err := NewResolver(ResolverOptions{})
	require.NoError(t, err)
	decision, err := r.ResolveConflict(Conflict{Path: "a.py"})
	require.NoError(t, err)
	assert.Equal(t, Cancel, decision)
}

func TestDiffStrategy(t *testing.T) {
	var out bytes.Buffer
	s := &DiffStrategy{Out: &out, Then: ForceStrategy{}}

	decision, err := s.Resolve(Conflict{
		Path:      "src/item/item_model.py",
		Existing:  []byte("a\nb\nc\n"),
		Generated: []byte("a\nB\nc\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, Overwrite, decision)
	assert.Contains(t, out.String(), "-b")
	assert.Contains(t, out.String(), "+B")

	out.Reset()
	_, err = s.Resolve(Conflict{Path: "same.py", Existing: []byte("x"), Generated: []byte("x")})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "identical")
}

func TestDiff(t *testing.T) {
	assert.Equal(t, "", Diff("a.py", []byte("same\n"), []byte("same\n")))

	got := Diff("a.py", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"))
	assert.Equal(t, strings.Join([]string{
		"--- a.py (existing)",
		"+++ a.py (generated)",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+B",
		" c",
		"",
	}, "\n"), got)

	assert.Equal(t, "Binary files differ\n", Diff("a.bin", []byte{0, 1}, []byte{1}))
}

func TestDiff_SeparateHunks(t *testing.T) {
	var old, newer []string
	for i := 0; i < 30; i++ {
		old = append(old, fmt.Sprintf("line %d", i))
		newer = append(newer, fmt.Sprintf("line %d", i))
	}
	newer[2] = "changed"
	newer[25] = "changed"

	got := Diff("a.py", []byte(strings.Join(old, "\n")), []byte(strings.Join(newer, "\n")))
	assert.Equal(t, 2, strings.Count(got, "@@ -"))
	assert.Contains(t, got, "@@ -1,6 +1,6 @@")
	assert.Contains(t, got, "-line 25\n+changed\n")
}

func TestDiff_SingleLineRangesAndFinalNewline(t *testing.T) {
	assert.Equal(t, strings.Join([]string{
		"--- a.py (existing)",
		"+++ a.py (generated)",
		"@@ -1 +1 @@",
		"-x",
		"+y",
		"",
	}, "\n"), Diff("a.py", []byte("x"), []byte("y\n")))

	assert.Equal(t, "", Diff("a.py", []byte("x\n"), []byte("x")))

	assert.Contains(t, Diff("a.py", nil, []byte("new\n")), "+new\n")
}

func TestConflictMenuModel(t *testing.T) {
	m := newConflictMenuModel(Conflict{Path: "a.py", Existing: []byte("12345")})
	assert.Contains(t, m.View(), "a.py")
	assert.Contains(t, m.View(), "5 B")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	final := next.(conflictMenuModel)
	require.NotNil(t, final.selected)
	assert.Equal(t, Skip, *final.selected)

	quit, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, quit.(conflictMenuModel).selected)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))
}
