package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/runner"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func rel(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extension",
			want: []string{"board.SchDoc", "power/psu.schdoc", "power/regulator.SchDoc"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".SchLib"}},
			want: []string{"lib/parts.SchLib"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"power/**"}},
			want: []string{"board.SchDoc"},
		},
		{
			name: "exclude base name",
			opts: runner.Options{ExcludeGlobs: []string{"psu.*"}},
			want: []string{"board.SchDoc", "power/regulator.SchDoc"},
		},
		{
			name: "include",
			opts: runner.Options{IncludeGlobs: []string{"**/reg*"}},
			want: []string{"power/regulator.SchDoc"},
		},
		{
			name: "single path",
			opts: runner.Options{Paths: []string{"power"}},
			want: []string{"power/psu.schdoc", "power/regulator.SchDoc"},
		},
		{
			name: "duplicates collapse",
			opts: runner.Options{Paths: []string{"board.SchDoc", ".", "board.SchDoc"}},
			want: []string{"board.SchDoc", "power/psu.schdoc", "power/regulator.SchDoc"},
		},
	}

	dir := t.TempDir()
	touch(t, dir,
		"board.SchDoc",
		"power/regulator.SchDoc",
		"power/psu.schdoc",
		"lib/parts.SchLib",
		"notes.txt",
		".history/board.SchDoc",
		".hidden.SchDoc",
	)

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := testCase.opts
			opts.WorkingDir = dir

			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, rel(t, dir, files))
		})
	}
}

func TestDiscover_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "board.SchDoc", "notes.txt")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{filepath.Join(dir, "board.SchDoc"), "notes.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "board.SchDoc")}, files)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing"}})
	require.ErrorContains(t, err, "stat missing")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "real/board.SchDoc")
	root := filepath.Join(dir, "root")
	require.NoError(t, os.MkdirAll(root, 0o755))
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	target, err := filepath.EvalSymlinks(filepath.Join(dir, "real"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(target, "board.SchDoc")}, files)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".SchDoc"}, runner.DefaultExtensions())
}
