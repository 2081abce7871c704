package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_Permissions(t *testing.T) {
	want := filepath.Join(t.TempDir(), "temp_preview")
	require.NoError(t, EnsureDir(want, 0o700))

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}
}

func TestEnsureDir_IdempotentAndNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tenants", "3_Jane_Doe")

	require.NoError(t, EnsureDir(dir, 0o700))
	require.NoError(t, EnsureDir(dir, 0o700))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "tenants")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.Error(t, EnsureDir(path, 0o700))
}

func TestWriteFileAtomic_WritesAndLeavesNoTemp(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "doc.encrypted")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be renamed away")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "doc")
	require.Error(t, WriteFileAtomic(path, []byte("x"), 0o600))
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.encrypted")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.False(t, Exists(path))
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.png")
	dst := filepath.Join(tmp, "b.png")
	require.NoError(t, os.WriteFile(src, []byte("img"), 0o600))

	require.NoError(t, CopyFile(src, dst, 0o644))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), got)
	assert.True(t, Exists(dst))
	assert.False(t, Exists(tmp), "directories are not regular files")
}
