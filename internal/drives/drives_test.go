package drives

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriveRootUsesExplicitRootsBeforePattern(t *testing.T) {
	base := t.TempDir()
	explicit := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(explicit, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "m"), 0o755))

	l := Locator{
		Pattern: filepath.Join(base, "{letter}"),
		Roots:   map[string]string{"D": explicit},
	}

	root, ok := l.DriveRoot('d')
	require.True(t, ok)
	require.Equal(t, explicit, root)

	root, ok = l.DriveRoot('M')
	require.True(t, ok)
	require.Equal(t, filepath.Join(base, "m"), root)

	_, ok = l.DriveRoot('z')
	require.False(t, ok)

	_, ok = l.DriveRoot('1')
	require.False(t, ok)
}

func TestDriveRootFallsBackWhenExplicitRootMissing(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "e"), 0o755))

	l := Locator{
		Pattern: filepath.Join(base, "{letter}"),
		Roots:   map[string]string{"e": filepath.Join(base, "missing")},
	}

	root, ok := l.DriveRoot('e')
	require.True(t, ok)
	require.Equal(t, filepath.Join(base, "e"), root)
}

func TestDriveRootPicksSameRootForDuplicateLetters(t *testing.T) {
	base := t.TempDir()
	lower := filepath.Join(base, "lower")
	upper := filepath.Join(base, "upper")
	require.NoError(t, os.MkdirAll(lower, 0o755))
	require.NoError(t, os.MkdirAll(upper, 0o755))

	l := Locator{Roots: map[string]string{"M": upper, "m": lower, " m ": upper}}
	for range 50 {
		root, ok := l.DriveRoot('M')
		require.True(t, ok)
		require.Equal(t, lower, root)
	}

	l = Locator{Roots: map[string]string{"M": upper, " m ": lower}}
	for range 50 {
		root, ok := l.DriveRoot('m')
		require.True(t, ok)
		require.Equal(t, lower, root)
	}
}

func TestListTopLevelDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"Photos", "Internship", ".cache", "Notes"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir, "nested"), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("x"), 0o600))

	target := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(root, "Linked")))

	dirs, err := Locator{}.ListTopLevelDirectories(root)
	require.NoError(t, err)
	require.Equal(t, []string{"Internship", "Linked", "Notes", "Photos"}, dirs)

	_, err = Locator{}.ListTopLevelDirectories(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	require.True(t, PathExists(dir))
	require.False(t, PathExists(file))
	require.False(t, PathExists(filepath.Join(dir, "missing")))
}
