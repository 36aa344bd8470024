package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/invoice-summaries/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
	assert.True(t, fileutils.DirectoryExists(nested))
	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.csv", "a.XLSX", "notes.txt", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.csv"), 0750))

	files, err := fileutils.ListFilesWithExtensions(tmpDir, ".csv", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.XLSX"),
		filepath.Join(tmpDir, "b.csv"),
	}, files)
}

func TestListFilesWithExtensions_MissingDirectory(t *testing.T) {
	_, err := fileutils.ListFilesWithExtensions(filepath.Join(t.TempDir(), "missing"), ".csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory does not exist")
}

func TestDerivedFileName(t *testing.T) {
	assert.Equal(t, "march_with_ai_summaries.csv", fileutils.DerivedFileName(filepath.Join("in", "march.xlsx"), "_with_ai_summaries.csv"))
	assert.Equal(t, "plain.csv", fileutils.DerivedFileName("plain", ".csv"))
}
