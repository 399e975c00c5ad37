package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMigrationFilesOrderedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_categories.sql", "001_users.sql", "notes.md", "010_requests.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	names, err := sqlMigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_categories.sql", "010_requests.sql"}, names)
}

func TestSQLMigrationFilesMissingDir(t *testing.T) {
	_, err := sqlMigrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
