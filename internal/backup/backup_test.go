package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countBackups(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), backupPrefix) {
			n++
		}
	}
	return n
}

func TestRunCreatesBackup(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "inventory.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("stock data"), 0o644))
	backupDir := filepath.Join(tmp, "backups")

	Run(dbPath, backupDir)

	require.Equal(t, 1, countBackups(t, backupDir))
	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "stock data", string(data))
}

func TestRunSkipsMissingDatabase(t *testing.T) {
	tmp := t.TempDir()
	backupDir := filepath.Join(tmp, "backups")

	Run(filepath.Join(tmp, "absent.db"), backupDir)

	_, err := os.Stat(backupDir)
	assert.True(t, os.IsNotExist(err), "no backup dir created on first run")
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 13; i++ {
		name := fmt.Sprintf("%s2020010%d_00000%d.db", backupPrefix, i/10, i%10)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	// Unrelated files are never pruned.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	prune(dir, 10)

	assert.Equal(t, 10, countBackups(t, dir))
	_, err := os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
	// The newest stamp survives.
	_, err = os.Stat(filepath.Join(dir, backupPrefix+"20200101_000002.db"))
	assert.NoError(t, err)
}
