// Package testutil provides shared test helpers for creating config files and databases.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/cardsrs/internal/database"
)

// SetupTestConfig creates a config file using a SQLite database under tmpDir and the
// report directory it refers to. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	reportDir := filepath.Join(tmpDir, "reports")
	require.NoError(t, os.MkdirAll(reportDir, 0755))

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
log:
  level: warn
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "cards.db"),
		reportDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// NewTestDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	logger, _ := test.NewNullLogger()
	_, err = database.Migrate(context.Background(), db, logger)
	require.NoError(t, err)
	return db
}
