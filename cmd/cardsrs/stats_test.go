package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/cardsrs/internal/testutil"
)

func TestStatsCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	csvPath := writeFile(t, tmpDir, "cards.csv", "Front,Back\nhola,hello\nadios,goodbye\n")

	_, err := executeCommand(t, cfgPath, "", "import", csvPath)
	require.NoError(t, err)
	_, err = executeCommand(t, cfgPath, "hello\n1\n\n", "review")
	require.NoError(t, err)

	out, err := executeCommand(t, cfgPath, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "# Study statistics "+time.Now().Format("2006-01-02"))
	assert.Contains(t, out, "- Total: 2")
	assert.Contains(t, out, "- Today: 1")
	assert.NotContains(t, out, "PDF report written")
}

func TestStatsCommand_PDF(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	out, err := executeCommand(t, cfgPath, "", "stats", "--pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "PDF report written to")

	name := "statistics-" + time.Now().Format("2006-01-02")
	for _, ext := range []string{".md", ".pdf"} {
		_, err := os.Stat(filepath.Join(tmpDir, "reports", name+ext))
		assert.NoError(t, err, ext)
	}
}
