package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	tests := []struct {
		name          string
		markdownPath  string
		setupFile     func(t *testing.T) string
		wantErr       bool
		wantErrMsg    string
		validateAfter func(t *testing.T, pdfPath string)
	}{
		{
			name:         "invalid extension",
			markdownPath: "test.txt",
			wantErr:      true,
			wantErrMsg:   "input file must have .md extension",
		},
		{
			name:         "file not found",
			markdownPath: "nonexistent.md",
			wantErr:      true,
			wantErrMsg:   "os.ReadFile",
		},
		{
			name: "successful conversion",
			setupFile: func(t *testing.T) string {
				mdPath := filepath.Join(t.TempDir(), "stats.md")
				content := []byte("# Study statistics\n\n- Total: 3\n- Mastered: 1\n")
				require.NoError(t, os.WriteFile(mdPath, content, 0644))
				return mdPath
			},
			validateAfter: func(t *testing.T, pdfPath string) {
				_, err := os.Stat(pdfPath)
				assert.NoError(t, err, "PDF file should be created")
				assert.Equal(t, ".pdf", filepath.Ext(pdfPath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mdPath := tt.markdownPath
			if tt.setupFile != nil {
				mdPath = tt.setupFile(t)
			}

			pdfPath, err := ConvertMarkdownToPDF(mdPath)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, pdfPath)
			if tt.validateAfter != nil {
				tt.validateAfter(t, pdfPath)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	got, err := WriteReport(dir, "stats-2025-03-10", []byte("# Study statistics 2025-03-10\n\n- Total: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, "stats-2025-03-10.pdf", filepath.Base(got))
	_, err = os.Stat(got)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "stats-2025-03-10.md"))
	assert.NoError(t, err)
}
