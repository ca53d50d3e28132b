// Package pdf renders markdown reports as PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	if err := render(content, pdfPath); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// WriteReport writes content as <name>.md in directory, creating the directory if needed,
// and converts it to <name>.pdf next to it. It returns the path of the PDF file.
func WriteReport(directory, name string, content []byte) (string, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	markdownPath := filepath.Join(directory, name+".md")
	if err := os.WriteFile(markdownPath, content, 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}
	return ConvertMarkdownToPDF(markdownPath)
}

func render(content []byte, pdfPath string) error {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
