// Package output writes contributor reports to disk and prints the console summary.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nitinNayar/github-recent-contributors/internal/config"
	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName returns "{org}__{unix}__contributor_count.{format}".
func FileName(org string, at time.Time, format string) string {
	return fmt.Sprintf("%s__%d__contributor_count.%s", org, at.Unix(), format)
}

// Encode writes the report in the given format.
func Encode(w io.Writer, format string, report *domain.Report) error {
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteReport creates dir if needed and writes the report file, returning its path.
func WriteReport(dir, format string, report *domain.Report, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(report.Organization, at, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, format, report); err != nil {
		return "", fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return path, nil
}
