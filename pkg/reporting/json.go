package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minhtran-quant/forecastval/internal/walkforward"
)

// DefaultFileReporter persists summaries as JSON, CSV, and Excel files.
type DefaultFileReporter struct{}

// NewDefaultFileReporter creates a file reporter.
func NewDefaultFileReporter() *DefaultFileReporter {
	return &DefaultFileReporter{}
}

// WriteSummaryJSON writes the full summary, windows included, as indented
// JSON.
func (r *DefaultFileReporter) WriteSummaryJSON(summary *walkforward.ValidationSummary, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
