// Package reporting renders validation summaries for humans and files.
// The core hands a finished ValidationSummary to one of these
// collaborators; the formats themselves are not part of the core contract.
package reporting

import "github.com/minhtran-quant/forecastval/internal/walkforward"

// ConsoleReporter renders a summary to stdout.
type ConsoleReporter interface {
	PrintSummary(summary *walkforward.ValidationSummary)
}

// FileReporter persists a summary to disk.
type FileReporter interface {
	WriteSummaryJSON(summary *walkforward.ValidationSummary, path string) error
	WriteWindowsCSV(summary *walkforward.ValidationSummary, path string) error
	WriteSummaryXLSX(summary *walkforward.ValidationSummary, path string) error
}
