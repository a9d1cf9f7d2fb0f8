// Package export handles exporting run reports to various formats.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alienxp03/botsleuth/internal/core"
)

// Format represents an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// Exporter defines the interface for exporting run reports.
type Exporter interface {
	Export(run *core.Run, results []*core.AccountResult, w io.Writer) error
	FileExtension() string
}

// GetExporter returns an exporter for the given format.
func GetExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatPDF:
		return &PDFExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// GenerateFilename creates a filename for the export.
func GenerateFilename(run *core.Run, ext string) string {
	dataset := strings.TrimSuffix(run.DatasetPath, ".csv")
	if idx := strings.LastIndexAny(dataset, "/\\"); idx >= 0 {
		dataset = dataset[idx+1:]
	}
	if len(dataset) > 50 {
		dataset = dataset[:50]
	}

	// Replace unsafe characters
	replacer := strings.NewReplacer(
		" ", "_",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	dataset = replacer.Replace(dataset)

	timestamp := run.CreatedAt.Format("20060102")
	return fmt.Sprintf("run_%s_%s.%s", timestamp, dataset, ext)
}

// Helper to format a percentage with two decimals
func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Helper to format duration
func formatDuration(start, end time.Time) string {
	d := end.Sub(start)
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return fmt.Sprintf("%.1f hours", d.Hours())
}
