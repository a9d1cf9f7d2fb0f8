package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/alienxp03/botsleuth/internal/core"
)

// PDFExporter exports run reports to PDF format.
type PDFExporter struct{}

// Export writes the run report as PDF.
func (e *PDFExporter) Export(run *core.Run, results []*core.AccountResult, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add first page
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, "Bot Detection Report", "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Run Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	e.addMetadataRow(pdf, "ID:", run.ID)
	e.addMetadataRow(pdf, "Dataset:", fmt.Sprintf("%s (%s)", run.DatasetPath, run.Format))
	e.addMetadataRow(pdf, "Protocol:", string(run.Protocol))
	e.addMetadataRow(pdf, "Model:", fmt.Sprintf("%s/%s", run.Provider, run.Model))
	e.addMetadataRow(pdf, "Status:", string(run.Status))
	e.addMetadataRow(pdf, "Created:", run.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	if run.CompletedAt != nil {
		e.addMetadataRow(pdf, "Completed:", run.CompletedAt.Format("January 2, 2006 at 3:04 PM"))
		e.addMetadataRow(pdf, "Duration:", formatDuration(run.CreatedAt, *run.CompletedAt))
	}
	pdf.Ln(5)

	// Metrics section
	if run.Metrics != nil {
		m := run.Metrics

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Performance")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		e.addMetadataRow(pdf, "Accounts:", fmt.Sprintf("%d", m.Total))
		e.addMetadataRow(pdf, "Correct:", fmt.Sprintf("%d", m.Correct))
		e.addMetadataRow(pdf, "Failed:", fmt.Sprintf("%d", m.Failed))
		e.addMetadataRow(pdf, "Accuracy:", formatPercent(m.Accuracy))
		e.addMetadataRow(pdf, "Precision:", formatPercent(m.Precision))
		e.addMetadataRow(pdf, "Recall:", formatPercent(m.Recall))
		e.addMetadataRow(pdf, "F1:", formatPercent(m.F1))
		pdf.Ln(5)
	}

	// Per-account results
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Accounts")
	pdf.Ln(8)

	if len(results) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No results recorded.")
		pdf.Ln(6)
	} else {
		for _, res := range results {
			// Check if we need a new page
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			// Account header with colored background: green when the
			// verdict matched the ground truth, red otherwise.
			if res.Status != core.StatusFailed && res.Correct() {
				pdf.SetFillColor(200, 255, 200) // Light green
			} else {
				pdf.SetFillColor(255, 200, 200) // Light red
			}

			pdf.SetFont("Arial", "B", 10)
			header := fmt.Sprintf("%s - truth: %s, predicted: %s", res.Username, res.TrueLabel, res.Predicted)
			if res.Status == core.StatusFailed {
				header = fmt.Sprintf("%s - failed at %s", res.Username, res.Stage)
			}
			pdf.CellFormat(0, 7, e.sanitizeText(header), "", 1, "", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)

			if res.Status == core.StatusFailed && res.Error != "" {
				pdf.MultiCell(0, 5, e.sanitizeText(res.Error), "", "", false)
			}
			if res.Transcript != nil && res.Transcript.JudgeText != "" {
				pdf.MultiCell(0, 5, e.sanitizeText(res.Transcript.JudgeText), "", "", false)
			}
			pdf.Ln(5)
		}
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from botsleuth", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, value)
	pdf.Ln(5)
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	// Replace common Unicode characters that might cause issues
	replacer := strings.NewReplacer(
		"\u2018", "'",  // Left single quote
		"\u2019", "'",  // Right single quote
		"\u201C", "\"", // Left double quote
		"\u201D", "\"", // Right double quote
		"\u2013", "-",  // En dash
		"\u2014", "--", // Em dash
		"\u2026", "...", // Ellipsis
		"\u2022", "*",  // Bullet
		"\u00A0", " ",  // Non-breaking space
	)
	return replacer.Replace(text)
}
