package export

import (
	"encoding/json"
	"io"

	"github.com/alienxp03/botsleuth/internal/core"
)

// JSONExporter exports run reports to JSON format.
type JSONExporter struct{}

// ExportData represents the full export structure.
type ExportData struct {
	Run     *core.Run             `json:"run"`
	Results []*core.AccountResult `json:"results"`
}

// Export writes the run report as JSON.
func (e *JSONExporter) Export(run *core.Run, results []*core.AccountResult, w io.Writer) error {
	data := ExportData{
		Run:     run,
		Results: results,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
