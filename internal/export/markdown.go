package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alienxp03/botsleuth/internal/core"
)

// MarkdownExporter exports run reports to Markdown format.
type MarkdownExporter struct{}

// Export writes the run report as Markdown.
func (e *MarkdownExporter) Export(run *core.Run, results []*core.AccountResult, w io.Writer) error {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("# Bot Detection Run `%s`\n\n", run.ID))

	// Metadata
	sb.WriteString("## Run Information\n\n")
	sb.WriteString(fmt.Sprintf("- **Dataset:** %s (%s)\n", run.DatasetPath, run.Format))
	sb.WriteString(fmt.Sprintf("- **Protocol:** %s\n", run.Protocol))
	sb.WriteString(fmt.Sprintf("- **Provider:** %s\n", run.Provider))
	sb.WriteString(fmt.Sprintf("- **Model:** %s\n", run.Model))
	sb.WriteString(fmt.Sprintf("- **Temperature:** %.2f\n", run.Temperature))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", run.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	if run.CompletedAt != nil {
		sb.WriteString(fmt.Sprintf("- **Completed:** %s\n", run.CompletedAt.Format("January 2, 2006 at 3:04 PM")))
		sb.WriteString(fmt.Sprintf("- **Duration:** %s\n", formatDuration(run.CreatedAt, *run.CompletedAt)))
	}
	sb.WriteString("\n")

	// Metrics
	if run.Metrics != nil {
		m := run.Metrics
		sb.WriteString("## Performance\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Accounts | %d |\n", m.Total))
		sb.WriteString(fmt.Sprintf("| Correct | %d |\n", m.Correct))
		sb.WriteString(fmt.Sprintf("| Failed | %d |\n", m.Failed))
		sb.WriteString(fmt.Sprintf("| Accuracy | %s |\n", formatPercent(m.Accuracy)))
		sb.WriteString(fmt.Sprintf("| Precision | %s |\n", formatPercent(m.Precision)))
		sb.WriteString(fmt.Sprintf("| Recall | %s |\n", formatPercent(m.Recall)))
		sb.WriteString(fmt.Sprintf("| F1 | %s |\n", formatPercent(m.F1)))
		sb.WriteString("\n")
	}

	// Per-account results
	sb.WriteString("## Accounts\n\n")

	if len(results) == 0 {
		sb.WriteString("*No results recorded.*\n\n")
	} else {
		sb.WriteString("| Account | Truth | Predicted | Outcome |\n")
		sb.WriteString("|---------|-------|-----------|--------|\n")
		for _, res := range results {
			outcome := "correct"
			if res.Status == core.StatusFailed {
				outcome = fmt.Sprintf("failed at %s", res.Stage)
			} else if !res.Correct() {
				outcome = "wrong"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				res.Username, res.TrueLabel, res.Predicted, outcome))
		}
		sb.WriteString("\n")

		// Full transcripts for classified accounts
		for _, res := range results {
			if res.Transcript == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s\n\n", res.Username))
			sb.WriteString(fmt.Sprintf("*%s*\n\n", res.CreatedAt.Format("3:04 PM")))

			e.addSection(&sb, "Bot Expert", res.Transcript.BotArgument)
			e.addSection(&sb, "Human Expert", res.Transcript.HumanArgument)
			e.addSection(&sb, "Bot Expert Critique", res.Transcript.BotCritique)
			e.addSection(&sb, "Human Expert Critique", res.Transcript.HumanCritique)
			e.addSection(&sb, "Judge", res.Transcript.JudgeText)

			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("---\n\n")
	sb.WriteString("*Exported from botsleuth*\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

func (e *MarkdownExporter) addSection(sb *strings.Builder, title, content string) {
	if content == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("#### %s\n\n", title))
	sb.WriteString(content)
	sb.WriteString("\n\n")
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
