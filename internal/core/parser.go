package core

import (
	"fmt"
	"strings"
)

// VerdictMarker is the literal delimiter the judge prompt mandates for
// the final decision. The parser searches for it verbatim.
const VerdictMarker = "**Classification:**"

// FormatError indicates that no decision could be recovered from the
// judge's text.
type FormatError struct {
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("verdict format error: %s", e.Reason)
}

// ParseVerdict extracts the binary decision from the judge's free-text
// output. It locates the first occurrence of VerdictMarker, scans the
// remainder of that line, strips whitespace and residual markup, and
// accepts exactly "Yes" (bot) or "No" (human), case-insensitively.
//
// The parser never guesses from surrounding prose: a missing marker or
// an unrecognized value is a FormatError. Defaulting on failure is the
// orchestrator's job, not the parser's.
func ParseVerdict(text string) (Label, error) {
	idx := strings.Index(text, VerdictMarker)
	if idx < 0 {
		return LabelHuman, &FormatError{Reason: fmt.Sprintf("marker %q not found", VerdictMarker)}
	}

	value := text[idx+len(VerdictMarker):]
	if nl := strings.IndexAny(value, "\r\n"); nl >= 0 {
		value = value[:nl]
	}

	value = strings.TrimSpace(value)
	value = strings.Trim(value, "*_`")
	value = strings.TrimSpace(value)

	switch strings.ToLower(value) {
	case "yes":
		return LabelBot, nil
	case "no":
		return LabelHuman, nil
	}

	return LabelHuman, &FormatError{Reason: fmt.Sprintf("unrecognized classification value %q", value)}
}
