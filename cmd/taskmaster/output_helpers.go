package main

import (
	"encoding/json"
	"io"
	"strings"

	internalstrings "github.com/amonks/taskmaster/internal/strings"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/muesli/reflow/wordwrap"
)

const lineWidth = 80

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// outputWidth is the terminal width capped at lineWidth.
func outputWidth() int {
	width := ui.TerminalWidth(lineWidth)
	if width > lineWidth {
		return lineWidth
	}
	return width
}

// wrapText normalizes whitespace and wraps value to width. Blank values
// render as "-".
func wrapText(value string, width int) string {
	normalized := internalstrings.NormalizeWhitespace(value)
	if normalized == "" {
		return "-"
	}
	if width < 1 {
		width = 1
	}
	return strings.TrimRight(wordwrap.String(normalized, width), "\n")
}
