package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Bold(true)

	styleKind = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleCondition = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleNote = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Italic(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleQuery = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeader
	kindEntry
	kindNote
	kindError
	kindTrace
)

// entryPrefixes start the indented template lines of match and list output.
var entryPrefixes = []string{"  slot ", "  static ", "  trade "}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "Error:"):
		return kindError
	case strings.HasPrefix(line, "(reading "):
		return kindNote
	case strings.Contains(line, "encounter(s) for"), strings.HasPrefix(line, "No encounters for"):
		return kindHeader
	}
	for _, p := range entryPrefixes {
		if strings.HasPrefix(line, p) {
			return kindEntry
		}
	}
	return kindPlain
}

// styledEntry renders "  slot #74 L10 @5 [OR] Grass: condition" with the
// kind highlighted and the condition after the last ": " in green.
func styledEntry(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	kind, rest, ok := strings.Cut(trimmed, " ")
	if !ok {
		return stylePlain.Render(line)
	}
	out := indent + styleKind.Render(kind) + " "
	if i := strings.LastIndex(rest, ": "); i >= 0 {
		return out + stylePlain.Render(rest[:i+2]) + styleCondition.Render(rest[i+2:])
	}
	return out + stylePlain.Render(rest)
}

// styledQuery renders the echoed query in green with "> " prefix.
func styledQuery(input string) string {
	return styleQuery.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets. Errors
// stay red.
func styledSystemMsg(text string) string {
	if strings.HasPrefix(text, "Error:") {
		return styleError.Render(text)
	}
	return styleSystem.Render("[" + text + "]")
}
