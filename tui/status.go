package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/encounterdex/engine/version"
)

// renderStatusBar produces a full-width inverted status line showing the
// default version, the trainer, the creature in focus and the trace flag.
func (m Model) renderStatusBar() string {
	s := m.session

	ver := "any"
	if s.Version != 0 {
		ver = version.Name(s.Version)
	}
	left := fmt.Sprintf(" Version: %s | OT: %s %05d", ver, s.Trainer.OT, s.Trainer.TID)

	var parts []string
	if pk := s.Last(); pk != nil {
		name := s.Engine.Species.Name(pk.Species)
		if name == "" {
			name = fmt.Sprintf("#%d", pk.Species)
		}
		parts = append(parts, fmt.Sprintf("%s L%d", name, pk.CurrentLevel))
	}
	if s.Trace {
		parts = append(parts, "trace")
	}
	right := strings.Join(parts, " | ") + " "

	// Drop the creature when it does not fit.
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width && len(parts) > 0 {
		right = parts[len(parts)-1] + " "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
