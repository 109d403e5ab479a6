package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/encounterdex/cli"
)

const navigationHelp = "Navigation: PgUp/PgDn to scroll, Up/Down for history (filtered by what you typed)"

// line is one unstyled output line. Lines are styled at render time so
// they can be re-wrapped when the terminal is resized.
type line struct {
	text   string
	kind   lineKind
	system bool
}

// block is the transcript of one submitted query, or of the banner when
// query is empty.
type block struct {
	query string
	lines []line
}

// Model is the Bubble Tea model for the query shell.
type Model struct {
	ctx     context.Context
	session *cli.Session

	viewport viewport.Model
	input    textinput.Model
	history  *History
	blocks   []block

	width, height int
	ready         bool
	quitting      bool
}

// bannerMsg carries the startup lines into the Update loop.
type bannerMsg []string

// New creates a TUI model over the session.
func New(ctx context.Context, s *cli.Session) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = styleInputPrompt
	in.CharLimit = 256
	in.Focus()
	return Model{ctx: ctx, session: s, input: in, history: NewHistory(100)}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, s *cli.Session) error {
	p := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.banner())
}

func (m Model) banner() tea.Cmd {
	e := m.session.Engine
	return func() tea.Msg {
		return bannerMsg{
			fmt.Sprintf("encounterdex: %d species entries, %d games.", e.Species.Len(), len(e.Index.Groups())),
			"Type /help for commands.",
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if handled, cmd := m.key(msg); handled {
			return m, cmd
		}
	case bannerMsg:
		m.record("", []string(msg), false)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize lays out the viewport above the status bar and input line.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	vh := max(h-2, 1)
	if m.ready {
		m.viewport.Width, m.viewport.Height = w, vh
	} else {
		m.viewport = viewport.New(w, vh)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.render()
}

// key handles the keys the shell owns. Anything else goes to the input.
func (m *Model) key(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return true, tea.Quit
	case tea.KeyEnter:
		return true, m.submit()
	case tea.KeyUp:
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(prev)
		}
		return true, nil
	case tea.KeyDown:
		next, _ := m.history.Next()
		m.setInput(next)
		return true, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return true, cmd
	}
	return false, nil
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// submit runs the input line through the session and records the result.
func (m *Model) submit() tea.Cmd {
	query := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if query == "" {
		return nil
	}
	m.history.Push(query)
	m.history.ResetCursor()

	r := m.session.Exec(m.ctx, query)
	out := append(append([]string(nil), r.Output...), r.Trace...)
	if query == "/help" {
		out = append(out, "", navigationHelp)
	}
	m.record(query, out, r.System)
	if r.Quit {
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// record appends a block to the transcript. Trace lines keep their own
// style inside system output.
func (m *Model) record(query string, out []string, system bool) {
	b := block{query: query, lines: make([]line, 0, len(out))}
	for _, text := range out {
		k := classifyLine(text)
		b.lines = append(b.lines, line{text: text, kind: k, system: system && k != kindTrace})
	}
	m.blocks = append(m.blocks, b)
	m.render()
}

// render re-styles the whole transcript at the current width.
func (m *Model) render() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	var out []string
	for _, b := range m.blocks {
		if b.query != "" {
			out = append(out, styledQuery(wordWrap(b.query, width-2)))
		}
		for _, l := range b.lines {
			out = append(out, renderLine(l, width))
		}
		out = append(out, "")
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
	m.viewport.GotoBottom()
}

// renderLine styles one line. Template entries that fit are styled in
// parts; wrapped ones fall back to the plain style.
func renderLine(l line, width int) string {
	switch {
	case l.text == "":
		return ""
	case l.system:
		return styledSystemMsg(wordWrap(l.text, width))
	case l.kind == kindEntry && len(l.text) <= width:
		return styledEntry(l.text)
	}
	style := stylePlain
	switch l.kind {
	case kindHeader:
		style = styleHeader
	case kindNote:
		style = styleNote
	case kindError:
		style = styleError
	case kindTrace:
		style = styleTrace
	}
	return style.Render(wordWrap(l.text, width))
}

// wordWrap breaks text at spaces so no line exceeds width, unless a single
// word is longer. The first line keeps the text's indentation.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	body := strings.TrimLeft(text, " ")
	cur := text[:len(text)-len(body)]
	var lines []string
	for _, w := range strings.Fields(body) {
		switch {
		case strings.TrimSpace(cur) == "":
			cur += w
		case len(cur)+1+len(w) > width:
			lines = append(lines, cur)
			cur = w
		default:
			cur += " " + w
		}
	}
	return strings.Join(append(lines, cur), "\n")
}

// View implements tea.Model.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return strings.Join([]string{m.viewport.View(), m.renderStatusBar(), m.input.View()}, "\n")
}

// viewportKeyMap leaves Up and Down to the input history.
func viewportKeyMap() viewport.KeyMap {
	km := viewport.DefaultKeyMap()
	km.Up.SetEnabled(false)
	km.Down.SetEnabled(false)
	return km
}
