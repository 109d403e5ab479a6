package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/encounterdex/engine"
	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/export"
	"github.com/nathoo/encounterdex/engine/match"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/synth"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// Result is the outcome of one input line.
type Result struct {
	Output []string
	// Trace holds per-candidate match decisions when tracing is on.
	Trace []string
	// System marks meta-command and error output.
	System bool
	Quit   bool
}

// Session executes query commands against an engine. It remembers the last
// creature built, synthesized or loaded so later commands can refer to it.
// The plain CLI and the TUI share it.
type Session struct {
	Engine  *engine.Engine
	Synth   *synth.Synthesizer
	Trainer types.TrainerInfo
	// Version is the game used when a command names none.
	Version types.GameVersion
	Trace   bool

	last     *pkm.Creature
	analysis *engine.Analysis
	lastCmd  string
}

// NewSession creates a session drawing synthesis entropy from src.
func NewSession(e *engine.Engine, src synth.Source, tr types.TrainerInfo) *Session {
	return &Session{
		Engine:  e,
		Synth:   e.NewSynthesizer(src),
		Trainer: tr,
	}
}

// Last returns the creature the session currently refers to, or nil.
func (s *Session) Last() *pkm.Creature { return s.last }

// Exec runs one input line.
func (s *Session) Exec(ctx context.Context, input string) Result {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{}
	}

	// "again" / "g" repeats the last query.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastCmd == "" {
			return system("Nothing to repeat.")
		}
		input = s.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		s.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		return s.meta(input)
	}

	fields := strings.Fields(input)
	args := fields[1:]
	verb := strings.ToLower(fields[0])
	if full, ok := commandAliases[verb]; ok {
		verb = full
	}
	var r Result
	var err error
	switch verb {
	case "chain":
		r, err = s.cmdChain(args)
	case "match":
		r, err = s.cmdMatch(ctx, args)
	case "analyze":
		r, err = s.cmdAnalyze(ctx, args)
	case "list":
		r, err = s.cmdList(args)
	case "synth":
		r, err = s.cmdSynth(args)
	default:
		return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", fields[0]))
	}
	if err != nil {
		r.Output = append(r.Output, "Error: "+err.Error())
		r.System = true
	}
	return r
}

var commandAliases = map[string]string{
	"c":  "chain",
	"m":  "match",
	"a":  "analyze",
	"l":  "list",
	"ls": "list",
	"s":  "synth",
}

func system(lines ...string) Result {
	return Result{Output: lines, System: true}
}

// meta dispatches meta-commands.
func (s *Session) meta(input string) Result {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return Result{Output: []string{"Goodbye."}, System: true, Quit: true}
	case "/help":
		return Result{Output: Help()}
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return system("Trace output enabled.")
		}
		return system("Trace output disabled.")
	case "/export":
		return s.cmdExport(arg)
	case "/report":
		return s.cmdReport(arg)
	case "/version":
		if arg == "" {
			return system("Default version: " + version.Name(s.Version))
		}
		v, n, err := gameVersion(arg)
		if err != nil {
			return system("Error: " + err.Error())
		}
		s.Version = v
		return system(nonEmpty(n, "Default version set to "+version.Name(v)+".")...)
	}
	return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
}

// Help returns the command summary.
func Help() []string {
	return []string{
		"Queries:",
		"  chain <species> <level> [options]   Resolve the evolution chain",
		"  match <species> <level> [options]   List the encounters it could come from",
		"  analyze [file]                      Match the last creature, or one loaded from file",
		"  list <version> [species] [method=M] List encounter templates",
		"  synth <version> <slot|static|trade> <index> [nature=N] [gender=G] [ability=A]",
		"  again (g)                           Repeat the last query",
		"",
		"Short forms: c chain, m match, a analyze, l/ls list, s synth",
		"",
		"Options: met=N loc=L version=V form=F ability=A format=N from=V nomet",
		"",
		"System:",
		"  /export <file>  Write the last creature (.json or .yaml)",
		"  /report <file>  Write the last analysis (.json or .yaml)",
		"  /version [V]    Show or set the default version",
		"  /trace          Toggle per-candidate trace output",
		"  /help           Show this help",
		"  /quit           Exit",
	}
}

// nonEmpty drops empty lines.
func nonEmpty(lines ...string) []string {
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// query is a creature description parsed from command arguments.
type query struct {
	creature *pkm.Creature
	source   types.GameVersion
	notes    []string
}

// parseQuery reads "<species> <level> [key=value...] [nomet]".
func (s *Session) parseQuery(args []string) (*query, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("need a species and a level")
	}
	q := &query{}
	sp, n, err := s.species(args[0])
	if err != nil {
		return nil, err
	}
	q.notes = append(q.notes, n)
	level, err := strconv.Atoi(args[1])
	if err != nil || level < 1 || level > 100 {
		return nil, fmt.Errorf("level must be 1..100, got %q", args[1])
	}

	c := &pkm.Creature{
		Species:      sp,
		CurrentLevel: level,
		MetLevel:     level,
		Version:      s.Version,
		Language:     s.Trainer.Language,
		TID:          s.Trainer.TID,
		SID:          s.Trainer.SID,
		OTName:       s.Trainer.OT,
		OTGender:     s.Trainer.Gender,
	}
	nomet, format := false, 0
	for _, arg := range args[2:] {
		if arg == "nomet" {
			nomet = true
			continue
		}
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("unexpected argument %q", arg)
		}
		switch key {
		case "version", "from":
			v, n, err := gameVersion(val)
			if err != nil {
				return nil, err
			}
			q.notes = append(q.notes, n)
			if key == "from" {
				q.source = v
			} else {
				c.Version = v
			}
		default:
			num, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("%s must be a number, got %q", key, val)
			}
			switch key {
			case "met":
				c.MetLevel = num
			case "loc":
				c.MetLocation = num
			case "form":
				c.Form = num
			case "ability":
				c.AbilityNumber = num
			case "nature":
				c.Nature = types.Nature(num)
			case "format":
				format = num
			default:
				return nil, fmt.Errorf("unknown option %q", key)
			}
		}
	}

	if c.Version == types.Any && q.source != types.Any {
		c.Version = q.source
	}
	if members := version.Members(c.Version); version.IsGroup(c.Version) && len(members) > 0 {
		c.Version = members[0]
	}
	gen := version.Generation(c.Version)
	if gen == 0 {
		return nil, fmt.Errorf("need a game: pass version=V or set one with /version")
	}
	c.Format = gen
	if format != 0 {
		c.Format = format
	}
	if nomet {
		c.MetLevel, c.MetLocation = 0, 0
	}
	q.creature = c
	return q, nil
}

func (s *Session) cmdChain(args []string) (Result, error) {
	q, err := s.parseQuery(args)
	if err != nil {
		return Result{}, err
	}
	chain, err := s.Engine.Chain(q.creature.View(), q.source)
	if err != nil {
		return Result{Output: nonEmpty(q.notes...)}, err
	}
	out := nonEmpty(q.notes...)
	for _, e := range chain {
		out = append(out, fmt.Sprintf("%s L%d-%d", s.label(e.Species, e.Form), e.MinLevel, e.Level))
	}
	s.last = q.creature
	return Result{Output: out}, nil
}

func (s *Session) cmdMatch(ctx context.Context, args []string) (Result, error) {
	q, err := s.parseQuery(args)
	if err != nil {
		return Result{}, err
	}
	r, err := s.analyze(ctx, q.creature, q.source)
	r.Output = append(nonEmpty(q.notes...), r.Output...)
	return r, err
}

func (s *Session) cmdAnalyze(ctx context.Context, args []string) (Result, error) {
	pk := s.last
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return Result{}, err
		}
		pk, err = export.LoadCreature(data, export.FormatFor(args[0]))
		if err != nil {
			return Result{}, fmt.Errorf("load %s: %w", args[0], err)
		}
	}
	if pk == nil {
		return Result{}, fmt.Errorf("no creature yet: synth one or pass a file")
	}
	return s.analyze(ctx, pk, types.Any)
}

// analyze matches pk and remembers it with its analysis.
func (s *Session) analyze(ctx context.Context, pk *pkm.Creature, source types.GameVersion) (Result, error) {
	a, err := s.Engine.Analyze(ctx, pk.View(), source)
	if err != nil {
		return Result{}, err
	}
	s.last, s.analysis = pk, a

	var r Result
	switch len(a.Matches) {
	case 0:
		r.Output = append(r.Output, fmt.Sprintf("No encounters for %s L%d in %s.", s.label(pk.Species, pk.Form), pk.CurrentLevel, version.Name(pk.Version)))
	default:
		r.Output = append(r.Output, fmt.Sprintf("%d encounter(s) for %s L%d in %s:", len(a.Matches), s.label(pk.Species, pk.Form), pk.CurrentLevel, version.Name(pk.Version)))
		for _, m := range a.Matches {
			r.Output = append(r.Output, "  "+describe(m))
		}
	}
	if a.TableErr != nil {
		r.Output = append(r.Output, fmt.Sprintf("(tables unavailable: %v)", a.TableErr))
	}
	if s.Trace {
		r.Trace = trace(a)
	}
	return r, nil
}

// describe renders one match.
func describe(m match.Match) string {
	line := encounter.String(m.Template)
	if sl, ok := m.Template.(*encounter.Slot); ok {
		line += " " + encounter.MethodName(sl.Area.Method)
		if sl.Area.Swarm {
			line += " (swarm)"
		}
	}
	line += ": " + m.Describe()
	if m.Deferred {
		line += " (deferred)"
	}
	return line
}

// trace lists every candidate with its decision.
func trace(a *engine.Analysis) []string {
	matched := make(map[encounter.Template]match.Match, len(a.Matches))
	for _, m := range a.Matches {
		matched[m.Template] = m
	}
	lines := []string{fmt.Sprintf("[trace] chain: %v", a.Chain), fmt.Sprintf("[trace] candidates: %d", len(a.Candidates))}
	for _, t := range a.Candidates {
		decision := "no match"
		if m, ok := matched[t]; ok {
			decision = "match, boost " + m.Annotations.Boost.String()
			if m.Deferred {
				decision = "deferred match"
			}
		}
		lines = append(lines, fmt.Sprintf("[trace]   %s: %s", encounter.String(t), decision))
	}
	return lines
}

// label renders a species as "Name #N" with its form when non-zero.
func (s *Session) label(sp, form int) string {
	name := s.Engine.Species.Name(sp)
	if name == "" {
		name = "?"
	}
	if form != 0 {
		return fmt.Sprintf("%s #%d-%d", name, sp, form)
	}
	return fmt.Sprintf("%s #%d", name, sp)
}

// indexed is a template with its position among the templates of its kind.
type indexed struct {
	index int
	t     encounter.Template
}

// templates lists the templates of v numbered per kind.
func (s *Session) templates(v types.GameVersion) ([]indexed, error) {
	all, err := s.Engine.Templates(v, 0)
	if err != nil {
		return nil, err
	}
	counts := map[encounter.Kind]int{}
	out := make([]indexed, 0, len(all))
	for _, t := range all {
		k := t.Identity().Kind
		out = append(out, indexed{index: counts[k], t: t})
		counts[k]++
	}
	return out, nil
}

func (s *Session) cmdList(args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, fmt.Errorf("need a version")
	}
	v, n, err := gameVersion(args[0])
	if err != nil {
		return Result{}, err
	}
	notes := []string{n}

	sp, slotMethod := 0, types.SlotAny
	for _, arg := range args[1:] {
		if val, ok := strings.CutPrefix(arg, "method="); ok {
			m, n, err := method(val)
			if err != nil {
				return Result{}, err
			}
			slotMethod = m
			notes = append(notes, n)
			continue
		}
		id, n, err := s.species(arg)
		if err != nil {
			return Result{}, err
		}
		sp = id
		notes = append(notes, n)
	}

	ts, err := s.templates(v)
	if err != nil {
		return Result{}, err
	}
	out := nonEmpty(notes...)
	shown := 0
	for _, it := range ts {
		id := it.t.Identity()
		if sp != 0 && id.Species != sp {
			continue
		}
		line := fmt.Sprintf("  %s %d: %s %s", id.Kind, it.index, s.label(id.Species, id.Form), encounter.String(it.t))
		if sl, ok := it.t.(*encounter.Slot); ok {
			if slotMethod != types.SlotAny && sl.Area.Method != slotMethod {
				continue
			}
			line += " " + encounter.MethodName(sl.Area.Method)
		} else if slotMethod != types.SlotAny {
			continue
		}
		out = append(out, line)
		shown++
	}
	if shown == 0 {
		out = append(out, "No templates.")
	}
	return Result{Output: out}, nil
}

var kinds = map[string]encounter.Kind{
	"slot":   encounter.KindSlot,
	"static": encounter.KindStatic,
	"trade":  encounter.KindTrade,
}

func (s *Session) cmdSynth(args []string) (Result, error) {
	if len(args) < 3 {
		return Result{}, fmt.Errorf("usage: synth <version> <slot|static|trade> <index>")
	}
	v, n, err := gameVersion(args[0])
	if err != nil {
		return Result{}, err
	}
	kind, ok := kinds[strings.ToLower(args[1])]
	if !ok {
		return Result{}, fmt.Errorf("kind must be slot, static or trade, got %q", args[1])
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return Result{}, fmt.Errorf("index must be a number, got %q", args[2])
	}

	crit := types.Unrestricted
	for _, arg := range args[3:] {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return Result{}, fmt.Errorf("unexpected argument %q", arg)
		}
		switch key {
		case "gender":
			switch strings.ToLower(val) {
			case "male", "m":
				crit.Gender = types.GenderMale
			case "female", "f":
				crit.Gender = types.GenderFemale
			default:
				return Result{}, fmt.Errorf("gender must be male or female, got %q", val)
			}
		case "nature", "ability":
			num, err := strconv.Atoi(val)
			if err != nil {
				return Result{}, fmt.Errorf("%s must be a number, got %q", key, val)
			}
			if key == "nature" {
				crit.Nature = types.Nature(num)
			} else {
				crit.AbilityNumber = num
			}
		default:
			return Result{}, fmt.Errorf("unknown option %q", key)
		}
	}

	ts, err := s.templates(v)
	if err != nil {
		return Result{}, err
	}
	var t encounter.Template
	for _, it := range ts {
		if it.t.Identity().Kind == kind && it.index == index {
			t = it.t
			break
		}
	}
	if t == nil {
		return Result{}, fmt.Errorf("no %s %d in %s", kind, index, version.Name(v))
	}

	tr := s.Trainer
	tr.Game = types.Any
	if !version.IsGroup(v) {
		tr.Game = v
	}
	pk, err := s.Synth.Synthesize(t, tr, crit)
	if err != nil {
		return Result{}, err
	}
	s.last, s.analysis = pk, nil
	return Result{Output: append(nonEmpty(n), s.summary(pk)...)}, nil
}

// summary renders the fields of a creature worth reading at a glance.
func (s *Session) summary(pk *pkm.Creature) []string {
	shiny := ""
	if pk.IsShiny() {
		shiny = " *shiny*"
	}
	name := pk.Nickname
	if name == "" {
		name = s.Engine.Species.Name(pk.Species)
	}
	return []string{
		fmt.Sprintf("%s (%s) L%d%s", name, s.label(pk.Species, pk.Form), pk.CurrentLevel, shiny),
		fmt.Sprintf("  OT %s %05d/%05d, %s, language %d", pk.OTName, pk.TID, pk.SID, version.Name(pk.Version), pk.Language),
		fmt.Sprintf("  PID %08X  nature %d  gender %d  ability %d", pk.PID, pk.Nature, pk.Gender, pk.AbilityNumber),
		fmt.Sprintf("  IVs %v  moves %v", pk.IVs, pk.Moves),
		fmt.Sprintf("  met L%d at %d, ball %d", pk.MetLevel, pk.MetLocation, pk.Ball),
	}
}

func (s *Session) cmdExport(path string) Result {
	if path == "" {
		return system("Usage: /export <file>")
	}
	if s.last == nil {
		return system("Nothing to export yet.")
	}
	if err := write(path, export.FromCreature(s.last)); err != nil {
		return system("Export failed: " + err.Error())
	}
	return system("Creature written to " + path + ".")
}

func (s *Session) cmdReport(path string) Result {
	if path == "" {
		return system("Usage: /report <file>")
	}
	if s.analysis == nil {
		return system("Nothing analyzed yet.")
	}
	if err := write(path, export.NewReport(s.last, s.analysis)); err != nil {
		return system("Report failed: " + err.Error())
	}
	return system("Report written to " + path + ".")
}

func write(path string, v any) error {
	data, err := export.Encode(v, export.FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
