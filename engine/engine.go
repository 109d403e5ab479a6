// Package engine wires species data, encounter tables, the evolution chain
// resolver and the matcher into a single entry point that answers where a
// creature could have come from.
package engine

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/evo"
	"github.com/nathoo/encounterdex/engine/match"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/synth"
	"github.com/nathoo/encounterdex/engine/tables"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/loader"
	"github.com/nathoo/encounterdex/types"
)

// Options configure an Engine.
type Options struct {
	// AllowGBCartEra keeps Stadium gifts among the candidates.
	AllowGBCartEra bool
	// Workers above 1 evaluates candidates concurrently.
	Workers int
}

// Engine holds the immutable encounter data and the services built on it.
// It is safe for concurrent use.
type Engine struct {
	Species *species.Table
	Index   *tables.Index
	Chains  *evo.Resolver
	Matcher *match.Matcher

	opts Options
}

// Analysis is the result of matching one creature.
type Analysis struct {
	Source     types.GameVersion
	Chain      []types.EvoCriteria
	Candidates []encounter.Template
	Matches    []match.Match
	// TableErr is set when the source's tables failed to build. The
	// analysis is then empty: no template is feasible.
	TableErr error
}

// Matched reports whether t is among the matches.
func (a *Analysis) Matched(t encounter.Template) bool {
	for _, m := range a.Matches {
		if m.Template == t {
			return true
		}
	}
	return false
}

// New creates an engine over the given species table and encounter sources.
func New(sp *species.Table, sources []*tables.Source, opts Options) *Engine {
	return &Engine{
		Species: sp,
		Index:   tables.NewIndex(sources, tables.Options{AllowGBCartEra: opts.AllowGBCartEra}),
		Chains:  evo.NewResolver(sp),
		Matcher: &match.Matcher{Forms: sp},
		opts:    opts,
	}
}

var embeddedData = sync.OnceValues(loader.Embedded)

// Default creates an engine over the data compiled into the binary. The
// data is loaded once per process.
func Default(opts Options) (*Engine, error) {
	data, err := embeddedData()
	if err != nil {
		return nil, fmt.Errorf("loading embedded data: %w", err)
	}
	return New(data.Species, data.Sources, opts), nil
}

// FromDir creates an engine over the .lua data files in dir.
func FromDir(dir string, opts Options) (*Engine, error) {
	data, err := loader.Load(dir)
	if err != nil {
		return nil, err
	}
	return New(data.Species, data.Sources, opts), nil
}

// Chain resolves the origin chain of v. Creatures from the first two
// generations use the legacy rules of their era. A concrete source decides
// the era over the creature's own version.
func (e *Engine) Chain(v pkm.View, source types.GameVersion) ([]types.EvoCriteria, error) {
	gen := v.Generation()
	if g := version.Generation(source); source != types.Any && g != 0 {
		gen = g
	}
	switch gen {
	case 1:
		return e.Chains.ResolveLegacy(v, types.RBY)
	case 2:
		return e.Chains.ResolveLegacy(v, types.GSC)
	}
	return e.Chains.Resolve(v)
}

// candidates returns the templates v could have come from. When the
// source's tables failed to build there are none, and the build error is
// returned alongside.
func (e *Engine) candidates(v pkm.View, source types.GameVersion) ([]encounter.Template, error) {
	lookup := source
	if lookup == types.Any {
		lookup = v.Version()
	}
	if err := e.Index.Err(lookup); err != nil {
		return nil, err
	}
	return e.Index.Select(v, source).Candidates(), nil
}

// Analyze resolves the chain of v and matches it against every template of
// source. A source of types.Any means the creature's own version.
func (e *Engine) Analyze(ctx context.Context, v pkm.View, source types.GameVersion) (*Analysis, error) {
	chain, err := e.Chain(v, source)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	cands, tableErr := e.candidates(v, source)
	a := &Analysis{Source: source, Chain: chain, Candidates: cands, TableErr: tableErr}
	if e.opts.Workers > 1 {
		a.Matches, err = e.Matcher.Parallel(ctx, v, chain, cands, e.opts.Workers)
		if err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		return a, nil
	}
	a.Matches = slices.Collect(e.Matcher.All(v, chain, cands))
	return a, nil
}

// All returns the matches of v lazily. Callers that only need the first
// match stop ranging early. A source whose tables failed to build yields
// nothing; Index.Err reports why.
func (e *Engine) All(v pkm.View, source types.GameVersion) (iter.Seq[match.Match], error) {
	chain, err := e.Chain(v, source)
	if err != nil {
		return nil, err
	}
	cands, _ := e.candidates(v, source)
	return e.Matcher.All(v, chain, cands), nil
}

// Templates lists the templates published for v, limited to sp when it is
// non-zero.
func (e *Engine) Templates(v types.GameVersion, sp int) ([]encounter.Template, error) {
	if err := e.Index.Err(v); err != nil {
		return nil, err
	}
	all := e.Index.For(v).Candidates()
	if sp == 0 {
		return all, nil
	}
	var out []encounter.Template
	for _, t := range all {
		if t.Identity().Species == sp {
			out = append(out, t)
		}
	}
	return out, nil
}

// NewSynthesizer returns a synthesizer over the engine's species data.
func (e *Engine) NewSynthesizer(src synth.Source) *synth.Synthesizer {
	return synth.New(e.Species, src)
}
