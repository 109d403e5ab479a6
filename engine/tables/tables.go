// Package tables owns the per-game encounter tables. Each version group is
// built once, on first access, from its packed area resources and template
// lists, and is read-only afterwards.
package tables

import (
	"fmt"
	"sync"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pack"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// Resource is a packed area container for one concrete version.
type Resource struct {
	Data  []byte
	Ident string
}

// Source is the raw input for one version group.
type Source struct {
	Group      types.GameVersion
	Generation int
	Boost      *encounter.BoostPolicy
	Resources  map[types.GameVersion]Resource
	Statics    []*encounter.Static
	Trades     []*encounter.Trade
	Rare       []RareSpawn
	Swarms     []SwarmMoves
}

// Tables are the templates available to one version.
type Tables struct {
	Areas   []*encounter.Area
	Statics []*encounter.Static
	Trades  []*encounter.Trade
}

// Candidates flattens t into templates: slots first, then statics, then
// trades, each in table order.
func (t *Tables) Candidates() []encounter.Template {
	if t == nil {
		return nil
	}
	var out []encounter.Template
	for _, a := range t.Areas {
		for _, s := range a.Slots {
			out = append(out, s)
		}
	}
	for _, s := range t.Statics {
		out = append(out, s)
	}
	for _, tr := range t.Trades {
		out = append(out, tr)
	}
	return out
}

// Len returns the number of templates in t.
func (t *Tables) Len() int {
	if t == nil {
		return 0
	}
	n := len(t.Statics) + len(t.Trades)
	for _, a := range t.Areas {
		n += len(a.Slots)
	}
	return n
}

// Options configure an Index.
type Options struct {
	// Unpacker decodes area resources. Defaults to pack.Linker.
	Unpacker pack.Unpacker
	// AllowGBCartEra keeps templates of the Game Boy era side games.
	AllowGBCartEra bool
}

// Index serves tables by version. It is safe for concurrent use.
type Index struct {
	opts    Options
	sources []*Source
	groups  map[types.GameVersion]*group
}

type group struct {
	src    *Source
	once   sync.Once
	tables map[types.GameVersion]*Tables
	err    error
}

// NewIndex returns an index over sources. Nothing is decoded until the
// first query touching a group.
func NewIndex(sources []*Source, opts Options) *Index {
	if opts.Unpacker == nil {
		opts.Unpacker = pack.Linker{}
	}
	ix := &Index{opts: opts, groups: map[types.GameVersion]*group{}}
	for _, src := range sources {
		ix.sources = append(ix.sources, src)
		ix.groups[src.Group] = &group{src: src}
	}
	return ix
}

// groupFor returns the group whose versions cover v.
func (ix *Index) groupFor(v types.GameVersion) *group {
	if g, ok := ix.groups[v]; ok {
		return g
	}
	for _, src := range ix.sources {
		if version.Contains(src.Group, v) {
			return ix.groups[src.Group]
		}
	}
	return nil
}

func (g *group) load(unpacker pack.Unpacker) {
	g.once.Do(func() {
		g.tables, g.err = build(g.src, unpacker)
	})
}

// For returns the tables of v. A group version returns the union of its
// members. Versions with no source, or whose group failed to build, get
// empty tables.
func (ix *Index) For(v types.GameVersion) *Tables {
	members := version.Members(v)
	if len(members) == 1 {
		return ix.concrete(members[0])
	}
	out := &Tables{}
	seenStatic := map[*encounter.Static]bool{}
	seenTrade := map[*encounter.Trade]bool{}
	for _, m := range members {
		t := ix.concrete(m)
		out.Areas = append(out.Areas, t.Areas...)
		for _, s := range t.Statics {
			if !seenStatic[s] {
				seenStatic[s] = true
				out.Statics = append(out.Statics, s)
			}
		}
		for _, tr := range t.Trades {
			if !seenTrade[tr] {
				seenTrade[tr] = true
				out.Trades = append(out.Trades, tr)
			}
		}
	}
	return out
}

func (ix *Index) concrete(v types.GameVersion) *Tables {
	g := ix.groupFor(v)
	if g == nil {
		return &Tables{}
	}
	g.load(ix.opts.Unpacker)
	if g.err != nil {
		return &Tables{}
	}
	if t, ok := g.tables[v]; ok {
		return t
	}
	return &Tables{}
}

// Err returns the build error of v's group, building it if needed.
func (ix *Index) Err(v types.GameVersion) error {
	for _, m := range version.Members(v) {
		g := ix.groupFor(m)
		if g == nil {
			continue
		}
		g.load(ix.opts.Unpacker)
		if g.err != nil {
			return g.err
		}
	}
	return nil
}

// Groups returns the version groups the index has sources for.
func (ix *Index) Groups() []types.GameVersion {
	out := make([]types.GameVersion, 0, len(ix.sources))
	for _, src := range ix.sources {
		out = append(out, src.Group)
	}
	return out
}

// Select returns the tables a creature from source could have come from.
// A source of types.Any means the creature's own version.
func (ix *Index) Select(v pkm.View, source types.GameVersion) *Tables {
	if source == types.Any {
		source = v.Version()
	}
	if source == types.Any {
		return &Tables{}
	}
	if version.Contains(types.GSC, source) {
		source = gscSource(v)
	}
	t := ix.For(source)
	if ix.opts.AllowGBCartEra {
		return t
	}
	return withoutGBCartEra(t)
}

// gscSource picks the gen 2 table. Korean cartridges never had Crystal.
// A creature still in a gen 2 record with caught data must be from Crystal;
// everything else could be from any of the three.
func gscSource(v pkm.View) types.GameVersion {
	switch {
	case v.Language() == types.Korean:
		return types.GS
	case v.Format() != 2:
		return types.GSC
	case v.HasOriginalMetLocation():
		return types.C
	default:
		return types.GSC
	}
}

func withoutGBCartEra(t *Tables) *Tables {
	out := &Tables{Areas: t.Areas}
	for _, s := range t.Statics {
		if !version.Contains(types.GBCartEraOnly, s.Version) {
			out.Statics = append(out.Statics, s)
		}
	}
	for _, tr := range t.Trades {
		if !version.Contains(types.GBCartEraOnly, tr.Version) {
			out.Trades = append(out.Trades, tr)
		}
	}
	return out
}

// build decodes and publishes every concrete version of src.
func build(src *Source, unpacker pack.Unpacker) (map[types.GameVersion]*Tables, error) {
	out := map[types.GameVersion]*Tables{}
	for _, v := range version.Members(src.Group) {
		t := &Tables{}
		if res, ok := src.Resources[v]; ok {
			raws, err := unpacker.Unpack(res.Data, res.Ident)
			if err != nil {
				return nil, fmt.Errorf("build %s tables: %w", version.Name(v), err)
			}
			for i, raw := range raws {
				a, err := DecodeArea(raw, v, src.Generation, src.Boost)
				if err != nil {
					return nil, fmt.Errorf("build %s area %d: %w", version.Name(v), i, err)
				}
				t.Areas = append(t.Areas, a)
			}
			augment(t.Areas, src.Rare)
			applySwarmMoves(t.Areas, src.Swarms)
		}
		for _, s := range src.Statics {
			if s.Version == types.Any || version.Receives(s.Version, v) {
				t.Statics = append(t.Statics, s)
			}
		}
		for _, tr := range src.Trades {
			if tr.Version == types.Any || version.Receives(tr.Version, v) {
				t.Trades = append(t.Trades, tr)
			}
		}
		out[v] = t
	}
	return out, nil
}

