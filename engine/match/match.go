// Package match intersects an evolution chain with candidate templates.
// Confident matches come first in candidate order, then deferred ones, also
// in candidate order.
package match

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/nathoo/encounterdex/engine/encounter"
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/types"
)

// Match is one template the creature could have come from.
type Match struct {
	Template    encounter.Template
	Evo         types.EvoCriteria
	Annotations encounter.Annotations
	Deferred    bool
}

// Describe returns the condition string of the match.
func (m Match) Describe() string { return m.Annotations.Describe() }

// Matcher matches creatures against templates. The zero value treats no
// species as form-changeable.
type Matcher struct {
	Forms species.FormChanges
}

// All returns the matches of v lazily. The sequence can be ranged over more
// than once and yields the same matches each time. Stop ranging to abandon
// the search.
func (m *Matcher) All(v pkm.View, chain []types.EvoCriteria, candidates []encounter.Template) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		var deferred []Match
		for _, t := range candidates {
			mt, ok := m.evaluate(v, chain, t)
			if !ok {
				continue
			}
			if mt.Deferred {
				deferred = append(deferred, mt)
				continue
			}
			if !yield(mt) {
				return
			}
		}
		for _, mt := range deferred {
			if !yield(mt) {
				return
			}
		}
	}
}

// evaluate tests t against each chain node, most evolved first, and stops at
// the first node that matches.
func (m *Matcher) evaluate(v pkm.View, chain []types.EvoCriteria, t encounter.Template) (Match, bool) {
	id := t.Identity()
	for _, evo := range chain {
		if evo.Species != id.Species {
			continue
		}
		node := m.normalize(v, evo, id)
		if !t.IsMatch(v, node) {
			continue
		}
		a, ok := encounter.Evaluate(t, v, node)
		if !ok {
			continue
		}
		return Match{
			Template:    t,
			Evo:         node,
			Annotations: a,
			Deferred:    t.IsMatchDeferred(v),
		}, true
	}
	return Match{}, false
}

// normalize returns the node with its form replaced by the template's when
// the species could have changed form since the encounter.
func (m *Matcher) normalize(v pkm.View, evo types.EvoCriteria, id encounter.Identity) types.EvoCriteria {
	if id.Form == evo.Form || id.Form == encounter.FormAny || m.Forms == nil {
		return evo
	}
	if m.Forms.IsFormChangeable(evo.Species, evo.Form, v.Format()) {
		evo.Form = id.Form
	}
	return evo
}

// Parallel evaluates candidates across workers and returns the same matches
// in the same order as All. The context only governs the worker group.
func (m *Matcher) Parallel(ctx context.Context, v pkm.View, chain []types.EvoCriteria, candidates []encounter.Template, workers int) ([]Match, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Match, len(candidates))
	found := make([]bool, len(candidates))

	chunk := (len(candidates) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(candidates); start += chunk {
		end := min(start+chunk, len(candidates))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				results[i], found[i] = m.evaluate(v, chain, candidates[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var confident, deferred []Match
	for i, ok := range found {
		if !ok {
			continue
		}
		if results[i].Deferred {
			deferred = append(deferred, results[i])
		} else {
			confident = append(confident, results[i])
		}
	}
	return append(confident, deferred...), nil
}
