// Package encounter defines the three kinds of encounter template (wild
// slot, static encounter, in-game trade) and the predicates that decide
// whether a creature could have come from one of them.
//
// Templates are immutable once published in a table. Anything derived for a
// particular creature is returned as a fresh Annotations value.
package encounter

import (
	"fmt"

	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// FormAny on a template matches every form of its species.
const FormAny = 31

// Kind distinguishes the template variants.
type Kind int

const (
	KindSlot Kind = iota
	KindStatic
	KindTrade
)

func (k Kind) String() string {
	switch k {
	case KindSlot:
		return "slot"
	case KindStatic:
		return "static"
	case KindTrade:
		return "trade"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Identity is the summary every template can report about itself.
type Identity struct {
	Kind       Kind
	Species    int
	Form       int
	LevelMin   int
	LevelMax   int
	Location   int
	Version    types.GameVersion
	Generation int
}

// Template is implemented by *Slot, *Static and *Trade only.
type Template interface {
	Identity() Identity
	// IsMatch reports whether the creature could have come from this
	// template at the given evolution stage. It never mutates anything.
	IsMatch(v pkm.View, evo types.EvoCriteria) bool
	// IsMatchDeferred reports a match that is valid but expected to fail
	// an unrelated check later on. Only static encounters defer.
	IsMatchDeferred(v pkm.View) bool

	sealed()
}

// String renders a one-line description of t for listings.
func String(t Template) string {
	id := t.Identity()
	lv := fmt.Sprintf("L%d", id.LevelMin)
	if id.LevelMax > id.LevelMin {
		lv = fmt.Sprintf("L%d-%d", id.LevelMin, id.LevelMax)
	}
	form := ""
	if id.Form != 0 {
		form = fmt.Sprintf("-%d", id.Form)
	}
	return fmt.Sprintf("%s #%d%s %s @%d [%s]", id.Kind, id.Species, form, lv, id.Location, version.Name(id.Version))
}

// formMatches reports whether a template form accepts the node's form.
func formMatches(form, evoForm int) bool {
	return form == evoForm || form == FormAny
}

// ivsMatch compares a fixed IV template against actual IVs. Entries of -1
// are unconstrained.
func ivsMatch(template []int, ivs [6]int) bool {
	if len(template) == 0 {
		return true
	}
	for i, iv := range template {
		if i >= len(ivs) {
			break
		}
		if iv >= 0 && iv != ivs[i] {
			return false
		}
	}
	return true
}

// shinyMatches checks a random-PID shiny policy.
func shinyMatches(policy types.Shiny, shiny bool) bool {
	switch policy {
	case types.ShinyNever:
		return !shiny
	case types.ShinyAlways:
		return shiny
	default:
		return true
	}
}

// DefaultMetLocation is the met location a generation stamps on trades
// without an explicit location.
func DefaultMetLocation(gen int) int {
	switch gen {
	case 2:
		return 126
	case 3:
		return 254
	case 4:
		return 2001
	case 5:
		return 30003
	}
	if gen >= 6 {
		return 30001
	}
	return 0
}
