package encounter

import (
	"github.com/nathoo/encounterdex/engine/pkm"
	"github.com/nathoo/encounterdex/types"
)

// Trade is an in-game trade. Nature, Gender and OTGender must be set to
// their random values (types.NatureRandom, types.GenderRandom, -1) when
// unconstrained.
type Trade struct {
	Species      int
	Form         int
	Level        int
	CurrentLevel int // minimum level on receipt when above Level, else 0
	Version      types.GameVersion
	Generation   int

	Location    int // 0 for the generation's default trade location
	EggLocation int

	Ability int
	Nature  types.Nature
	Gender  int
	Shiny   types.Shiny
	PID     uint32 // used when Shiny is ShinyFixedValue

	TID      int
	SID      int
	OTGender int

	IVs             []int
	FlawlessIVCount int

	Moves         [4]int
	Ball          int
	EvolveOnTrade bool
	Fateful       bool
	IsNicknamed   bool

	// Nicknames and TrainerNames are indexed by types.LanguageID.
	Nicknames    []string
	TrainerNames []string
}

// SetTID7 sets TID and SID from a seven-digit trainer id.
func (t *Trade) SetTID7(id int) {
	t.TID = id & 0xFFFF
	t.SID = id >> 16
}

// Nickname returns the localized nickname, or "" when absent.
func (t *Trade) Nickname(lang types.LanguageID) string {
	if lang < 0 || int(lang) >= len(t.Nicknames) {
		return ""
	}
	return t.Nicknames[lang]
}

// OT returns the localized trainer name, or "" when absent.
func (t *Trade) OT(lang types.LanguageID) string {
	if lang < 0 || int(lang) >= len(t.TrainerNames) {
		return ""
	}
	return t.TrainerNames[lang]
}

// HasNickname reports whether the trade applies a localized nickname.
func (t *Trade) HasNickname() bool { return len(t.Nicknames) != 0 && t.IsNicknamed }

// HasTrainerName reports whether the trade has localized trainer names.
func (t *Trade) HasTrainerName() bool { return len(t.TrainerNames) != 0 }

// MetLocation is the location stamped on a received trade.
func (t *Trade) MetLocation() int {
	if t.Location > 0 {
		return t.Location
	}
	return DefaultMetLocation(t.Generation)
}

func (*Trade) sealed() {}

// Identity implements Template.
func (t *Trade) Identity() Identity {
	return Identity{
		Kind:       KindTrade,
		Species:    t.Species,
		Form:       t.Form,
		LevelMin:   t.Level,
		LevelMax:   t.Level,
		Location:   t.MetLocation(),
		Version:    t.Version,
		Generation: t.Generation,
	}
}

// IsMatch implements Template.
func (t *Trade) IsMatch(v pkm.View, evo types.EvoCriteria) bool {
	if t.Species != evo.Species || !formMatches(t.Form, evo.Form) {
		return false
	}
	if !ivsMatch(t.IVs, v.IVs()) {
		return false
	}
	if !t.identityMatches(v) {
		return false
	}
	if t.TID != v.TID() || t.SID != v.SID() {
		return false
	}
	if !t.levelMatches(v, evo) {
		return false
	}
	if t.CurrentLevel > 0 && t.CurrentLevel > v.CurrentLevel() {
		return false
	}
	if t.OTGender != -1 && t.OTGender != v.OTGender() {
		return false
	}
	if t.EggLocation != v.EggLocation() {
		return false
	}
	return versionAllows(t.Version, v.Version())
}

// identityMatches checks shiny, gender and nature. A fixed PID replaces all
// three: the creature's encryption constant must equal it.
func (t *Trade) identityMatches(v pkm.View) bool {
	if t.Shiny == types.ShinyFixedValue {
		return v.EncryptionConstant() == t.PID
	}
	if !shinyMatches(t.Shiny, v.IsShiny()) {
		return false
	}
	if t.Gender != types.GenderRandom && t.Gender != v.Gender() {
		return false
	}
	return t.Nature == types.NatureRandom || v.Nature() == t.Nature
}

func (t *Trade) levelMatches(v pkm.View, evo types.EvoCriteria) bool {
	if !v.HasOriginalMetLocation() {
		return t.Level <= evo.Level
	}
	if v.MetLocation() != t.MetLocation() {
		return false
	}
	if v.Format() < 5 {
		return t.Level <= evo.Level
	}
	return t.Level == v.MetLevel()
}

// IsMatchDeferred implements Template. Trades never defer.
func (*Trade) IsMatchDeferred(pkm.View) bool { return false }
