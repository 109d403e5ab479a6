// Package pkm holds the creature instance produced by synthesis and the
// read-only view the matcher consumes. Record byte layouts live elsewhere;
// this package only deals in typed fields.
package pkm

import (
	"time"

	"github.com/nathoo/encounterdex/engine/version"
	"github.com/nathoo/encounterdex/types"
)

// View is the read-only creature surface the resolver and matcher use.
type View interface {
	Species() int
	Form() int
	CurrentLevel() int
	MetLevel() int
	MetLocation() int
	EggLocation() int
	HasOriginalMetLocation() bool
	IsEgg() bool
	Version() types.GameVersion
	Language() types.LanguageID
	Format() int
	Generation() int
	PID() uint32
	EncryptionConstant() uint32
	IVs() [6]int
	Nature() types.Nature
	Gender() int
	AbilityNumber() int
	TID() int
	SID() int
	OTGender() int
	RelearnMove1() int
	IsShiny() bool
}

// Creature is a mutable creature instance. Format is the generation of the
// record layout it would be serialized into.
type Creature struct {
	Species      int
	Form         int
	CurrentLevel int
	Format       int
	Version      types.GameVersion
	Language     types.LanguageID

	Nickname    string
	IsNicknamed bool
	OTName      string
	OTGender    int
	TID         int
	SID         int

	PID                uint32
	EncryptionConstant uint32
	IVs                [6]int
	Nature             types.Nature
	Gender             int
	AbilityNumber      int
	Ability            int

	Moves        [4]int
	RelearnMoves [4]int

	MetLevel    int
	MetLocation int
	MetDate     time.Time
	EggLocation int
	EggMetDate  time.Time
	IsEgg       bool

	Ball             int
	OTFriendship     int
	FatefulEncounter bool
	NSparkle         bool
	VirtualConsole   bool

	CurrentHandler int
	HTName         string
	HTGender       int
	OTMemory       int
	OTIntensity    int
	OTFeeling      int
}

// View returns a read-only view over c. The view reads through to c, so
// later writes to c are visible.
func (c *Creature) View() View { return view{c} }

// Generation is the generation the creature originated in, derived from its
// origin version. Records without a known version report their format.
func (c *Creature) Generation() int {
	if g := version.Generation(c.Version); g != 0 {
		return g
	}
	return c.Format
}

// HasOriginalMetLocation reports whether the met data still describes the
// original encounter. Transfers across the gen 3/4/5 boundaries overwrite
// it, gen 1 never had it, and gen 2 only has it when caught data was kept.
func (c *Creature) HasOriginalMetLocation() bool {
	switch {
	case c.Format == 2:
		return c.MetLevel != 0
	case c.Format < 3, c.VirtualConsole:
		return false
	}
	gen := c.Generation()
	return !(gen <= 4 && c.Format != gen)
}

// IsShiny reports whether the PID is shiny for the creature's trainer.
func (c *Creature) IsShiny() bool {
	return IsShinyPID(c.PID, c.TID, c.SID, c.Format)
}

type view struct{ c *Creature }

func (v view) Species() int                 { return v.c.Species }
func (v view) Form() int                    { return v.c.Form }
func (v view) CurrentLevel() int            { return v.c.CurrentLevel }
func (v view) MetLevel() int                { return v.c.MetLevel }
func (v view) MetLocation() int             { return v.c.MetLocation }
func (v view) EggLocation() int             { return v.c.EggLocation }
func (v view) HasOriginalMetLocation() bool { return v.c.HasOriginalMetLocation() }
func (v view) IsEgg() bool                  { return v.c.IsEgg }
func (v view) Version() types.GameVersion   { return v.c.Version }
func (v view) Language() types.LanguageID   { return v.c.Language }
func (v view) Format() int                  { return v.c.Format }
func (v view) Generation() int              { return v.c.Generation() }
func (v view) PID() uint32                  { return v.c.PID }
func (v view) EncryptionConstant() uint32   { return v.c.EncryptionConstant }
func (v view) IVs() [6]int                  { return v.c.IVs }
func (v view) Nature() types.Nature         { return v.c.Nature }
func (v view) Gender() int                  { return v.c.Gender }
func (v view) AbilityNumber() int           { return v.c.AbilityNumber }
func (v view) TID() int                     { return v.c.TID }
func (v view) SID() int                     { return v.c.SID }
func (v view) OTGender() int                { return v.c.OTGender }
func (v view) RelearnMove1() int            { return v.c.RelearnMoves[0] }
func (v view) IsShiny() bool                { return v.c.IsShiny() }
