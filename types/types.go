// Package types defines the shared data structures for the encounter engine.
// This package contains only type definitions and constants, no logic.
package types

// GameVersion identifies a concrete game or a group of games.
// Concrete values follow the origin-version ids stored in creature records.
type GameVersion int

// Concrete games.
const (
	Any GameVersion = 0

	S  GameVersion = 1
	R  GameVersion = 2
	E  GameVersion = 3
	FR GameVersion = 4
	LG GameVersion = 5
	HG GameVersion = 7
	SS GameVersion = 8
	D  GameVersion = 10
	P  GameVersion = 11
	Pt GameVersion = 12

	CXD GameVersion = 15

	W  GameVersion = 20
	B  GameVersion = 21
	W2 GameVersion = 22
	B2 GameVersion = 23
	X  GameVersion = 24
	Y  GameVersion = 25
	AS GameVersion = 26
	OR GameVersion = 27
	SN GameVersion = 30
	MN GameVersion = 31
	US GameVersion = 32
	UM GameVersion = 33
	GO GameVersion = 34
	RD GameVersion = 35
	GN GameVersion = 36
	BU GameVersion = 37
	YW GameVersion = 38
	GD GameVersion = 39
	SV GameVersion = 40
	C  GameVersion = 41
	GP GameVersion = 42
	GE GameVersion = 43
	SW GameVersion = 44
	SH GameVersion = 45

	// Stadium and Stadium2 are side games that handed out gifts to cartridges.
	Stadium  GameVersion = 60
	Stadium2 GameVersion = 61
)

// Version groups. A group never appears in a creature record; templates use
// them to cover several concrete games at once.
const (
	RBY GameVersion = iota + 100
	GS
	GSC
	RS
	RSE
	FRLG
	DP
	DPPt
	HGSS
	BW
	B2W2
	XY
	ORAS
	SM
	USUM
	GG
	SWSH
	GBCartEraOnly
)

// SlotType is the base method by which a wild slot is encountered.
// The swarm modifier is carried separately on the owning area.
type SlotType uint8

const (
	SlotAny SlotType = iota
	Grass
	Surf
	OldRod
	GoodRod
	SuperRod
	RockSmash
	Headbutt
	HoneyTree
	BugContest
	HiddenGrotto
	GoPark
	FriendSafari
	Horde
	_ // radar, retired
	SOS
)

// Shiny is the shiny policy of a fixed encounter.
type Shiny int

const (
	ShinyRandom Shiny = iota
	ShinyNever
	ShinyAlways
	ShinyFixedValue
)

// Nature is one of the 25 natures. NatureRandom means unspecified.
type Nature int

const NatureRandom Nature = 25

// LanguageID is the language value stored in creature records.
type LanguageID int

const (
	LanguageHacked   LanguageID = 0
	Japanese         LanguageID = 1
	English          LanguageID = 2
	French           LanguageID = 3
	Italian          LanguageID = 4
	German           LanguageID = 5
	LanguageUnused6  LanguageID = 6
	Spanish          LanguageID = 7
	Korean           LanguageID = 8
	ChineseSimple    LanguageID = 9
	ChineseTrad      LanguageID = 10
	LanguageAny      LanguageID = -1
	LanguageCount               = 11
)

// Gender values. GenderRandom leaves the choice to the generator.
const (
	GenderRandom     = -1
	GenderMale       = 0
	GenderFemale     = 1
	GenderGenderless = 2
)

// EvoCriteria is one possible species/form/level state in a creature's
// history. MinLevel is the lowest level the state could have been met at,
// Level the highest.
type EvoCriteria struct {
	Species  int
	Form     int
	MinLevel int
	Level    int
}

// TrainerInfo is the trainer a synthesized creature is generated for.
type TrainerInfo struct {
	OT       string
	Gender   int
	TID      int
	SID      int
	Game     GameVersion // Any lets the template pick its first version
	Language LanguageID
}

// Criteria constrains the random choices made during synthesis.
type Criteria struct {
	Gender        int    // GenderRandom for no preference
	Nature        Nature // NatureRandom for no preference
	AbilityNumber int    // 0 for no preference, else 1, 2 or 4
}

// Unrestricted places no constraints on synthesis.
var Unrestricted = Criteria{Gender: GenderRandom, Nature: NatureRandom}
