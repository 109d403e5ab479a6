package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Species { {...}, {...} }
	L.SetGlobal("Species", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.ForEach(func(_, v lua.LValue) {
			if entry, ok := v.(*lua.LTable); ok {
				coll.species = append(coll.species, rawSpecies{file: coll.file, table: entry})
			}
		})
		return 0
	}))

	// Game "ORAS" { ... } is curried and opens the group that following
	// declarations in the file belong to.
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		group := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			g := &rawGame{group: group, file: coll.file, table: tbl}
			coll.games = append(coll.games, g)
			coll.current = g
			return 0
		}))
		return 1
	}))

	// Area "OR" { location = 5, method = "RockSmash", slots = {...} }
	L.SetGlobal("Area", L.NewFunction(func(L *lua.LState) int {
		ver := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			g := coll.game(L, "Area")
			g.areas = append(g.areas, rawArea{version: ver, table: tbl})
			return 0
		}))
		return 1
	}))

	// Static { species = 144, level = 50, ... }
	L.SetGlobal("Static", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		g := coll.game(L, "Static")
		g.statics = append(g.statics, tbl)
		return 0
	}))

	// Trade { species = 19, form = 1, level = 12, ... }
	L.SetGlobal("Trade", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		g := coll.game(L, "Trade")
		g.trades = append(g.trades, tbl)
		return 0
	}))

	// Rare { species = 6, locations = {...}, flying = true }
	L.SetGlobal("Rare", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		g := coll.game(L, "Rare")
		g.rare = append(g.rare, tbl)
		return 0
	}))

	// Swarm { location = 17, species = 19, moves = {...} }
	L.SetGlobal("Swarm", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		g := coll.game(L, "Swarm")
		g.swarms = append(g.swarms, tbl)
		return 0
	}))
}

// game returns the open Game of the current file, raising a Lua error when
// there is none.
func (c *collector) game(L *lua.LState, constructor string) *rawGame {
	if c.current == nil {
		L.RaiseError("%s declared before any Game in %s", constructor, c.file)
		return nil
	}
	return c.current
}

func (g *rawGame) String() string {
	return fmt.Sprintf("Game %q (%s)", g.group, g.file)
}
