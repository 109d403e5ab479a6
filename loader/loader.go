package loader

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/nathoo/encounterdex/engine/species"
	"github.com/nathoo/encounterdex/engine/tables"
	lua "github.com/yuin/gopher-lua"
)

//go:embed data/*.lua
var embedded embed.FS

// Data is the compiled encounter data: the species table and one source per
// version group.
type Data struct {
	Species *species.Table
	Sources []*tables.Source

	entries []species.Personal
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	species []rawSpecies
	games   []*rawGame
	current *rawGame
	file    string
}

// Load reads all .lua files from dir.
func Load(dir string) (*Data, error) {
	return LoadFS(os.DirFS(dir))
}

// Embedded loads the data files compiled into the binary.
func Embedded() (*Data, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads all .lua files at the root of fsys, compiles them into
// species and encounter sources, and validates references. The Lua VM is
// discarded after loading.
func LoadFS(fsys fs.FS) (*Data, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found")
	}

	// Sort: species.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		if err := coll.run(L, f, src); err != nil {
			return nil, err
		}
	}

	data, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling encounter data: %w", err)
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	return data, nil
}

// run executes one file. Templates declared in a file belong to the last
// Game declared in the same file.
func (c *collector) run(L *lua.LState, name string, src []byte) error {
	c.current = nil
	c.file = name
	fn, err := L.Load(bytes.NewReader(src), path.Base(name))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}
	return nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the data files.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Data files must compile to the same tables every time.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("random", lua.LNil)
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
