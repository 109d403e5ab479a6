// Encounterdex answers where a creature could have come from.
// Usage: encounterdex [--version] [--plain] [--script <file>] [--trace] [--data <dir>] [--seed <n>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/nathoo/encounterdex/cli"
	"github.com/nathoo/encounterdex/config"
	"github.com/nathoo/encounterdex/engine"
	"github.com/nathoo/encounterdex/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: encounterdex [--version] [--plain] [--script <file>] [--trace] [--data <dir>] [--seed <n>]\n"

func main() {
	home, err := config.Home()
	if err != nil {
		fatal(err)
	}
	settings, err := config.Load(home)
	if err != nil {
		fatal(err)
	}

	trace := false
	seedSet := false
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("encounterdex %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			settings.Plain = true
		case "--trace":
			trace = true
		case "--script", "--data", "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			i++
			switch args[i-1] {
			case "--script":
				scriptFile = args[i]
			case "--data":
				settings.DataDir = args[i]
			case "--seed":
				n, err := strconv.ParseInt(args[i], 10, 64)
				if err != nil {
					fmt.Fprintf(os.Stderr, "--seed must be a number\n")
					os.Exit(1)
				}
				settings.Seed, seedSet = n, true
			}
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
	}

	opts := engine.Options{AllowGBCartEra: settings.AllowGBEra, Workers: settings.Workers}
	var eng *engine.Engine
	if settings.DataDir != "" {
		eng, err = engine.FromDir(settings.DataDir, opts)
	} else {
		eng, err = engine.Default(opts)
	}
	if err != nil {
		fatal(fmt.Errorf("loading encounter data: %w", err))
	}

	seed := settings.Seed
	if seed == 0 && !seedSet {
		if seed, err = engine.NewSeed(); err != nil {
			fatal(err)
		}
	}
	tr, err := settings.TrainerInfo()
	if err != nil {
		fatal(err)
	}
	s := cli.NewSession(eng, engine.NewRNG(seed), tr)
	s.Trace = trace
	if s.Version, err = settings.GameVersion(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatal(fmt.Errorf("opening script: %w", err))
		}
		defer f.Close()
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return
	}

	// Use plain CLI if --plain or stdout is not a terminal.
	if settings.Plain || !isTerminal() {
		fmt.Printf("encounterdex %s (seed %d)\n\n", version, seed)
		cli.New(s).Run(ctx)
		return
	}

	if err := tui.Run(ctx, s); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
