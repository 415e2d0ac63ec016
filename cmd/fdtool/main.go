// fdtool inspects the decoded floor data of Tomb Raider level files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/trview/internal/config"
	"github.com/Faultbox/trview/internal/logger"
	"github.com/Faultbox/trview/pkg/level"
	"github.com/Faultbox/trview/pkg/trlevel"
)

// usageError reports malformed arguments for one command.
type usageError string

func (e usageError) Error() string { return "Usage: fdtool " + string(e) }

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(cfg, args, os.Stdout); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, usage)
		} else {
			logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

// run executes one command and writes its report to out.
func run(cfg *config.Config, args []string, out io.Writer) error {
	command, rest := args[0], args[1:]

	switch command {
	case "info":
		return cmdInfo(cfg, rest, out)
	case "rooms":
		return cmdRooms(cfg, rest, out)
	case "sectors":
		return cmdSectors(cfg, rest, out)
	case "sector":
		return cmdSector(cfg, rest, out)
	case "triggers":
		return cmdTriggers(cfg, rest, out)
	case "neighbours", "neighbors":
		return cmdNeighbours(cfg, rest, out)
	case "decode":
		return cmdDecode(cfg, rest, out)
	case "export":
		return cmdExport(cfg, rest, out)
	case "config":
		return cmdConfig(cfg, rest, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `fdtool - Tomb Raider floor data inspector

Usage:
  fdtool [flags] <command> [options]

Flags:
  -config <path>   Config file (default ./fdtool.yaml, then user config dir)
  -debug           Enable debug logging
  -log <path>      Also write logs to a rotating file
  -workers <n>     Rooms decoded in parallel
  -format <fmt>    Output format: text or json

Commands:
  info <level>                        Show level version and sector counts
  rooms <level>                       List rooms
  sectors <level> <room>              List the sectors of a room
  sector <level> <room> <x> <z>       Show one decoded sector
  triggers <level>                    List every trigger and its commands
  neighbours <level> <room> <x> <z>   Rooms reachable from a sector
  decode [options] <word...>          Decode hex floor-data words
  export <level> <out>                Write a JSON snapshot of every sector
  config [save [path]]                Show or save the effective config

Level files ending in .yaml or .yml are read as fixtures.

Examples:
  fdtool info data/level1.phd
  fdtool -format json sector data/city.tr4 12 3 4
  fdtool decode 0x8002 0x0004`)
}

// loadLevel reads a level container or YAML fixture and decodes it.
func loadLevel(cfg *config.Config, path string) (*level.Level, error) {
	var (
		raw *trlevel.Level
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = level.LoadFixture(path)
	default:
		raw, err = trlevel.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("level loaded",
		zap.String("path", path),
		zap.Stringer("version", raw.Version),
		zap.Int("rooms", len(raw.Rooms)))

	return level.New(raw,
		level.WithLogger(logger.Named("level")),
		level.WithWorkers(cfg.Decode.Workers)), nil
}
