package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/trview/internal/config"
	"github.com/Faultbox/trview/internal/logger"
	"github.com/Faultbox/trview/pkg/floordata"
	"github.com/Faultbox/trview/pkg/level"
)

func cmdInfo(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return usageError("info <level>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}
	st := lvl.Stats()

	if cfg.Output.Format == config.FormatJSON {
		return writeJSON(out, struct {
			Path    string      `json:"path"`
			Version string      `json:"version"`
			Words   int         `json:"floor_data_words"`
			Stats   level.Stats `json:"stats"`
		}{args[0], lvl.Version().String(), lvl.FloorData().Len(), st})
	}

	fmt.Fprintf(out, "Level:      %s\n", args[0])
	fmt.Fprintf(out, "Version:    %s\n", lvl.Version())
	fmt.Fprintf(out, "Floor data: %d words\n", lvl.FloorData().Len())
	fmt.Fprintf(out, "Rooms:      %d\n", st.Rooms)
	fmt.Fprintf(out, "Sectors:    %d\n", st.Sectors)
	fmt.Fprintf(out, "  walls     %d\n", st.Walls)
	fmt.Fprintf(out, "  portals   %d\n", st.Portals)
	fmt.Fprintf(out, "  triggers  %d (%d commands)\n", st.Triggers, st.Commands)
	fmt.Fprintf(out, "  truncated %d\n", st.Truncated)
	return nil
}

type roomSummary struct {
	ID            uint16  `json:"id"`
	NumX          uint16  `json:"num_x"`
	NumZ          uint16  `json:"num_z"`
	Baseline      float32 `json:"baseline"`
	AlternateRoom *uint16 `json:"alternate_room,omitempty"`
	Flags         int16   `json:"flags"`
	Sectors       int     `json:"sectors"`
	Triggers      int     `json:"triggers"`
}

func cmdRooms(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return usageError("rooms <level>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}

	rooms := make([]roomSummary, 0, len(lvl.Rooms()))
	for _, room := range lvl.Rooms() {
		numX, numZ := room.Size()
		rs := roomSummary{
			ID:       room.ID(),
			NumX:     numX,
			NumZ:     numZ,
			Baseline: room.FloorBaseline(),
			Flags:    room.Flags(),
			Sectors:  len(room.Sectors()),
		}
		if alt, ok := room.AlternateRoom(); ok {
			rs.AlternateRoom = &alt
		}
		for _, s := range room.Sectors() {
			if s.HasFlag(floordata.FlagTrigger) {
				rs.Triggers++
			}
		}
		rooms = append(rooms, rs)
	}

	if cfg.Output.Format == config.FormatJSON {
		return writeJSON(out, rooms)
	}

	fmt.Fprintf(out, "%-5s %-7s %-9s %-9s %-8s %s\n", "ROOM", "SIZE", "BASELINE", "ALTERNATE", "SECTORS", "TRIGGERS")
	for _, rs := range rooms {
		alt := "-"
		if rs.AlternateRoom != nil {
			alt = strconv.Itoa(int(*rs.AlternateRoom))
		}
		fmt.Fprintf(out, "%-5d %-7s %-9.2f %-9s %-8d %d\n",
			rs.ID, fmt.Sprintf("%dx%d", rs.NumX, rs.NumZ), rs.Baseline, alt, rs.Sectors, rs.Triggers)
	}
	return nil
}

func cmdSectors(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 2 {
		return usageError("sectors <level> <room>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}
	room, err := lookupRoom(lvl, args[1])
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatJSON {
		snaps := make([]level.SectorSnapshot, 0, len(room.Sectors()))
		for _, s := range room.Sectors() {
			snaps = append(snaps, level.NewSectorSnapshot(s.Sector))
		}
		return writeJSON(out, snaps)
	}

	for _, s := range room.Sectors() {
		fmt.Fprintln(out, sectorLine(s.Sector))
	}
	return nil
}

func cmdSector(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 4 {
		return usageError("sector <level> <room> <x> <z>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}
	s, err := lookupSector(lvl, args[1], args[2], args[3])
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatJSON {
		return writeJSON(out, level.NewSectorSnapshot(s.Sector))
	}

	fmt.Fprintf(out, "Room:          %d\n", s.Room())
	writeSector(out, s.Sector)
	fmt.Fprintf(out, "Neighbours:    %s\n", joinRooms(lvl.Neighbours(s)))
	return nil
}

func cmdTriggers(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return usageError("triggers <level>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}
	refs := lvl.Triggers()

	if cfg.Output.Format == config.FormatJSON {
		type located struct {
			Room   uint16 `json:"room"`
			Sector uint32 `json:"sector"`
			*level.TriggerSnapshot
		}
		list := make([]located, 0, len(refs))
		for _, ref := range refs {
			list = append(list, located{ref.Room, ref.Sector, level.NewTriggerSnapshot(ref.Info)})
		}
		return writeJSON(out, list)
	}

	for _, ref := range refs {
		fmt.Fprintf(out, "room %d sector %d: %s\n", ref.Room, ref.Sector, triggerLine(ref.Info))
		writeCommands(out, ref.Info.Commands)
	}
	return nil
}

func cmdNeighbours(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 4 {
		return usageError("neighbours <level> <room> <x> <z>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}
	s, err := lookupSector(lvl, args[1], args[2], args[3])
	if err != nil {
		return err
	}
	neighbours := lvl.Neighbours(s)

	if cfg.Output.Format == config.FormatJSON {
		return writeJSON(out, neighbours)
	}
	fmt.Fprintln(out, joinRooms(neighbours))
	return nil
}

func cmdDecode(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	index := fs.Int("index", 1, "Index of the first word to decode (word 0 is the empty entry)")
	floor := fs.Int("floor", 0, "Raw floor height")
	ceiling := fs.Int("ceiling", 0, "Raw ceiling height")
	baseline := fs.Float64("baseline", 0, "Room floor baseline")
	above := fs.Int("above", int(floordata.NoRoom), "Room above")
	below := fs.Int("below", int(floordata.NoRoom), "Room below")
	const usage = "decode [-index n] [-floor n] [-ceiling n] [-baseline f] [-above room] [-below room] <word...>"
	if err := fs.Parse(args); err != nil {
		return usageError(usage)
	}
	if fs.NArg() < 1 {
		return usageError(usage)
	}

	words := floordata.Words{0}
	for _, arg := range fs.Args() {
		w, err := parseWord(arg)
		if err != nil {
			return err
		}
		words = append(words, w)
	}
	for _, fl := range []struct {
		name        string
		val, lo, hi int
	}{
		{"index", *index, 0, 0xFFFF},
		{"floor", *floor, -128, 127},
		{"ceiling", *ceiling, -128, 127},
		{"above", *above, 0, 0xFF},
		{"below", *below, 0, 0xFF},
	} {
		if fl.val < fl.lo || fl.val > fl.hi {
			return usageError(fmt.Sprintf("%s (-%s must be in %d..%d, got %d)", usage, fl.name, fl.lo, fl.hi, fl.val))
		}
	}

	tile := floordata.Tile{
		Index:     uint16(*index),
		Floor:     int8(*floor),
		Ceiling:   int8(*ceiling),
		RoomAbove: uint8(*above),
		RoomBelow: uint8(*below),
	}
	s := floordata.Decode(words, tile, float32(*baseline))
	logger.Debug("decoded words", zap.Int("words", words.Len()-1), zap.Bool("truncated", s.Truncated()))

	if cfg.Output.Format == config.FormatJSON {
		return writeJSON(out, level.NewSectorSnapshot(s))
	}
	writeSector(out, s)
	return nil
}

func cmdExport(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 2 {
		return usageError("export <level> <out>")
	}

	lvl, err := loadLevel(cfg, args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if cfg.Output.Compress {
		err = level.WriteSnapshot(f, lvl)
	} else {
		err = json.NewEncoder(f).Encode(level.NewSnapshot(lvl))
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	logger.Info("snapshot exported", zap.String("path", args[1]), zap.Bool("compressed", cfg.Output.Compress))
	fmt.Fprintf(out, "Exported %d rooms to %s\n", len(lvl.Rooms()), args[1])
	return nil
}

func cmdConfig(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	if args[0] != "save" {
		return usageError("config [save [path]]")
	}
	path := ""
	var err error
	if len(args) > 1 {
		path = args[1]
		err = cfg.SaveTo(path)
	} else {
		path, err = cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Saved config to %s\n", path)
	return nil
}

func lookupRoom(lvl *level.Level, arg string) (*level.Room, error) {
	id, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid room %q: %w", arg, err)
	}
	room, ok := lvl.Room(uint16(id))
	if !ok {
		return nil, fmt.Errorf("room %d not found (level has %d rooms)", id, len(lvl.Rooms()))
	}
	return room, nil
}

func lookupSector(lvl *level.Level, roomArg, xArg, zArg string) (*level.Sector, error) {
	room, err := lookupRoom(lvl, roomArg)
	if err != nil {
		return nil, err
	}
	x, err := strconv.ParseUint(xArg, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid x %q: %w", xArg, err)
	}
	z, err := strconv.ParseUint(zArg, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid z %q: %w", zArg, err)
	}
	s, ok := room.Sector(uint16(x), uint16(z))
	if !ok {
		numX, numZ := room.Size()
		return nil, fmt.Errorf("sector %d,%d outside room %d (%dx%d)", x, z, room.ID(), numX, numZ)
	}
	return s, nil
}

// parseWord reads one floor-data word, with or without a 0x prefix.
func parseWord(arg string) (uint16, error) {
	s := strings.TrimPrefix(strings.ToLower(arg), "0x")
	w, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid word %q: %w", arg, err)
	}
	return uint16(w), nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
