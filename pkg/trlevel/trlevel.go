// Package trlevel reads the room and floor-data sections of Tomb Raider
// level files (TR1 to TR4).
package trlevel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Level file errors.
var (
	ErrTruncatedLevelData = errors.New("truncated level data")
	ErrUnsupportedVersion = errors.New("unsupported level version")
	ErrInvalidChunk       = errors.New("invalid compressed chunk")
)

// Version is the leading magic of a level file.
type Version uint32

// Known level versions.
const (
	VersionTR1  Version = 0x00000020
	VersionTR2  Version = 0x0000002D
	VersionTR3  Version = 0xFF080038
	VersionTR3b Version = 0xFF180038
	VersionTR4  Version = 0x00345254
)

// Game returns the game number of the version (1-4), or 0 if unknown.
func (v Version) Game() int {
	switch v {
	case VersionTR1:
		return 1
	case VersionTR2:
		return 2
	case VersionTR3, VersionTR3b:
		return 3
	case VersionTR4:
		return 4
	default:
		return 0
	}
}

// String returns the game name of the version.
func (v Version) String() string {
	if g := v.Game(); g != 0 {
		return fmt.Sprintf("TR%d", g)
	}
	return fmt.Sprintf("Unknown(0x%08x)", uint32(v))
}

// ParseVersion maps a game name ("TR1".."TR4") to its version.
func ParseVersion(name string) (Version, error) {
	switch name {
	case "TR1", "tr1":
		return VersionTR1, nil
	case "TR2", "tr2":
		return VersionTR2, nil
	case "TR3", "tr3":
		return VersionTR3, nil
	case "TR4", "tr4":
		return VersionTR4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, name)
}

// RoomInfo is the position and vertical extent of a room in world units.
type RoomInfo struct {
	X       int32
	Z       int32
	YBottom int32
	YTop    int32
}

// RawSector is the on-disk record of one room sector.
type RawSector struct {
	FDIndex   uint16 // Floor data start, 0 for none
	BoxIndex  uint16
	RoomBelow uint8 // 0xFF = none
	Floor     int8  // Height in clicks, -127 for a wall
	RoomAbove uint8 // 0xFF = none
	Ceiling   int8
}

// Room is the decoded header and sector grid of a room. Geometry, lights
// and static meshes are skipped.
type Room struct {
	Info          RoomInfo
	NumZSectors   uint16
	NumXSectors   uint16
	Sectors       []RawSector // Column-major: index = x*NumZSectors + z
	AlternateRoom int16       // -1 = none
	Flags         int16
}

// Level holds the rooms and floor data of a level file.
type Level struct {
	Version   Version
	Rooms     []Room
	FloorData []uint16
}

// Parse parses a level file from raw bytes.
func Parse(data []byte) (*Level, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedLevelData)
	}
	version := Version(binary.LittleEndian.Uint32(data))
	r := newReader(bytes.NewReader(data[4:]))

	var err error
	switch version.Game() {
	case 1:
		err = skipTR1Textures(r)
	case 2, 3:
		err = skipTR2Textures(r)
	case 4:
		var levelData []byte
		if levelData, err = readTR4LevelData(r); err == nil {
			r = newReader(bytes.NewReader(levelData))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}
	if err != nil {
		return nil, err
	}

	level := &Level{Version: version}
	if err := r.read(new(uint32), "unused header word"); err != nil {
		return nil, err
	}
	if level.Rooms, err = readRooms(r, version); err != nil {
		return nil, err
	}
	if level.FloorData, err = readFloorData(r); err != nil {
		return nil, err
	}
	return level, nil
}

// ParseFile parses a level file from disk.
func ParseFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Parse(data)
}

func skipTR1Textures(r *reader) error {
	var numTextiles uint32
	if err := r.read(&numTextiles, "textile count"); err != nil {
		return err
	}
	return r.skip(int64(numTextiles)*textile8Size, "textiles")
}

func skipTR2Textures(r *reader) error {
	if err := r.skip(paletteSize+palette16Size, "palettes"); err != nil {
		return err
	}
	var numTextiles uint32
	if err := r.read(&numTextiles, "textile count"); err != nil {
		return err
	}
	return r.skip(int64(numTextiles)*(textile8Size+textile16Size), "textiles")
}

// readTR4LevelData skips the texture chunks and inflates the level chunk.
func readTR4LevelData(r *reader) ([]byte, error) {
	var textileCounts [3]uint16 // room, object, bump
	if err := r.read(&textileCounts, "textile counts"); err != nil {
		return nil, err
	}
	for _, name := range []string{"32-bit textiles", "16-bit textiles", "misc textiles"} {
		if err := skipChunk(r, name); err != nil {
			return nil, err
		}
	}
	return readChunk(r, "level data")
}

func readFloorData(r *reader) ([]uint16, error) {
	var count uint32
	if err := r.read(&count, "floor data count"); err != nil {
		return nil, err
	}
	if err := r.need(int64(count)*2, "floor data"); err != nil {
		return nil, err
	}
	words := make([]uint16, count)
	if err := r.read(words, "floor data"); err != nil {
		return nil, err
	}
	return words, nil
}
