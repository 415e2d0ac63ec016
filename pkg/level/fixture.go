package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/trview/pkg/floordata"
	"github.com/Faultbox/trview/pkg/trlevel"
)

// ErrInvalidFixture is returned for a fixture that does not describe a level.
var ErrInvalidFixture = errors.New("invalid level fixture")

// Fixture is a hand-written YAML description of a level's rooms and floor data.
type Fixture struct {
	Version   string        `yaml:"version"`
	FloorData []uint16      `yaml:"floor_data"`
	Rooms     []FixtureRoom `yaml:"rooms"`
}

// FixtureRoom describes one room of a Fixture.
type FixtureRoom struct {
	X             int32           `yaml:"x"`
	Z             int32           `yaml:"z"`
	YBottom       int32           `yaml:"y_bottom"`
	YTop          int32           `yaml:"y_top"`
	NumX          uint16          `yaml:"num_x"`
	NumZ          uint16          `yaml:"num_z"`
	AlternateRoom *int16          `yaml:"alternate_room"` // Absent = none
	Flags         int16           `yaml:"flags"`
	Sectors       []FixtureSector `yaml:"sectors"`
}

// FixtureSector describes one sector; absent adjacency means no room.
type FixtureSector struct {
	Index   uint16 `yaml:"index"`
	Box     uint16 `yaml:"box"`
	Floor   int8   `yaml:"floor"`
	Ceiling int8   `yaml:"ceiling"`
	Above   *uint8 `yaml:"above"`
	Below   *uint8 `yaml:"below"`
}

// ParseFixture parses a YAML fixture into a raw level.
func ParseFixture(data []byte) (*trlevel.Level, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	return f.Level()
}

// LoadFixture parses a YAML fixture from disk.
func LoadFixture(path string) (*trlevel.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

// Level converts the fixture to a raw level.
func (f *Fixture) Level() (*trlevel.Level, error) {
	version := trlevel.VersionTR4
	if f.Version != "" {
		v, err := trlevel.ParseVersion(f.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
		}
		version = v
	}

	raw := &trlevel.Level{
		Version:   version,
		FloorData: f.FloorData,
		Rooms:     make([]trlevel.Room, len(f.Rooms)),
	}
	for i, fr := range f.Rooms {
		if want := int(fr.NumX) * int(fr.NumZ); len(fr.Sectors) != want {
			return nil, fmt.Errorf("%w: room %d has %d sectors, expected %dx%d",
				ErrInvalidFixture, i, len(fr.Sectors), fr.NumX, fr.NumZ)
		}
		room := trlevel.Room{
			Info:          trlevel.RoomInfo{X: fr.X, Z: fr.Z, YBottom: fr.YBottom, YTop: fr.YTop},
			NumXSectors:   fr.NumX,
			NumZSectors:   fr.NumZ,
			AlternateRoom: -1,
			Flags:         fr.Flags,
			Sectors:       make([]trlevel.RawSector, len(fr.Sectors)),
		}
		if fr.AlternateRoom != nil {
			room.AlternateRoom = *fr.AlternateRoom
		}
		for j, fs := range fr.Sectors {
			rs := trlevel.RawSector{
				FDIndex:   fs.Index,
				BoxIndex:  fs.Box,
				Floor:     fs.Floor,
				Ceiling:   fs.Ceiling,
				RoomAbove: floordata.NoRoom,
				RoomBelow: floordata.NoRoom,
			}
			if fs.Above != nil {
				rs.RoomAbove = *fs.Above
			}
			if fs.Below != nil {
				rs.RoomBelow = *fs.Below
			}
			room.Sectors[j] = rs
		}
		raw.Rooms[i] = room
	}
	return raw, nil
}
