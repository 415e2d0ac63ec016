package floordata

import (
	"fmt"
	"strings"
)

// SectorFlags is the set of properties decoded for a sector.
type SectorFlags uint16

// Sector flag bits.
const (
	FlagWall SectorFlags = 1 << iota
	FlagRoomAbove
	FlagRoomBelow
	FlagPortal
	FlagFloorSlant
	FlagCeilingSlant
	FlagTrigger
	FlagDeath
	FlagMonkeySwing
	FlagMinecartLeft
	FlagMinecartRight
	FlagClimbable
)

var flagNames = []struct {
	flag SectorFlags
	name string
}{
	{FlagWall, "Wall"},
	{FlagRoomAbove, "RoomAbove"},
	{FlagRoomBelow, "RoomBelow"},
	{FlagPortal, "Portal"},
	{FlagFloorSlant, "FloorSlant"},
	{FlagCeilingSlant, "CeilingSlant"},
	{FlagTrigger, "Trigger"},
	{FlagDeath, "Death"},
	{FlagMonkeySwing, "MonkeySwing"},
	{FlagMinecartLeft, "MinecartLeft"},
	{FlagMinecartRight, "MinecartRight"},
	{FlagClimbable, "Climbable"},
}

// Has reports whether every bit of f is set.
func (s SectorFlags) Has(f SectorFlags) bool {
	return s&f == f
}

// String returns the set flag names joined by "|", or "None".
func (s SectorFlags) String() string {
	if s == 0 {
		return "None"
	}
	var names []string
	rest := s
	for _, fn := range flagNames {
		if s&fn.flag != 0 {
			names = append(names, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint16(rest)))
	}
	return strings.Join(names, "|")
}

// ClimbDirection is the set of walls of a sector that can be climbed.
type ClimbDirection uint8

// Climbable wall sides, as stored in the subfunction of a climb entry.
const (
	ClimbNorth ClimbDirection = 0x1 // +Z
	ClimbEast  ClimbDirection = 0x2 // +X
	ClimbSouth ClimbDirection = 0x4 // -Z
	ClimbWest  ClimbDirection = 0x8 // -X
)

// Has reports whether every side in d is climbable.
func (c ClimbDirection) Has(d ClimbDirection) bool {
	return c&d == d
}

// String returns the climbable sides joined by "|", or "None".
func (c ClimbDirection) String() string {
	if c == 0 {
		return "None"
	}
	var names []string
	for _, side := range []struct {
		dir  ClimbDirection
		name string
	}{
		{ClimbNorth, "North"},
		{ClimbEast, "East"},
		{ClimbSouth, "South"},
		{ClimbWest, "West"},
	} {
		if c&side.dir != 0 {
			names = append(names, side.name)
		}
	}
	if rest := c &^ (ClimbNorth | ClimbEast | ClimbSouth | ClimbWest); rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint8(rest)))
	}
	return strings.Join(names, "|")
}

// Triangulation is the diagonal that splits a sector into two triangles.
type Triangulation uint8

// Triangulation directions.
const (
	TriangulationNone Triangulation = iota
	TriangulationNWSE
	TriangulationNESW
)

// String returns the direction name.
func (t Triangulation) String() string {
	switch t {
	case TriangulationNone:
		return "None"
	case TriangulationNWSE:
		return "NW-SE"
	case TriangulationNESW:
		return "NE-SW"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}
