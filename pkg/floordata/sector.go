package floordata

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/trview/pkg/math"
)

// ErrNotPortal is returned when reading the portal of a sector that has none.
var ErrNotPortal = errors.New("sector has no portal")

// Sector is one decoded grid tile of a room. It is immutable once decoded.
type Sector struct {
	id   uint32
	x, z uint16

	flags         SectorFlags
	climb         ClimbDirection
	corners       [4]float32
	portal        uint16
	roomAbove     uint8
	roomBelow     uint8
	triangulation Triangulation
	trigger       *TriggerInfo

	floorSlope         uint16
	ceilingSlope       uint16
	floorTriangulation uint16
	truncated          bool
}

// ID returns the index of the sector in its room's sector table.
func (s *Sector) ID() uint32 { return s.id }

// X returns the grid column of the sector.
func (s *Sector) X() uint16 { return s.x }

// Z returns the grid row of the sector.
func (s *Sector) Z() uint16 { return s.z }

// Flags returns the decoded flag set.
func (s *Sector) Flags() SectorFlags { return s.flags }

// HasFlag reports whether all bits of f are set.
func (s *Sector) HasFlag(f SectorFlags) bool { return s.flags.Has(f) }

// ClimbDirection returns the climbable wall sides.
func (s *Sector) ClimbDirection() ClimbDirection { return s.climb }

// Corners returns the four corner heights, indexed by the Corner constants.
func (s *Sector) Corners() [4]float32 { return s.corners }

// RoomAbove returns the raw room-above byte (NoRoom when none).
func (s *Sector) RoomAbove() uint8 { return s.roomAbove }

// RoomBelow returns the raw room-below byte (NoRoom when none).
func (s *Sector) RoomBelow() uint8 { return s.roomBelow }

// Triangulation returns the floor split diagonal.
func (s *Sector) Triangulation() Triangulation { return s.triangulation }

// FloorSlope returns the raw floor slant payload, 0 when not slanted.
func (s *Sector) FloorSlope() uint16 { return s.floorSlope }

// CeilingSlope returns the raw ceiling slant payload, 0 when not slanted.
func (s *Sector) CeilingSlope() uint16 { return s.ceilingSlope }

// FloorTriangulation returns the packed corner word of a triangulated floor.
func (s *Sector) FloorTriangulation() uint16 { return s.floorTriangulation }

// Truncated reports whether the floor data ended before the sector's entries did.
func (s *Sector) Truncated() bool { return s.truncated }

// Portal returns the room the sector leads into.
func (s *Sector) Portal() (uint16, error) {
	if !s.flags.Has(FlagPortal) {
		return 0, fmt.Errorf("sector %d: %w", s.id, ErrNotPortal)
	}
	return s.portal, nil
}

// Trigger returns the sector's trigger, if any.
func (s *Sector) Trigger() (*TriggerInfo, bool) {
	if !s.flags.Has(FlagTrigger) || s.trigger == nil {
		return nil, false
	}
	return s.trigger, true
}

// IsFloor reports whether the sector is walkable ground: nothing below it,
// and neither a wall nor a portal.
func (s *Sector) IsFloor() bool {
	return s.roomBelow == NoRoom && s.flags&(FlagWall|FlagPortal) == 0
}

// Triangle is one floor triangle of a sector in room grid space.
type Triangle struct {
	V0, V1, V2 math.Vec3
}

// Normal returns the unit normal of the triangle.
func (t Triangle) Normal() math.Vec3 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
}

// Triangles returns the two floor triangles of the sector, split along the
// triangulation diagonal. Flat sectors use the NE-SW split.
func (s *Sector) Triangles() [2]Triangle {
	x0, z0 := float32(s.x), float32(s.z)
	x1, z1 := x0+1, z0+1

	nw := math.Vec3{X: x0, Y: s.corners[CornerNW], Z: z1}
	sw := math.Vec3{X: x0, Y: s.corners[CornerSW], Z: z0}
	ne := math.Vec3{X: x1, Y: s.corners[CornerNE], Z: z1}
	se := math.Vec3{X: x1, Y: s.corners[CornerSE], Z: z0}

	if s.triangulation == TriangulationNWSE {
		return [2]Triangle{
			{ne, se, sw},
			{sw, nw, ne},
		}
	}
	return [2]Triangle{
		{nw, ne, se},
		{se, sw, nw},
	}
}

// RoomLookup resolves alternate (flipped) rooms.
type RoomLookup interface {
	AlternateRoom(id uint16) (uint16, bool)
}

// Neighbours returns the sorted set of rooms reachable from the sector:
// the portal target, the room above and the room below, each together with
// its alternate room. rooms may be nil.
func (s *Sector) Neighbours(rooms RoomLookup) []uint16 {
	var ids []uint16
	add := func(id uint16) {
		ids = append(ids, id)
		if rooms == nil {
			return
		}
		if alt, ok := rooms.AlternateRoom(id); ok {
			ids = append(ids, alt)
		}
	}

	if s.flags.Has(FlagPortal) {
		add(s.portal)
	}
	if s.flags.Has(FlagRoomAbove) {
		add(uint16(s.roomAbove))
	}
	if s.flags.Has(FlagRoomBelow) {
		add(uint16(s.roomBelow))
	}

	slices.Sort(ids)
	return slices.Compact(ids)
}
