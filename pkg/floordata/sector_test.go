package floordata

import (
	"reflect"
	"testing"

	"github.com/Faultbox/trview/pkg/math"
)

type alternates map[uint16]uint16

func (a alternates) AlternateRoom(id uint16) (uint16, bool) {
	alt, ok := a[id]
	return alt, ok
}

func TestSector_NeighboursPortal(t *testing.T) {
	words := Words{0, fn(fnPortal, 0, true), 5}
	s := Decode(words, openTile(1, 0), 0)

	got := s.Neighbours(alternates{5: 9})
	if !reflect.DeepEqual(got, []uint16{5, 9}) {
		t.Errorf("Neighbours() = %v, expected [5 9]", got)
	}

	got = s.Neighbours(nil)
	if !reflect.DeepEqual(got, []uint16{5}) {
		t.Errorf("Neighbours(nil) = %v, expected [5]", got)
	}
}

func TestSector_NeighboursAboveBelow(t *testing.T) {
	words := Words{0, fn(fnPortal, 0, true), 5}
	tile := openTile(1, 0)
	tile.RoomAbove = 2
	tile.RoomBelow = 9
	s := Decode(words, tile, 0)

	got := s.Neighbours(alternates{5: 9, 2: 7})
	if !reflect.DeepEqual(got, []uint16{2, 5, 7, 9}) {
		t.Errorf("Neighbours() = %v, expected [2 5 7 9]", got)
	}
}

func TestSector_NeighboursNone(t *testing.T) {
	s := Decode(Words{}, openTile(0, 0), 0)
	if got := s.Neighbours(alternates{}); len(got) != 0 {
		t.Errorf("expected no neighbours, got %v", got)
	}
}

func TestSector_IsFloor(t *testing.T) {
	below := openTile(0, 0)
	below.RoomBelow = 3

	tests := []struct {
		name     string
		sector   *Sector
		expected bool
	}{
		{"open", Decode(Words{}, openTile(0, 0), 0), true},
		{"wall", Decode(Words{}, Tile{Floor: WallHeight, Ceiling: WallHeight, RoomAbove: NoRoom, RoomBelow: NoRoom}, 0), false},
		{"portal", Decode(Words{0, fn(fnPortal, 0, true), 1}, openTile(1, 0), 0), false},
		{"room below", Decode(Words{}, below, 0), false},
	}
	for _, tc := range tests {
		if tc.sector.IsFloor() != tc.expected {
			t.Errorf("%s: IsFloor() = %v, expected %v", tc.name, tc.sector.IsFloor(), tc.expected)
		}
	}
}

func TestSector_TrianglesFlat(t *testing.T) {
	tile := openTile(0, 0)
	tile.X, tile.Z = 2, 3
	tris := Decode(Words{}, tile, 0).Triangles()

	want := Triangle{
		V0: math.Vec3{X: 2, Y: 0, Z: 4},
		V1: math.Vec3{X: 3, Y: 0, Z: 4},
		V2: math.Vec3{X: 3, Y: 0, Z: 3},
	}
	if tris[0] != want {
		t.Errorf("first triangle = %+v, expected %+v", tris[0], want)
	}
	up := math.Vec3{Y: 1}
	for i, tri := range tris {
		if n := tri.Normal(); n != up {
			t.Errorf("triangle %d normal = %v, expected %v", i, n, up)
		}
	}
}

func TestSector_TrianglesFollowDiagonal(t *testing.T) {
	nwse := Decode(Words{0, fn(fnFloorTriangleNWSE, 0, true), 0}, openTile(1, 0), 0).Triangles()
	nesw := Decode(Words{0, fn(fnFloorTriangleNESW, 0, true), 0}, openTile(1, 0), 0).Triangles()

	// The NW-SE split shares the NE and SW corners between both triangles.
	ne := math.Vec3{X: 1, Y: 0, Z: 1}
	sw := math.Vec3{X: 0, Y: 0, Z: 0}
	if nwse[0].V0 != ne || nwse[0].V2 != sw || nwse[1].V0 != sw || nwse[1].V2 != ne {
		t.Errorf("unexpected NW-SE triangles %+v", nwse)
	}
	if nwse == nesw {
		t.Error("NW-SE and NE-SW splits should differ")
	}
	up := math.Vec3{Y: 1}
	for i, tri := range nwse {
		if n := tri.Normal(); n != up {
			t.Errorf("triangle %d normal = %v, expected %v", i, n, up)
		}
	}
}

func TestSector_TrianglesUseCorners(t *testing.T) {
	words := Words{0, fn(fnFloorSlant, 0, true), 0x0004}
	tris := Decode(words, openTile(1, 0), 0).Triangles()

	// NW and SW are raised by the positive X slope.
	if tris[0].V0.Y != 1 || tris[0].V1.Y != 0 {
		t.Errorf("unexpected heights %+v", tris[0])
	}
}

func TestSectorFlags_String(t *testing.T) {
	tests := []struct {
		flags    SectorFlags
		expected string
	}{
		{0, "None"},
		{FlagWall, "Wall"},
		{FlagPortal | FlagTrigger, "Portal|Trigger"},
		{FlagClimbable | 0x8000, "Climbable|0x8000"},
	}
	for _, tc := range tests {
		if tc.flags.String() != tc.expected {
			t.Errorf("String() = %q, expected %q", tc.flags.String(), tc.expected)
		}
	}
}

func TestClimbDirection_String(t *testing.T) {
	if got := (ClimbNorth | ClimbWest).String(); got != "North|West" {
		t.Errorf("String() = %q, expected North|West", got)
	}
	if got := ClimbDirection(0).String(); got != "None" {
		t.Errorf("String() = %q, expected None", got)
	}
	if got := ClimbDirection(0x11).String(); got != "North|0x10" {
		t.Errorf("String() = %q, expected North|0x10", got)
	}
}

func TestTriangulation_String(t *testing.T) {
	if TriangulationNWSE.String() != "NW-SE" || TriangulationNESW.String() != "NE-SW" {
		t.Error("unexpected direction names")
	}
	if Triangulation(7).String() != "Unknown(7)" {
		t.Errorf("unexpected name %q", Triangulation(7).String())
	}
}
