package floordata

// Floor-data function codes.
const (
	fnPortal              = 0x01
	fnFloorSlant          = 0x02
	fnCeilingSlant        = 0x03
	fnTrigger             = 0x04
	fnDeath               = 0x05
	fnClimbable           = 0x06
	fnFloorTriangleNWSE   = 0x07
	fnFloorTriangleNESW   = 0x08
	fnCeilingTriangleNW   = 0x09
	fnCeilingTriangleNE   = 0x0A
	fnFloorTriangleNWSESE = 0x0B
	fnFloorTriangleNWSENW = 0x0C
	fnFloorTriangleNESWSW = 0x0D
	fnFloorTriangleNESWNE = 0x0E
	fnCeilingTriangleNWSW = 0x0F
	fnCeilingTriangleNWNE = 0x10
	fnCeilingTriangleNESW = 0x11
	fnCeilingTriangleNENW = 0x12
	fnMonkeySwing         = 0x13
	fnMinecartLeft        = 0x14
	fnMinecartRight       = 0x15
)

// WallHeight is the raw floor and ceiling value of a solid wall sector.
const WallHeight int8 = -127

// NoRoom is the adjacency byte meaning there is no room above or below.
const NoRoom uint8 = 0xFF

// Tile is the raw per-sector record a room supplies to the decoder.
type Tile struct {
	ID        uint32 // Index into the room's sector table
	X, Z      uint16 // Grid position inside the room
	Index     uint16 // Start of the sector's floor data, 0 for none
	Floor     int8
	Ceiling   int8
	RoomAbove uint8
	RoomBelow uint8
}

// IsWall reports whether the raw heights mark the tile as a solid wall.
func (t Tile) IsWall() bool {
	return t.Floor == WallHeight && t.Ceiling == WallHeight
}

// Decode builds the sector described by tile and the floor data starting at
// tile.Index. baseline is the room's floor height, used to seed wall corners.
// A stream that ends early yields the sector decoded up to that point.
func Decode(words WordSource, tile Tile, baseline float32) *Sector {
	s := &Sector{
		id:        tile.ID,
		x:         tile.X,
		z:         tile.Z,
		roomAbove: tile.RoomAbove,
		roomBelow: tile.RoomBelow,
	}

	if tile.IsWall() {
		s.flags |= FlagWall
	}
	if tile.RoomAbove != NoRoom {
		s.flags |= FlagRoomAbove
	}
	if tile.RoomBelow != NoRoom {
		s.flags |= FlagRoomBelow
	}

	seed := float32(tile.Floor) * clickScale
	if tile.IsWall() {
		seed = baseline
	}
	for i := range s.corners {
		s.corners[i] = seed
	}

	if tile.Index == 0 {
		return s
	}
	if int(tile.Index) >= words.Len() {
		s.truncated = true
		return s
	}

	c := cursor{words: words, pos: int(tile.Index)}
	for {
		word := words.Word(c.pos)
		function, subfunction := splitFunction(word)
		if !s.apply(&c, function, subfunction) {
			s.truncated = true
			return s
		}
		if word&endBit != 0 {
			return s
		}
		if !c.skip() {
			s.truncated = true
			return s
		}
	}
}

// apply handles one function entry whose function word is under c. It
// returns false if a payload word lies past the end of the stream.
func (s *Sector) apply(c *cursor, function, subfunction uint8) bool {
	switch function {
	case fnPortal:
		w, ok := c.next()
		if !ok {
			return false
		}
		s.portal = w & 0xFF
		s.flags |= FlagPortal

	case fnFloorSlant:
		w, ok := c.next()
		if !ok {
			return false
		}
		s.floorSlope = w
		s.flags |= FlagFloorSlant
		applyDelta(&s.corners, SlopeDelta(w))

	case fnCeilingSlant:
		w, ok := c.next()
		if !ok {
			return false
		}
		s.ceilingSlope = w
		s.flags |= FlagCeilingSlant

	case fnTrigger:
		pos := c.pos
		info, truncated, ok := buildTrigger(c.words, &pos, subfunction, s.id)
		c.pos = pos
		if !ok {
			return false
		}
		s.trigger = info
		s.flags |= FlagTrigger
		if truncated {
			return false
		}

	case fnDeath:
		s.flags |= FlagDeath

	case fnClimbable:
		s.climb = ClimbDirection(subfunction)
		if s.climb != 0 {
			s.flags |= FlagClimbable
		}

	case fnFloorTriangleNWSE, fnFloorTriangleNESW,
		fnFloorTriangleNWSESE, fnFloorTriangleNWSENW,
		fnFloorTriangleNESWSW, fnFloorTriangleNESWNE:
		w, ok := c.next()
		if !ok {
			return false
		}
		s.triangulation, _ = TriangulationFor(function)
		s.floorTriangulation = w
		applyDelta(&s.corners, TriangulationDelta(w))

	case fnCeilingTriangleNW, fnCeilingTriangleNE,
		fnCeilingTriangleNWSW, fnCeilingTriangleNWNE,
		fnCeilingTriangleNESW, fnCeilingTriangleNENW:
		// Ceiling corner heights are not part of the decoded sector.
		if !c.skip() {
			return false
		}

	case fnMonkeySwing:
		s.flags |= FlagMonkeySwing

	case fnMinecartLeft:
		s.flags |= FlagMinecartLeft

	case fnMinecartRight:
		s.flags |= FlagMinecartRight
	}
	return true
}
