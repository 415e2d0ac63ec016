package trlevel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// testRoom describes a room for createTestLevel.
type testRoom struct {
	info      RoomInfo
	numZ      uint16
	numX      uint16
	sectors   []RawSector
	alternate int16
	flags     int16
}

func writeRoom(buf *bytes.Buffer, v Version, room testRoom) {
	layout := layoutFor(v)
	binary.Write(buf, binary.LittleEndian, room.info)

	// Two words of geometry
	binary.Write(buf, binary.LittleEndian, uint32(2))
	buf.Write([]byte{1, 2, 3, 4})

	// One portal
	binary.Write(buf, binary.LittleEndian, uint16(1))
	buf.Write(make([]byte, portalSize))

	binary.Write(buf, binary.LittleEndian, room.numZ)
	binary.Write(buf, binary.LittleEndian, room.numX)
	binary.Write(buf, binary.LittleEndian, room.sectors)

	buf.Write(make([]byte, layout.ambient))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	buf.Write(bytes.Repeat([]byte{0xAA}, int(2*layout.light)))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	buf.Write(bytes.Repeat([]byte{0xBB}, int(layout.staticMesh)))

	binary.Write(buf, binary.LittleEndian, room.alternate)
	binary.Write(buf, binary.LittleEndian, room.flags)
	buf.Write(make([]byte, layout.trailer))
}

func writeLevelData(buf *bytes.Buffer, v Version, rooms []testRoom, floorData []uint16) {
	binary.Write(buf, binary.LittleEndian, uint32(0)) // unused
	binary.Write(buf, binary.LittleEndian, uint16(len(rooms)))
	for _, room := range rooms {
		writeRoom(buf, v, room)
	}
	binary.Write(buf, binary.LittleEndian, uint32(len(floorData)))
	binary.Write(buf, binary.LittleEndian, floorData)
}

func writeChunk(buf *bytes.Buffer, data []byte) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(data)
	zw.Close()

	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	binary.Write(buf, binary.LittleEndian, uint32(compressed.Len()))
	buf.Write(compressed.Bytes())
}

// createTestLevel creates a minimal level file of the given version.
func createTestLevel(v Version, rooms []testRoom, floorData []uint16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(v))

	switch v.Game() {
	case 1:
		binary.Write(buf, binary.LittleEndian, uint32(1))
		buf.Write(make([]byte, textile8Size))
		writeLevelData(buf, v, rooms, floorData)
	case 2, 3:
		buf.Write(make([]byte, paletteSize+palette16Size))
		binary.Write(buf, binary.LittleEndian, uint32(0))
		writeLevelData(buf, v, rooms, floorData)
	case 4:
		binary.Write(buf, binary.LittleEndian, [3]uint16{1, 0, 0})
		writeChunk(buf, bytes.Repeat([]byte{0xFF}, 64))
		writeChunk(buf, bytes.Repeat([]byte{0x7F}, 32))
		writeChunk(buf, nil)
		var levelData bytes.Buffer
		writeLevelData(&levelData, v, rooms, floorData)
		writeChunk(buf, levelData.Bytes())
	}
	return buf.Bytes()
}

func sampleRooms() []testRoom {
	return []testRoom{
		{
			info: RoomInfo{X: 1024, Z: 2048, YBottom: 0, YTop: -2048},
			numZ: 2,
			numX: 1,
			sectors: []RawSector{
				{FDIndex: 0, BoxIndex: 1, RoomBelow: 0xFF, Floor: -127, RoomAbove: 0xFF, Ceiling: -127},
				{FDIndex: 1, BoxIndex: 2, RoomBelow: 1, Floor: 0, RoomAbove: 0xFF, Ceiling: -8},
			},
			alternate: 1,
			flags:     0x0001,
		},
		{
			info:      RoomInfo{YBottom: 1024, YTop: 0},
			numZ:      1,
			numX:      1,
			sectors:   []RawSector{{FDIndex: 3, RoomBelow: 0xFF, Floor: 4, RoomAbove: 0, Ceiling: 0}},
			alternate: -1,
		},
	}
}

var sampleFloorData = []uint16{0, 0x8001, 0x0001, 0x8005}

func TestParse_AllVersions(t *testing.T) {
	for _, v := range []Version{VersionTR1, VersionTR2, VersionTR3, VersionTR3b, VersionTR4} {
		t.Run(v.String(), func(t *testing.T) {
			level, err := Parse(createTestLevel(v, sampleRooms(), sampleFloorData))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if level.Version != v {
				t.Errorf("expected version %s, got %s", v, level.Version)
			}
			if len(level.Rooms) != 2 {
				t.Fatalf("expected 2 rooms, got %d", len(level.Rooms))
			}

			room := level.Rooms[0]
			want := sampleRooms()[0]
			if room.Info != want.info {
				t.Errorf("room info = %+v, expected %+v", room.Info, want.info)
			}
			if room.NumZSectors != 2 || room.NumXSectors != 1 {
				t.Errorf("expected 1x2 sectors, got %dx%d", room.NumXSectors, room.NumZSectors)
			}
			if !reflect.DeepEqual(room.Sectors, want.sectors) {
				t.Errorf("sectors = %+v, expected %+v", room.Sectors, want.sectors)
			}
			if room.AlternateRoom != 1 || room.Flags != 1 {
				t.Errorf("expected alternate 1 flags 1, got %d %d", room.AlternateRoom, room.Flags)
			}
			if level.Rooms[1].AlternateRoom != -1 {
				t.Errorf("expected no alternate for room 1, got %d", level.Rooms[1].AlternateRoom)
			}
			if !reflect.DeepEqual(level.FloorData, sampleFloorData) {
				t.Errorf("floor data = %v, expected %v", level.FloorData, sampleFloorData)
			}
		})
	}
}

func TestParse_EmptyLevel(t *testing.T) {
	level, err := Parse(createTestLevel(VersionTR1, nil, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(level.Rooms) != 0 || len(level.FloorData) != 0 {
		t.Errorf("expected empty level, got %d rooms %d words", len(level.Rooms), len(level.FloorData))
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	data := []byte{0x11, 0x22, 0x33, 0x44, 0, 0, 0, 0}
	_, err := Parse(data)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestParse_TruncatedData(t *testing.T) {
	for _, v := range []Version{VersionTR1, VersionTR3, VersionTR4} {
		data := createTestLevel(v, sampleRooms(), sampleFloorData)
		for _, cut := range []int{2, 5, len(data) / 2, len(data) - 1} {
			_, err := Parse(data[:cut])
			if err == nil {
				t.Errorf("%s cut at %d: expected error", v, cut)
				continue
			}
			if !errors.Is(err, ErrTruncatedLevelData) && !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("%s cut at %d: unexpected error %v", v, cut, err)
			}
		}
	}
}

func TestParse_TruncatedRoomContext(t *testing.T) {
	data := createTestLevel(VersionTR1, sampleRooms(), sampleFloorData)
	// Cut inside the second room's light records.
	cut := len(data) - 4 - 2*len(sampleFloorData) - 40
	_, err := Parse(data[:cut])
	if !errors.Is(err, ErrTruncatedLevelData) {
		t.Fatalf("expected ErrTruncatedLevelData, got %v", err)
	}
}

func TestParse_InvalidChunk(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(VersionTR4))
	binary.Write(buf, binary.LittleEndian, [3]uint16{})
	for i := 0; i < 3; i++ {
		writeChunk(buf, nil)
	}
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint32(4))
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef})

	_, err := Parse(buf.Bytes())
	if !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("expected ErrInvalidChunk, got %v", err)
	}
}

// writeTR4Prefix writes a TR4 header with three empty texture chunks.
func writeTR4Prefix(buf *bytes.Buffer) {
	binary.Write(buf, binary.LittleEndian, uint32(VersionTR4))
	binary.Write(buf, binary.LittleEndian, [3]uint16{})
	for i := 0; i < 3; i++ {
		writeChunk(buf, nil)
	}
}

func TestParse_ChunkSizeMismatch(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write([]byte{1, 2, 3})
	zw.Close()

	tests := []struct {
		name         string
		uncompressed uint32
	}{
		{"huge declared size", 0xFFFFFFF0},
		{"larger than payload", 64},
		{"smaller than payload", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			writeTR4Prefix(buf)
			binary.Write(buf, binary.LittleEndian, tt.uncompressed)
			binary.Write(buf, binary.LittleEndian, uint32(compressed.Len()))
			buf.Write(compressed.Bytes())

			_, err := Parse(buf.Bytes())
			if !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("expected ErrInvalidChunk, got %v", err)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	tests := []struct {
		version  Version
		expected string
	}{
		{VersionTR1, "TR1"},
		{VersionTR2, "TR2"},
		{VersionTR3, "TR3"},
		{VersionTR3b, "TR3"},
		{VersionTR4, "TR4"},
		{Version(0x1234), "Unknown(0x00001234)"},
	}
	for _, tc := range tests {
		if tc.version.String() != tc.expected {
			t.Errorf("String() = %q, expected %q", tc.version.String(), tc.expected)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("TR4")
	if err != nil || v != VersionTR4 {
		t.Errorf("ParseVersion(TR4) = %s, %v", v, err)
	}
	if _, err := ParseVersion("TR9"); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}
