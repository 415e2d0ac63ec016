package trlevel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Record sizes in bytes.
const (
	textile8Size  = 256 * 256
	textile16Size = 256 * 256 * 2
	paletteSize   = 256 * 3
	palette16Size = 256 * 4
	portalSize    = 32
	sectorSize    = 8
)

// roomLayout holds the version-dependent sizes of the records that follow
// a room's sector grid.
type roomLayout struct {
	ambient    int64 // Ambient light / colour fields before the light count
	light      int64
	staticMesh int64
	trailer    int64 // Bytes after the room flags
}

func layoutFor(v Version) roomLayout {
	switch v.Game() {
	case 1:
		return roomLayout{ambient: 2, light: 18, staticMesh: 18}
	case 2:
		return roomLayout{ambient: 6, light: 24, staticMesh: 20}
	case 3:
		return roomLayout{ambient: 4, light: 24, staticMesh: 20, trailer: 3}
	default:
		return roomLayout{ambient: 4, light: 46, staticMesh: 20, trailer: 3}
	}
}

// reader wraps a byte reader with truncation-aware helpers.
type reader struct {
	r *bytes.Reader
}

func newReader(r *bytes.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) read(v any, what string) error {
	if err := binary.Read(r.r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: reading %s", ErrTruncatedLevelData, what)
	}
	return nil
}

// need checks that n more bytes are available.
func (r *reader) need(n int64, what string) error {
	if n < 0 || n > int64(r.r.Len()) {
		return fmt.Errorf("%w: reading %s", ErrTruncatedLevelData, what)
	}
	return nil
}

func (r *reader) skip(n int64, what string) error {
	if err := r.need(n, what); err != nil {
		return err
	}
	_, err := r.r.Seek(n, io.SeekCurrent)
	return err
}

// skipCounted skips a u16 count followed by count records of size bytes.
func (r *reader) skipCounted(size int64, what string) error {
	var count uint16
	if err := r.read(&count, what+" count"); err != nil {
		return err
	}
	return r.skip(int64(count)*size, what)
}

func readRooms(r *reader, v Version) ([]Room, error) {
	var count uint16
	if err := r.read(&count, "room count"); err != nil {
		return nil, err
	}
	layout := layoutFor(v)
	rooms := make([]Room, count)
	for i := range rooms {
		room, err := readRoom(r, layout)
		if err != nil {
			return nil, fmt.Errorf("reading room %d: %w", i, err)
		}
		rooms[i] = room
	}
	return rooms, nil
}

func readRoom(r *reader, layout roomLayout) (Room, error) {
	var room Room
	if err := r.read(&room.Info, "room info"); err != nil {
		return Room{}, err
	}

	var numDataWords uint32
	if err := r.read(&numDataWords, "room data size"); err != nil {
		return Room{}, err
	}
	if err := r.skip(int64(numDataWords)*2, "room geometry"); err != nil {
		return Room{}, err
	}
	if err := r.skipCounted(portalSize, "portals"); err != nil {
		return Room{}, err
	}

	if err := r.read(&room.NumZSectors, "sector rows"); err != nil {
		return Room{}, err
	}
	if err := r.read(&room.NumXSectors, "sector columns"); err != nil {
		return Room{}, err
	}
	count := int64(room.NumZSectors) * int64(room.NumXSectors)
	if err := r.need(count*sectorSize, "sectors"); err != nil {
		return Room{}, err
	}
	room.Sectors = make([]RawSector, count)
	if err := r.read(room.Sectors, "sectors"); err != nil {
		return Room{}, err
	}

	if err := r.skip(layout.ambient, "ambient light"); err != nil {
		return Room{}, err
	}
	if err := r.skipCounted(layout.light, "lights"); err != nil {
		return Room{}, err
	}
	if err := r.skipCounted(layout.staticMesh, "static meshes"); err != nil {
		return Room{}, err
	}

	if err := r.read(&room.AlternateRoom, "alternate room"); err != nil {
		return Room{}, err
	}
	if err := r.read(&room.Flags, "room flags"); err != nil {
		return Room{}, err
	}
	if err := r.skip(layout.trailer, "room trailer"); err != nil {
		return Room{}, err
	}
	return room, nil
}
