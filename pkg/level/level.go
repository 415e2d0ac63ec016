// Package level builds the decoded room and sector model of a level.
package level

import (
	"sync"
	"weak"

	"go.uber.org/zap"

	"github.com/Faultbox/trview/pkg/floordata"
	"github.com/Faultbox/trview/pkg/trlevel"
)

// heightScale converts world units to sector height units.
const heightScale = 1024

// Level is a loaded level with every sector decoded.
type Level struct {
	version   trlevel.Version
	rooms     []*Room
	floorData floordata.Words
}

// Room is one room of a level.
type Room struct {
	id            uint16
	info          trlevel.RoomInfo
	numX          uint16
	numZ          uint16
	alternateRoom int16
	flags         int16
	sectors       []*Sector
}

type options struct {
	logger  *zap.Logger
	workers int
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used while decoding rooms.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers sets how many rooms are decoded concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// New decodes every sector of every room in raw.
func New(raw *trlevel.Level, opts ...Option) *Level {
	o := options{logger: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	lvl := &Level{
		version:   raw.Version,
		rooms:     make([]*Room, len(raw.Rooms)),
		floorData: floordata.Words(raw.FloorData),
	}
	self := weak.Make(lvl)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(o.workers, max(len(raw.Rooms), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				lvl.rooms[i] = newRoom(uint16(i), &raw.Rooms[i], lvl.floorData, self, o.logger)
			}
		}()
	}
	for i := range raw.Rooms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	o.logger.Debug("level decoded",
		zap.Stringer("version", raw.Version),
		zap.Int("rooms", len(lvl.rooms)),
		zap.Int("floor_data_words", len(lvl.floorData)))
	return lvl
}

func newRoom(id uint16, raw *trlevel.Room, words floordata.Words, lvl weak.Pointer[Level], log *zap.Logger) *Room {
	room := &Room{
		id:            id,
		info:          raw.Info,
		numX:          raw.NumXSectors,
		numZ:          raw.NumZSectors,
		alternateRoom: raw.AlternateRoom,
		flags:         raw.Flags,
		sectors:       make([]*Sector, len(raw.Sectors)),
	}

	baseline := room.FloorBaseline()
	var truncated, triggers int
	for i, rs := range raw.Sectors {
		tile := floordata.Tile{
			ID:        uint32(i),
			Index:     rs.FDIndex,
			Floor:     rs.Floor,
			Ceiling:   rs.Ceiling,
			RoomAbove: rs.RoomAbove,
			RoomBelow: rs.RoomBelow,
		}
		if room.numZ > 0 {
			tile.X = uint16(i / int(room.numZ))
			tile.Z = uint16(i % int(room.numZ))
		}
		s := floordata.Decode(words, tile, baseline)
		if s.Truncated() {
			truncated++
		}
		if s.HasFlag(floordata.FlagTrigger) {
			triggers++
		}
		room.sectors[i] = &Sector{Sector: s, room: id, level: lvl}
	}

	log.Debug("room decoded",
		zap.Uint16("room", id),
		zap.Int("sectors", len(room.sectors)),
		zap.Int("triggers", triggers))
	if truncated > 0 {
		log.Warn("room has truncated floor data",
			zap.Uint16("room", id),
			zap.Int("sectors", truncated))
	}
	return room
}

// Version returns the level file version.
func (l *Level) Version() trlevel.Version { return l.version }

// FloorData returns the level's floor-data words.
func (l *Level) FloorData() floordata.Words { return l.floorData }

// Rooms returns all rooms in index order.
func (l *Level) Rooms() []*Room { return l.rooms }

// Room returns the room with the given index.
func (l *Level) Room(id uint16) (*Room, bool) {
	if int(id) >= len(l.rooms) {
		return nil, false
	}
	return l.rooms[id], true
}

// AlternateRoom returns the flip-map counterpart of room id.
func (l *Level) AlternateRoom(id uint16) (uint16, bool) {
	room, ok := l.Room(id)
	if !ok {
		return 0, false
	}
	return room.AlternateRoom()
}

// ID returns the room index.
func (r *Room) ID() uint16 { return r.id }

// Info returns the room position and vertical extent.
func (r *Room) Info() trlevel.RoomInfo { return r.info }

// Size returns the sector grid dimensions.
func (r *Room) Size() (numX, numZ uint16) { return r.numX, r.numZ }

// Flags returns the raw room flags.
func (r *Room) Flags() int16 { return r.flags }

// FloorBaseline returns the room floor height in sector units.
func (r *Room) FloorBaseline() float32 {
	return float32(r.info.YBottom) / heightScale
}

// AlternateRoom returns the flip-map counterpart of the room.
func (r *Room) AlternateRoom() (uint16, bool) {
	if r.alternateRoom < 0 {
		return 0, false
	}
	return uint16(r.alternateRoom), true
}

// Sectors returns the room's sectors in column-major order.
func (r *Room) Sectors() []*Sector { return r.sectors }

// SectorByID returns the sector at index id of the sector table.
func (r *Room) SectorByID(id uint32) (*Sector, bool) {
	if int64(id) >= int64(len(r.sectors)) {
		return nil, false
	}
	return r.sectors[id], true
}

// Sector returns the sector at grid position (x, z).
func (r *Room) Sector(x, z uint16) (*Sector, bool) {
	if x >= r.numX || z >= r.numZ {
		return nil, false
	}
	return r.SectorByID(uint32(x)*uint32(r.numZ) + uint32(z))
}
