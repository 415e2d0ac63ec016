package level

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/trview/pkg/floordata"
)

// Snapshot is a serializable view of a decoded level.
type Snapshot struct {
	Version string         `json:"version"`
	Rooms   []RoomSnapshot `json:"rooms"`
}

// RoomSnapshot is the serializable view of a room.
type RoomSnapshot struct {
	ID            uint16           `json:"id"`
	NumX          uint16           `json:"num_x"`
	NumZ          uint16           `json:"num_z"`
	AlternateRoom *uint16          `json:"alternate_room,omitempty"`
	Sectors       []SectorSnapshot `json:"sectors"`
}

// SectorSnapshot is the serializable view of a sector.
type SectorSnapshot struct {
	ID            uint32           `json:"id"`
	X             uint16           `json:"x"`
	Z             uint16           `json:"z"`
	Flags         string           `json:"flags"`
	Climb         string           `json:"climb,omitempty"`
	Corners       [4]float32       `json:"corners"`
	Portal        *uint16          `json:"portal,omitempty"`
	Triangulation string           `json:"triangulation,omitempty"`
	Trigger       *TriggerSnapshot `json:"trigger,omitempty"`
	Truncated     bool             `json:"truncated,omitempty"`
}

// TriggerSnapshot is the serializable view of a trigger.
type TriggerSnapshot struct {
	Type     string            `json:"type"`
	Timer    uint8             `json:"timer"`
	OneShot  bool              `json:"oneshot"`
	Mask     uint8             `json:"mask"`
	Commands []CommandSnapshot `json:"commands"`
}

// CommandSnapshot is the serializable view of a trigger command.
type CommandSnapshot struct {
	Number int    `json:"number"`
	Type   string `json:"type"`
	Index  uint16 `json:"index"`
}

// NewSnapshot captures every room and sector of l.
func NewSnapshot(l *Level) Snapshot {
	snap := Snapshot{
		Version: l.version.String(),
		Rooms:   make([]RoomSnapshot, 0, len(l.rooms)),
	}
	for _, room := range l.rooms {
		rs := RoomSnapshot{
			ID:      room.id,
			NumX:    room.numX,
			NumZ:    room.numZ,
			Sectors: make([]SectorSnapshot, 0, len(room.sectors)),
		}
		if alt, ok := room.AlternateRoom(); ok {
			rs.AlternateRoom = &alt
		}
		for _, s := range room.sectors {
			rs.Sectors = append(rs.Sectors, NewSectorSnapshot(s.Sector))
		}
		snap.Rooms = append(snap.Rooms, rs)
	}
	return snap
}

// NewSectorSnapshot captures one decoded sector.
func NewSectorSnapshot(s *floordata.Sector) SectorSnapshot {
	ss := SectorSnapshot{
		ID:        s.ID(),
		X:         s.X(),
		Z:         s.Z(),
		Flags:     s.Flags().String(),
		Corners:   s.Corners(),
		Truncated: s.Truncated(),
	}
	if c := s.ClimbDirection(); c != 0 {
		ss.Climb = c.String()
	}
	if portal, err := s.Portal(); err == nil {
		ss.Portal = &portal
	}
	if t := s.Triangulation(); t != floordata.TriangulationNone {
		ss.Triangulation = t.String()
	}
	if info, ok := s.Trigger(); ok {
		ss.Trigger = NewTriggerSnapshot(info)
	}
	return ss
}

// NewTriggerSnapshot captures one decoded trigger.
func NewTriggerSnapshot(info *floordata.TriggerInfo) *TriggerSnapshot {
	ts := &TriggerSnapshot{
		Type:     info.Type.String(),
		Timer:    info.Timer,
		OneShot:  info.OneShot,
		Mask:     info.Mask,
		Commands: make([]CommandSnapshot, 0, len(info.Commands)),
	}
	for _, cmd := range info.Commands {
		ts.Commands = append(ts.Commands, CommandSnapshot{
			Number: cmd.Number,
			Type:   cmd.Type.String(),
			Index:  cmd.Index,
		})
	}
	return ts
}

// WriteSnapshot writes a zstd-compressed JSON snapshot of l to w.
func WriteSnapshot(w io.Writer, l *Level) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(NewSnapshot(l)); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	return enc.Close()
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	return snap, nil
}
