package level

import (
	"errors"
	"fmt"
	"weak"

	"github.com/Faultbox/trview/pkg/floordata"
)

// ErrLevelUnavailable is returned by queries that need the owning level
// after it has been released.
var ErrLevelUnavailable = errors.New("owning level is no longer available")

// Sector is a decoded sector bound to its room. It refers to its level
// weakly, so holding a Sector does not keep the level alive.
type Sector struct {
	*floordata.Sector
	room  uint16
	level weak.Pointer[Level]
}

// Room returns the index of the room the sector belongs to.
func (s *Sector) Room() uint16 { return s.room }

// Neighbours returns the rooms reachable from the sector, expanded through
// the level's alternate rooms.
func (s *Sector) Neighbours() ([]uint16, error) {
	lvl := s.level.Value()
	if lvl == nil {
		return nil, fmt.Errorf("room %d sector %d: %w", s.room, s.ID(), ErrLevelUnavailable)
	}
	return s.Sector.Neighbours(lvl), nil
}

// Neighbours returns the rooms reachable from s. Unlike Sector.Neighbours it
// cannot fail, since the caller holds the level.
func (l *Level) Neighbours(s *Sector) []uint16 {
	return s.Sector.Neighbours(l)
}

// TriggerRef locates a decoded trigger.
type TriggerRef struct {
	Room   uint16
	Sector uint32
	Info   *floordata.TriggerInfo
}

// Triggers lists every trigger of the level in room and sector order.
func (l *Level) Triggers() []TriggerRef {
	var refs []TriggerRef
	for _, room := range l.rooms {
		for _, s := range room.sectors {
			if info, ok := s.Trigger(); ok {
				refs = append(refs, TriggerRef{Room: room.id, Sector: s.ID(), Info: info})
			}
		}
	}
	return refs
}

// Stats summarizes the decoded sectors of a level.
type Stats struct {
	Rooms     int `json:"rooms"`
	Sectors   int `json:"sectors"`
	Walls     int `json:"walls"`
	Portals   int `json:"portals"`
	Triggers  int `json:"triggers"`
	Commands  int `json:"commands"`
	Truncated int `json:"truncated"`
}

// Stats counts sectors by their decoded properties.
func (l *Level) Stats() Stats {
	st := Stats{Rooms: len(l.rooms)}
	for _, room := range l.rooms {
		for _, s := range room.sectors {
			st.Sectors++
			if s.HasFlag(floordata.FlagWall) {
				st.Walls++
			}
			if s.HasFlag(floordata.FlagPortal) {
				st.Portals++
			}
			if info, ok := s.Trigger(); ok {
				st.Triggers++
				st.Commands += len(info.Commands)
			}
			if s.Truncated() {
				st.Truncated++
			}
		}
	}
	return st
}
