package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/trview/pkg/floordata"
)

// sectorLine is the one-line summary used by the sectors listing.
func sectorLine(s *floordata.Sector) string {
	c := s.Corners()
	line := fmt.Sprintf("%5d (%2d,%2d) %6.2f %6.2f %6.2f %6.2f  %s",
		s.ID(), s.X(), s.Z(),
		c[floordata.CornerNW], c[floordata.CornerSW], c[floordata.CornerNE], c[floordata.CornerSE],
		s.Flags())
	if portal, err := s.Portal(); err == nil {
		line += " -> " + strconv.Itoa(int(portal))
	}
	if s.Truncated() {
		line += " (truncated)"
	}
	return line
}

func writeSector(out io.Writer, s *floordata.Sector) {
	c := s.Corners()
	fmt.Fprintf(out, "Sector:        %d (x %d, z %d)\n", s.ID(), s.X(), s.Z())
	fmt.Fprintf(out, "Flags:         %s\n", s.Flags())
	if climb := s.ClimbDirection(); climb != 0 {
		fmt.Fprintf(out, "Climbable:     %s\n", climb)
	}
	fmt.Fprintf(out, "Corners:       NW %.2f  SW %.2f  NE %.2f  SE %.2f\n",
		c[floordata.CornerNW], c[floordata.CornerSW], c[floordata.CornerNE], c[floordata.CornerSE])
	if portal, err := s.Portal(); err == nil {
		fmt.Fprintf(out, "Portal:        %d\n", portal)
	}
	if s.HasFlag(floordata.FlagRoomAbove) {
		fmt.Fprintf(out, "Room above:    %d\n", s.RoomAbove())
	}
	if s.HasFlag(floordata.FlagRoomBelow) {
		fmt.Fprintf(out, "Room below:    %d\n", s.RoomBelow())
	}
	if s.HasFlag(floordata.FlagFloorSlant) {
		fmt.Fprintf(out, "Floor slope:   0x%04X\n", s.FloorSlope())
	}
	if s.HasFlag(floordata.FlagCeilingSlant) {
		fmt.Fprintf(out, "Ceiling slope: 0x%04X\n", s.CeilingSlope())
	}
	if t := s.Triangulation(); t != floordata.TriangulationNone {
		fmt.Fprintf(out, "Triangulation: %s (0x%04X)\n", t, s.FloorTriangulation())
	}
	if s.IsFloor() {
		for i, tri := range s.Triangles() {
			n := tri.Normal()
			fmt.Fprintf(out, "Triangle %d:    normal (%.3f, %.3f, %.3f)\n", i, n.X, n.Y, n.Z)
		}
	}
	if info, ok := s.Trigger(); ok {
		fmt.Fprintf(out, "Trigger:       %s\n", triggerLine(info))
		writeCommands(out, info.Commands)
	}
	if s.Truncated() {
		fmt.Fprintln(out, "Truncated:     yes")
	}
}

func triggerLine(info *floordata.TriggerInfo) string {
	line := fmt.Sprintf("%s timer %d mask 0x%02X", info.Type, info.Timer, info.Mask)
	if info.OneShot {
		line += " oneshot"
	}
	return line
}

func writeCommands(out io.Writer, cmds []floordata.Command) {
	for _, cmd := range cmds {
		fmt.Fprintf(out, "  #%-3d %-13s %d\n", cmd.Number, cmd.Type, cmd.Index)
	}
}

func joinRooms(rooms []uint16) string {
	if len(rooms) == 0 {
		return "-"
	}
	parts := make([]string, len(rooms))
	for i, r := range rooms {
		parts[i] = strconv.Itoa(int(r))
	}
	return strings.Join(parts, " ")
}
