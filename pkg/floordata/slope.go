package floordata

// Corner indices into Sector.Corners.
const (
	CornerNW = 0 // x0, z1
	CornerSW = 1 // x0, z0
	CornerNE = 2 // x1, z1
	CornerSE = 3 // x1, z0
)

// clickScale converts a floor-data height unit (one click) to sector units.
const clickScale = 0.25

// SlopeDelta returns the per-corner height adjustment for a floor slant payload.
// The low byte is the signed X slope, the high byte the signed Z slope.
func SlopeDelta(payload uint16) [4]float32 {
	var delta [4]float32
	xSlope := float32(int8(payload & 0xFF))
	zSlope := float32(int8(payload >> 8))

	if xSlope > 0 {
		delta[0] += xSlope * clickScale
		delta[1] += xSlope * clickScale
	} else if xSlope < 0 {
		delta[2] -= xSlope * clickScale
		delta[3] -= xSlope * clickScale
	}

	if zSlope > 0 {
		delta[0] += zSlope * clickScale
		delta[2] += zSlope * clickScale
	} else if zSlope < 0 {
		delta[1] -= zSlope * clickScale
		delta[3] -= zSlope * clickScale
	}
	return delta
}

// TriangulationDelta returns the per-corner height adjustment for a packed
// triangulation corner word. Each corner is a 4-bit height; the highest
// corner stays at the baseline and the others are offset by their distance
// from it.
func TriangulationDelta(packed uint16) [4]float32 {
	c00 := (packed & 0x00F0) >> 4
	c01 := (packed & 0x0F00) >> 8
	c10 := packed & 0x000F
	c11 := (packed & 0xF000) >> 12

	maxCorner := max(c00, c01, c10, c11)
	return [4]float32{
		float32(maxCorner-c00) * clickScale,
		float32(maxCorner-c01) * clickScale,
		float32(maxCorner-c10) * clickScale,
		float32(maxCorner-c11) * clickScale,
	}
}

// TriangulationFor maps a floor triangulation function code to its diagonal.
// It returns false for every other function code.
func TriangulationFor(function uint8) (Triangulation, bool) {
	switch function {
	case fnFloorTriangleNWSE, fnFloorTriangleNWSESE, fnFloorTriangleNWSENW:
		return TriangulationNWSE, true
	case fnFloorTriangleNESW, fnFloorTriangleNESWSW, fnFloorTriangleNESWNE:
		return TriangulationNESW, true
	}
	return TriangulationNone, false
}

func applyDelta(corners *[4]float32, delta [4]float32) {
	for i := range corners {
		corners[i] += delta[i]
	}
}
