// Package floordata decodes the floor-data word stream of Tomb Raider style
// levels into per-sector flags, corner heights, portals and triggers.
package floordata

// WordSource is a read-only view over a level's floor-data words.
type WordSource interface {
	Len() int
	// Word returns the word at index. index must be less than Len().
	Word(index int) uint16
}

// Words is a WordSource backed by a slice.
type Words []uint16

// Len returns the number of words.
func (w Words) Len() int {
	return len(w)
}

// Word returns the word at index.
func (w Words) Word(index int) uint16 {
	return w[index]
}

// At returns the word at index, or false if index is out of range.
func (w Words) At(index int) (uint16, bool) {
	if index < 0 || index >= len(w) {
		return 0, false
	}
	return w[index], true
}

// Function and subfunction field layout of a floor-data function word.
const (
	functionMask    = 0x1F
	subfunctionMask = 0x7F
	subfunctionBit  = 8
	endBit          = 0x8000
)

// splitFunction extracts the function and subfunction codes from a word.
func splitFunction(word uint16) (function, subfunction uint8) {
	return uint8(word & functionMask), uint8((word >> subfunctionBit) & subfunctionMask)
}

// cursor walks a WordSource with bound checks on every read.
type cursor struct {
	words WordSource
	pos   int
}

// next advances one word and returns it. It returns false when the
// advance would run past the end of the source; pos is left unchanged.
func (c *cursor) next() (uint16, bool) {
	if c.pos+1 >= c.words.Len() {
		return 0, false
	}
	c.pos++
	return c.words.Word(c.pos), true
}

// skip advances one word without reading it.
func (c *cursor) skip() bool {
	_, ok := c.next()
	return ok
}
