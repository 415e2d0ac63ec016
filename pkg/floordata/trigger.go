package floordata

import "fmt"

// TriggerType is the activation kind of a trigger, taken from the
// subfunction of the trigger function word.
type TriggerType uint8

// Trigger types.
const (
	TriggerTrigger TriggerType = iota
	TriggerPad
	TriggerSwitch
	TriggerKey
	TriggerPickup
	TriggerHeavyTrigger
	TriggerAntipad
	TriggerCombat
	TriggerDummy
	TriggerAntiTrigger
	TriggerHeavySwitch
	TriggerHeavyAntiTrigger
	TriggerMonkey
	TriggerSkeleton
	TriggerTightrope
	TriggerCrawl
	TriggerClimb
)

var triggerTypeNames = [...]string{
	"Trigger", "Pad", "Switch", "Key", "Pickup", "HeavyTrigger", "Antipad",
	"Combat", "Dummy", "AntiTrigger", "HeavySwitch", "HeavyAntiTrigger",
	"Monkey", "Skeleton", "Tightrope", "Crawl", "Climb",
}

// String returns the trigger type name.
func (t TriggerType) String() string {
	if int(t) < len(triggerTypeNames) {
		return triggerTypeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", t)
}

// CommandType is the action performed by a trigger command.
type CommandType uint8

// Command types.
const (
	CommandObject CommandType = iota
	CommandCamera
	CommandUnderwaterCurrent
	CommandFlipMap
	CommandFlipOn
	CommandFlipOff
	CommandLookAtItem
	CommandEndLevel
	CommandPlaySoundtrack
	CommandFlipeffect
	CommandSecretFound
	CommandClearBodies
	CommandFlyby
	CommandCutscene
)

var commandTypeNames = [...]string{
	"Object", "Camera", "UnderwaterCurrent", "FlipMap", "FlipOn", "FlipOff",
	"LookAtItem", "EndLevel", "PlaySoundtrack", "Flipeffect", "SecretFound",
	"ClearBodies", "Flyby", "Cutscene",
}

// String returns the command type name.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return fmt.Sprintf("Unknown(%d)", c)
}

// Command is one action of a trigger. Number is its position in the
// trigger's command list; Index is the object, room, effect or track number
// the action applies to.
type Command struct {
	Number int
	Type   CommandType
	Index  uint16
}

// TriggerInfo is a trigger attached to a sector.
type TriggerInfo struct {
	Type     TriggerType
	Timer    uint8
	OneShot  bool
	Mask     uint8 // 5-bit activation mask
	SectorID uint32
	Commands []Command
}

// Trigger setup and command word layout.
const (
	setupTimerMask   = 0x00FF
	setupOneShotBit  = 0x0100
	setupMaskShift   = 9
	setupMaskBits    = 0x1F
	commandTypeShift = 10
	commandTypeBits  = 0x1F
	commandIndexMask = 0x03FF
)

// BuildTrigger decodes a trigger starting at the trigger function word under
// *cursor. On return *cursor is the index of the last word consumed. It
// returns false when the setup word is past the end of words; a trigger whose
// command list was cut short is still returned.
func BuildTrigger(words WordSource, cursor *int, subfunction uint8, sectorID uint32) (*TriggerInfo, bool) {
	info, _, ok := buildTrigger(words, cursor, subfunction, sectorID)
	return info, ok
}

// buildTrigger also reports whether the command list ended on the word bound
// instead of a terminating command.
func buildTrigger(words WordSource, pos *int, subfunction uint8, sectorID uint32) (*TriggerInfo, bool, bool) {
	c := cursor{words: words, pos: *pos}
	defer func() { *pos = c.pos }()

	setup, ok := c.next()
	if !ok {
		return nil, true, false
	}

	info := &TriggerInfo{
		Type:     TriggerType(subfunction),
		Timer:    uint8(setup & setupTimerMask),
		OneShot:  setup&setupOneShotBit != 0,
		Mask:     uint8((setup >> setupMaskShift) & setupMaskBits),
		SectorID: sectorID,
	}

	// Key and switch triggers reference the lock or switch object first.
	if info.Type == TriggerKey || info.Type == TriggerSwitch {
		if !c.skip() {
			return info, true, true
		}
	}

	for {
		word, ok := c.next()
		if !ok {
			return info, true, true
		}
		action := CommandType((word >> commandTypeShift) & commandTypeBits)
		info.Commands = append(info.Commands, Command{
			Number: len(info.Commands),
			Type:   action,
			Index:  word & commandIndexMask,
		})
		// Camera commands carry a second word with timing that is not kept.
		// Only the command word's own high bit ends the list; files that set
		// it on the second word instead run on into the following words.
		if action == CommandCamera && !c.skip() {
			return info, true, true
		}
		if word&endBit != 0 {
			return info, false, true
		}
	}
}
