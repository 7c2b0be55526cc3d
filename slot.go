package tdd

import "fmt"

// SlotID names a generated-code slot. Each draft version of the generated
// implementation has its own slot.
type SlotID string

const (
	SlotV1 SlotID = "v1"
	SlotV2 SlotID = "v2"
	SlotV3 SlotID = "v3"
)

// Slots returns the slot identifiers in selector order.
func Slots() []SlotID {
	return []SlotID{SlotV1, SlotV2, SlotV3}
}

// Validate reports whether id is a known slot.
func (id SlotID) Validate() error {
	for _, s := range Slots() {
		if id == s {
			return nil
		}
	}
	return fmt.Errorf("unknown version %q: %w", string(id), ErrValidation)
}

// CodeSlot holds the latest code of one slot and the fence tag it arrived
// with. A slot is overwritten wholesale, never merged.
type CodeSlot struct {
	Code     string
	Language string
}
