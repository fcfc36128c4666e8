package light

import (
	"errors"
	"fmt"
	"iter"
)

// SlotPolicy decides which light buffer slot an active light occupies. Both
// the buffer upload and the light mask use the same policy, so the slot
// numbers written into a mask always address the right buffer entry.
type SlotPolicy int

const (
	// SlotByActiveOrder numbers active lights 1, 2, 3... in scene order,
	// ignoring inactive lights. Slots are dense.
	SlotByActiveOrder SlotPolicy = iota

	// SlotBySceneIndex gives the light at scene index i slot i+1 whether or not
	// earlier lights are active. Inactive lights leave zeroed holes in the
	// buffer and consume slot numbers.
	SlotBySceneIndex
)

// String implements fmt.Stringer.
func (p SlotPolicy) String() string {
	switch p {
	case SlotByActiveOrder:
		return "active-order"
	case SlotBySceneIndex:
		return "scene-index"
	default:
		return fmt.Sprintf("SlotPolicy(%d)", int(p))
	}
}

// ParseSlotPolicy parses the String form of a SlotPolicy.
//
// Parameters:
//   - s: "active-order" or "scene-index"
//
// Returns:
//   - SlotPolicy: the parsed policy
//   - error: non-nil for unknown names
func ParseSlotPolicy(s string) (SlotPolicy, error) {
	switch s {
	case "active-order", "":
		return SlotByActiveOrder, nil
	case "scene-index":
		return SlotBySceneIndex, nil
	default:
		return 0, fmt.Errorf("unknown light slot policy %q", s)
	}
}

var (
	// ErrLightBufferFull is returned when an active light would land beyond
	// the last slot of the MaxLights buffer.
	ErrLightBufferFull = errors.New("light buffer full")

	// ErrLightMaskOverflow is returned when more active lights exist than a
	// light mask can encode (MaxMaskLights).
	ErrLightMaskOverflow = errors.New("light mask overflow")
)

// Slots yields (slot, light) for every active light in scene order under the
// given policy. Slot 0 is reserved, so the first slot yielded is at least 1.
//
// Parameters:
//   - lights: the scene lights, active and inactive
//   - policy: the slot assignment policy
//
// Returns:
//   - iter.Seq2[int, Light]: the active lights with their slots
func Slots(lights []Light, policy SlotPolicy) iter.Seq2[int, Light] {
	return func(yield func(int, Light) bool) {
		next := 0
		for i, l := range lights {
			if l == nil || !l.Active() {
				continue
			}
			next++
			slot := next
			if policy == SlotBySceneIndex {
				slot = i + 1
			}
			if !yield(slot, l) {
				return
			}
		}
	}
}
