package light

import "fmt"

const (
	// maskFieldBits is the width of one slot field in a Mask lane.
	maskFieldBits = 8
	// maskLaneBits is the width of one Mask lane.
	maskLaneBits = 32
	// MaxMaskLights is the number of slot fields a Mask holds (4 lanes × 4 fields).
	// It is a hard limit: PackMask fails rather than dropping lights.
	MaxMaskLights = len(Mask{}) * maskLaneBits / maskFieldBits
)

// Mask is a 128-bit light mask laid out as four 32-bit lanes. Each lane holds
// four 8-bit fields, filled from the least significant byte up; a field holds
// the light buffer slot of one influencing light, and 0 terminates the list.
type Mask [4]uint32

// Field decodes the i-th 8-bit field, counting across lanes.
//
// Parameters:
//   - i: field index in [0, MaxMaskLights)
//
// Returns:
//   - uint8: the slot stored in the field, 0 if empty
func (m Mask) Field(i int) uint8 {
	lane := i * maskFieldBits / maskLaneBits
	shift := i * maskFieldBits % maskLaneBits
	return uint8(m[lane] >> shift)
}

// PackMask builds the light mask of an object from the scene lights. Every
// active light is treated as influencing the object; there is no bounds test.
//
// Parameters:
//   - lights: the scene lights, active and inactive
//   - policy: the slot assignment policy shared with the light buffer
//
// Returns:
//   - Mask: the packed mask
//   - error: ErrLightMaskOverflow beyond MaxMaskLights active lights, or
//     ErrLightBufferFull when a slot does not fit in a field
func PackMask(lights []Light, policy SlotPolicy) (Mask, error) {
	var mask Mask
	lane, bit := 0, 0
	for slot := range Slots(lights, policy) {
		if lane == len(mask) {
			return Mask{}, fmt.Errorf("%w: more than %d active lights", ErrLightMaskOverflow, MaxMaskLights)
		}
		if slot >= MaxLights {
			return Mask{}, fmt.Errorf("%w: slot %d exceeds %d", ErrLightBufferFull, slot, MaxLights-1)
		}
		mask[lane] |= uint32(slot) << bit
		bit += maskFieldBits
		if bit == maskLaneBits {
			bit = 0
			lane++
		}
	}
	return mask, nil
}
