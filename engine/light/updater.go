package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phase/common"
)

// Payload is the light buffer upload for one frame. Data begins at byte
// Offset of the GPU buffer, which is slot 1. Slot 0 is reserved and stays zero.
type Payload struct {
	Offset uint64
	Data   []byte
	Slots  int
}

// Frame is the per-frame light state consumed by parameter refinement.
// Because Frame can only be produced by Updater.Update, holding one means the
// buffer contents and the mask agree for the frame.
type Frame struct {
	Payload Payload
	Mask    Mask
	Active  int
	Policy  SlotPolicy
}

// Updater packs scene lights into the GPU light buffer layout. The Data slice
// of a returned Payload is owned by the Updater and overwritten by the next
// call to Update.
type Updater struct {
	policy SlotPolicy
	data   []byte
}

// NewUpdater creates an Updater for the given slot policy.
//
// Parameters:
//   - policy: the slot assignment policy
//
// Returns:
//   - *Updater: the updater
func NewUpdater(policy SlotPolicy) *Updater {
	return &Updater{
		policy: policy,
		data:   make([]byte, 0, 16*GPULightSize),
	}
}

// Policy returns the slot policy of the updater.
func (u *Updater) Policy() SlotPolicy { return u.policy }

// Update packs every active light into its slot and computes the frame's
// light mask. Calling Update twice with the same lights yields identical
// payloads.
//
// Parameters:
//   - lights: the scene lights, active and inactive
//
// Returns:
//   - Frame: the payload and mask for this frame
//   - error: ErrLightBufferFull or ErrLightMaskOverflow
func (u *Updater) Update(lights []Light) (Frame, error) {
	mask, err := PackMask(lights, u.policy)
	if err != nil {
		return Frame{}, err
	}

	highest, active := 0, 0
	for slot := range Slots(lights, u.policy) {
		highest = max(highest, slot)
		active++
	}
	if highest >= MaxLights {
		return Frame{}, fmt.Errorf("%w: slot %d exceeds %d", ErrLightBufferFull, highest, MaxLights-1)
	}

	n := highest * GPULightSize
	if cap(u.data) < n {
		u.data = make([]byte, n)
	}
	u.data = u.data[:n]
	clear(u.data)

	for slot, l := range Slots(lights, u.policy) {
		g := NewGPULight(l)
		off := (slot - 1) * GPULightSize
		g.MarshalTo(u.data[off : off+GPULightSize])
	}

	common.Logger().Debug("lights updated", "active", active, "slots", highest, "policy", u.policy.String())

	return Frame{
		Payload: Payload{
			Offset: GPULightSize,
			Data:   u.data,
			Slots:  highest,
		},
		Mask:   mask,
		Active: active,
		Policy: u.policy,
	}, nil
}
