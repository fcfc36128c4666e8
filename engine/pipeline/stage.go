package pipeline

import "fmt"

// Stage is the progress of a pipeline through one Render call.
type Stage int32

const (
	// StageIdle is the stage between frames.
	StageIdle Stage = iota
	// StageCleared follows the optional background clear and light upload.
	StageCleared
	// StagePopulated follows classification and parameter refinement of every entity.
	StagePopulated
	// StageSorted follows draw ordering.
	StageSorted
	// StageSubmitted follows a successful submission to the target.
	StageSubmitted
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageCleared:
		return "cleared"
	case StagePopulated:
		return "populated"
	case StageSorted:
		return "sorted"
	case StageSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("Stage(%d)", int32(s))
	}
}
