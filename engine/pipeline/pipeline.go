package pipeline

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/phase"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
)

// ErrSceneDrawFailed wraps any failure of the Target during a frame.
var ErrSceneDrawFailed = errors.New("scene draw failed")

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Entities     int
	Objects      int
	Skipped      int
	ActiveLights int
	Duration     time.Duration
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	flavor        technique.Flavor
	background    common.ColorValue
	hasBackground bool
	ambient       common.ColorValue
	slotPolicy    light.SlotPolicy
	refineWorkers int

	tech    technique.Technique
	phase   phase.Phase
	updater *light.Updater

	stage atomic.Int32
	frame light.Frame
	last  FrameStats
}

// Pipeline renders a scene through a single technique and phase: it clears the target,
// uploads lights, classifies and refines every entity, sorts the objects and submits them.
// Render must not be called concurrently.
type Pipeline interface {
	// Render draws one frame.
	//
	// Parameters:
	//   - scene: the entities and lights
	//   - cam: the camera
	//   - target: the command target
	//
	// Returns:
	//   - Status: the Target's submission status
	//   - error: ErrSceneDrawFailed, ErrInvalidDepth or a light overflow error
	Render(scene Scene, cam Camera, target Target) (Status, error)

	// Stage returns the current stage. It is StageIdle outside of Render.
	Stage() Stage

	// Background returns the clear color and whether clearing is enabled.
	Background() (common.ColorValue, bool)

	// SetBackground enables clearing with color c.
	SetBackground(c common.ColorValue)

	// DisableBackground turns clearing off; the frame draws over the target's contents.
	DisableBackground()

	// Technique returns the pipeline's technique.
	Technique() technique.Technique

	// Phase returns the pipeline's phase.
	Phase() phase.Phase

	// LastFrame returns statistics of the last successful frame.
	LastFrame() FrameStats

	// Release stops the phase's refine workers. GPU resources belong to the Factory.
	Release()
}

var _ Pipeline = &pipeline{}

// New creates a Pipeline, performing technique setup through factory.
//
// Parameters:
//   - factory: the resource factory
//   - opts: variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the pipeline
//   - error: a technique setup error
func New(factory technique.Factory, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		flavor:        technique.FlavorForward,
		hasBackground: true,
		ambient:       technique.DefaultAmbient,
		slotPolicy:    light.SlotByActiveOrder,
		refineWorkers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}

	tech, err := technique.New(factory, p.flavor, technique.WithAmbient(p.ambient))
	if err != nil {
		return nil, err
	}
	p.tech = tech
	p.phase = phase.NewPhase("main", tech, phase.WithRefineWorkers(p.refineWorkers))
	if p.flavor.Lit() {
		p.updater = light.NewUpdater(p.slotPolicy)
	}
	return p, nil
}

func (p *pipeline) Stage() Stage {
	return Stage(p.stage.Load())
}

func (p *pipeline) setStage(s Stage) {
	p.stage.Store(int32(s))
}

func (p *pipeline) Background() (common.ColorValue, bool) {
	return p.background, p.hasBackground
}

func (p *pipeline) SetBackground(c common.ColorValue) {
	p.background = c
	p.hasBackground = true
}

func (p *pipeline) DisableBackground() {
	p.hasBackground = false
}

func (p *pipeline) Technique() technique.Technique {
	return p.tech
}

func (p *pipeline) Phase() phase.Phase {
	return p.phase
}

func (p *pipeline) LastFrame() FrameStats {
	return p.last
}

func (p *pipeline) Release() {
	p.phase.Release()
}

func (p *pipeline) Render(scene Scene, cam Camera, target Target) (Status, error) {
	start := time.Now()
	defer p.setStage(StageIdle)
	p.phase.Reset()

	submitted := false
	if p.hasBackground {
		if err := target.Clear(p.background, 1, 0); err != nil {
			return Status{}, fmt.Errorf("%w: clear: %w", ErrSceneDrawFailed, err)
		}
		defer func() {
			if d, ok := target.(FrameDiscarder); ok && !submitted {
				d.DiscardFrame()
			}
		}()
	}

	var frame *light.Frame
	if p.updater != nil {
		f, err := p.updater.Update(scene.Lights())
		if err != nil {
			return Status{}, fmt.Errorf("light update: %w", err)
		}
		if err := target.UpdateLights(p.tech.LightBuffer(), f.Payload); err != nil {
			return Status{}, fmt.Errorf("%w: light upload: %w", ErrSceneDrawFailed, err)
		}
		p.frame = f
		frame = &p.frame
	}
	p.setStage(StageCleared)

	viewMx, proj := cam.ViewMatrix(), cam.ProjectionMatrix()
	entities := scene.Entities()
	skipped := 0
	for _, e := range entities {
		ok, err := p.phase.Enqueue(e, view.New(proj, viewMx, e.Transform()))
		if err != nil {
			return Status{}, err
		}
		if !ok {
			skipped++
		}
	}
	p.phase.Refine(frame)
	p.setStage(StagePopulated)

	objects := p.phase.Sort()
	p.setStage(StageSorted)

	submitted = true
	status, err := target.Submit(objects)
	if err != nil {
		common.Logger().Warn("frame dropped", "error", err)
		return status, fmt.Errorf("%w: %w", ErrSceneDrawFailed, err)
	}
	p.setStage(StageSubmitted)

	p.last = FrameStats{
		Entities: len(entities),
		Objects:  len(objects),
		Skipped:  skipped,
		Duration: time.Since(start),
	}
	if frame != nil {
		p.last.ActiveLights = frame.Active
	}
	common.Logger().Debug("frame rendered",
		"objects", p.last.Objects,
		"skipped", p.last.Skipped,
		"drawCalls", status.DrawCalls,
	)
	return status, nil
}
