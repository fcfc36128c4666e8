package phase

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
	"github.com/chewxy/math32"
)

// ErrInvalidDepth is returned by Enqueue when an object's homogeneous depth is NaN or infinite.
var ErrInvalidDepth = errors.New("invalid object depth")

// minParallelObjects is the object count below which refinement stays on the calling goroutine.
const minParallelObjects = 64

// phase is the implementation of the Phase interface.
type phase struct {
	name  string
	tech  technique.Technique
	cache *technique.Cache
	order Order

	// objects is the per-frame arena; its backing array is reused across frames
	objects []Object
	sorted  []*Object

	refineWorkers int
	pool          worker.DynamicWorkerPool
}

// Phase accumulates the drawable objects of one frame, refines their parameters and
// sorts them into draw order. A Phase is driven by a single goroutine per frame.
type Phase interface {
	// Name returns the phase name.
	Name() string

	// Technique returns the technique the phase classifies with.
	Technique() technique.Technique

	// Cache returns the compile cache shared by every frame of this phase.
	Cache() *technique.Cache

	// Reset empties the object list, keeping its storage.
	Reset()

	// Enqueue classifies d and, when drawable, appends an object with its compiled program,
	// draw state and default parameters. Parameters are refined later by Refine.
	//
	// Parameters:
	//   - d: the drawable
	//   - info: the drawable's view transforms
	//
	// Returns:
	//   - bool: false if the technique cannot draw d
	//   - error: ErrInvalidDepth for NaN or infinite depth
	Enqueue(d Drawable, info view.Info) (bool, error)

	// Refine writes per-object parameters for every enqueued object. With more than one
	// refine worker and enough objects, refinement is split across the worker pool and
	// Refine returns once every object is done.
	//
	// Parameters:
	//   - frame: the frame's light state, nil for unlit techniques
	Refine(frame *light.Frame)

	// Sort orders the enqueued objects. Objects that compare equal keep enqueue order.
	//
	// Returns:
	//   - []*Object: the objects in draw order, valid until the next Reset
	Sort() []*Object

	// Len returns the number of enqueued objects.
	Len() int

	// Release stops the refine workers. Later frames refine on the calling goroutine.
	Release()
}

var _ Phase = &phase{}

// NewPhase creates a Phase over tech. The default order is the flavor's order.
//
// Parameters:
//   - name: the phase name used in logs
//   - tech: the technique
//   - opts: variadic list of PhaseBuilderOption functions
//
// Returns:
//   - Phase: the phase
func NewPhase(name string, tech technique.Technique, opts ...PhaseBuilderOption) Phase {
	p := &phase{
		name:          name,
		tech:          tech,
		order:         OrderFor(tech.Flavor()),
		objects:       make([]Object, 0, 64),
		sorted:        make([]*Object, 0, 64),
		refineWorkers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = technique.NewCache(tech)
	}

	// Workers are reused across frames; a WaitGroup in Refine is the per-frame barrier.
	if p.refineWorkers > 1 {
		p.pool = worker.NewDynamicWorkerPool(p.refineWorkers, 256, 1*time.Second)
	}
	return p
}

func (p *phase) Name() string {
	return p.name
}

func (p *phase) Technique() technique.Technique {
	return p.tech
}

func (p *phase) Cache() *technique.Cache {
	return p.cache
}

func (p *phase) Len() int {
	return len(p.objects)
}

func (p *phase) Reset() {
	clear(p.sorted)
	p.sorted = p.sorted[:0]
	clear(p.objects)
	p.objects = p.objects[:0]
}

func (p *phase) Enqueue(d Drawable, info view.Info) (bool, error) {
	kernel, ok := p.tech.Classify(d.Mesh(), d.Material())
	if !ok {
		return false, nil
	}
	depth := info.Depth()
	if math32.IsNaN(depth) || math32.IsInf(depth, 0) {
		return false, fmt.Errorf("%w: %v", ErrInvalidDepth, depth)
	}

	compiled := p.cache.GetOrCompile(kernel)
	p.objects = append(p.objects, Object{
		Kernel:   kernel,
		Depth:    depth,
		Params:   compiled.Params,
		State:    compiled.State,
		Program:  compiled.Program,
		Drawable: d,
		View:     info,
	})
	return true, nil
}

func (p *phase) Refine(frame *light.Frame) {
	if p.pool == nil || len(p.objects) < minParallelObjects {
		p.refineRange(p.objects, frame)
		return
	}

	chunk := (len(p.objects) + p.refineWorkers - 1) / p.refineWorkers
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(p.objects); start += chunk {
		objs := p.objects[start:min(start+chunk, len(p.objects))]
		wg.Add(1)
		id := taskID
		taskID++
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				p.refineRange(objs, frame)
				return nil, nil
			},
		})
	}
	wg.Wait()
	common.Logger().Debug("phase refined in parallel", "phase", p.name, "objects", len(p.objects), "tasks", taskID)
}

func (p *phase) Release() {
	if p.pool == nil {
		return
	}
	p.pool.Stop()
	p.pool = nil
	common.Logger().Debug("phase workers stopped", "phase", p.name, "workers", p.refineWorkers)
}

func (p *phase) refineRange(objs []Object, frame *light.Frame) {
	for i := range objs {
		o := &objs[i]
		p.tech.Refine(o.Drawable.Material(), &o.View, frame, &o.Params)
	}
}

func (p *phase) Sort() []*Object {
	p.sorted = p.sorted[:0]
	for i := range p.objects {
		p.sorted = append(p.sorted, &p.objects[i])
	}
	slices.SortStableFunc(p.sorted, p.order)
	return p.sorted
}
