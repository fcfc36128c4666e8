package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
)

// Scene owns the game objects and lights of a frame. It satisfies pipeline.Scene: Entities
// returns the enabled objects in insertion order and Lights returns the free lights followed
// by the lights attached to objects.
//
// All methods are safe for concurrent use.
type Scene interface {
	pipeline.Scene

	// Name retrieves the scene's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the scene's name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Active reports whether the engine renders this scene.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive sets whether the engine renders this scene.
	//
	// Parameters:
	//   - active: true to render the scene
	SetActive(active bool)

	// Add inserts a game object, assigning it an ID if it has none. An attached light
	// is registered with the scene. Adding an object twice is a no-op.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get looks up an object by ID.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil if absent
	Get(id uint64) game_object.GameObject

	// Remove deletes an object and its attached light from the scene.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Clear removes every object. Free lights are kept.
	Clear()

	// Count returns the number of objects, enabled or not.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Objects returns a snapshot of every object in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// AddLight registers a light that is not attached to any object.
	//
	// Parameters:
	//   - l: the light
	AddLight(l light.Light)

	// RemoveLight unregisters a free light.
	//
	// Parameters:
	//   - l: the light
	RemoveLight(l light.Light)

	// Update advances every object by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	objects []game_object.GameObject
	index   map[uint64]int
	nextID  uint64

	lights []light.Light

	entities []pipeline.Entity
}

var _ Scene = &scene{}

// NewScene creates an empty, active Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		active: true,
		index:  make(map[uint64]int),
		nextID: 1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add inserts obj. Caller must hold s.mu write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}

	if i, exists := s.index[obj.ID()]; exists {
		if s.objects[i] != obj {
			common.Logger().Warn("scene: duplicate object ID replaced", "scene", s.name, "id", obj.ID())
			s.objects[i] = obj
		}
		return obj.ID()
	}

	s.index[obj.ID()] = len(s.objects)
	s.objects = append(s.objects, obj)
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, exists := s.index[id]
	if !exists {
		return nil
	}
	return s.objects[i]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[id]
	if !exists {
		return
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.objects); j++ {
		s.index[s.objects[j].ID()] = j
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.objects)
	s.objects = s.objects[:0]
	s.index = make(map[uint64]int)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.objects)
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.lights, l) {
		return
	}
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.lights, l); i >= 0 {
		s.lights = slices.Delete(s.lights, i, i+1)
	}
}

// Lights returns the free lights in registration order followed by the lights attached to
// objects, in object order. A light attached to a disabled object is still listed; its
// Active flag decides whether it occupies a slot.
func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights), len(s.lights)+len(s.objects))
	copy(out, s.lights)
	for _, obj := range s.objects {
		if l := obj.Light(); l != nil && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

// Entities returns the enabled objects in insertion order. The returned slice is reused by
// the next call.
func (s *scene) Entities() []pipeline.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = s.entities[:0]
	for _, obj := range s.objects {
		if obj.Enabled() {
			s.entities = append(s.entities, obj)
		}
	}
	return s.entities
}

func (s *scene) Update(dt float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		obj.Update(dt)
	}
}
