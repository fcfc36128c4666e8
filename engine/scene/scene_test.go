package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-phase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
)

func TestAddAssignsIDs(t *testing.T) {
	s := NewScene("test")
	a := game_object.NewGameObject()
	b := game_object.NewGameObject(game_object.WithID(10))
	c := game_object.NewGameObject()

	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, uint64(10), s.Add(b))
	assert.Equal(t, uint64(11), s.Add(c))
	assert.Equal(t, 3, s.Count())

	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, 3, s.Count())
	assert.Same(t, b, s.Get(10))
	assert.Nil(t, s.Get(99))
}

func TestEntitiesSkipDisabledAndKeepOrder(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject(game_object.WithEnabled(false))
	c := game_object.NewGameObject()
	s := NewScene("test", WithObjects(a, b, c))

	entities := s.Entities()
	require.Len(t, entities, 2)
	assert.Same(t, a, entities[0])
	assert.Same(t, c, entities[1])

	b.SetEnabled(true)
	assert.Len(t, s.Entities(), 3)
}

func TestRemoveReindexes(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	c := game_object.NewGameObject()
	s := NewScene("test", WithObjects(a, b, c))

	s.Remove(b.ID())
	s.Remove(b.ID())
	assert.Equal(t, 2, s.Count())
	assert.Same(t, c, s.Get(c.ID()))
	assert.Equal(t, []game_object.GameObject{a, c}, s.Objects())

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Empty(t, s.Entities())
}

func TestLightsIncludeAttached(t *testing.T) {
	free := light.NewLight(light.KindDirected)
	attached := light.NewLight(light.KindOmni)
	obj := game_object.NewGameObject(game_object.WithLight(attached))

	s := NewScene("test", WithLights(free, nil), WithObjects(obj))
	assert.Equal(t, []light.Light{free, attached}, s.Lights())

	s.AddLight(free)
	assert.Len(t, s.Lights(), 2)

	s.RemoveLight(free)
	assert.Equal(t, []light.Light{attached}, s.Lights())

	s.Remove(obj.ID())
	assert.Empty(t, s.Lights())
}

func TestUpdateAdvancesObjects(t *testing.T) {
	l := light.NewLight(light.KindOmni)
	obj := game_object.NewGameObject(
		game_object.WithRotationSpeed(1, 0, 0),
		game_object.WithPosition(0, 3, 0),
		game_object.WithLight(l),
	)
	s := NewScene("test", WithObjects(obj))

	s.Update(0.25)
	rx, _, _ := obj.Rotation()
	assert.InDelta(t, 0.25, rx, 1e-6)
	assert.Equal(t, [4]float32{0, 3, 0, 1}, l.Position())
}

func TestActiveAndName(t *testing.T) {
	s := NewScene("a", WithActive(false))
	assert.False(t, s.Active())
	s.SetActive(true)
	s.SetName("b")
	assert.True(t, s.Active())
	assert.Equal(t, "b", s.Name())
}
