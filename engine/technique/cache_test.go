package technique

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/stretchr/testify/assert"
)

type countingTechnique struct {
	Technique
	mu    sync.Mutex
	calls map[Kernel]int
}

func (c *countingTechnique) Compile(k Kernel) Compiled {
	c.mu.Lock()
	c.calls[k]++
	c.mu.Unlock()
	return c.Technique.Compile(k)
}

func TestCacheCompilesOncePerKernel(t *testing.T) {
	tech := &countingTechnique{Technique: newTechnique(t, FlavorForward), calls: map[Kernel]int{}}
	cache := NewCache(tech)

	kernels := []Kernel{
		{false, material.Opaque()},
		{true, material.Opaque()},
		{true, material.Blend(material.BlendAlpha)},
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				for _, k := range kernels {
					cache.GetOrCompile(k)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(kernels), cache.Len())
	for _, k := range kernels {
		assert.Equal(t, 1, tech.calls[k], k.String())
	}
}

func TestCacheReturnsSharedEntry(t *testing.T) {
	cache := NewCache(newTechnique(t, FlavorFlat))
	k := Kernel{true, material.Cutout(5)}

	first := cache.GetOrCompile(k)
	assert.Same(t, first, cache.GetOrCompile(k))

	cache.Reset()
	assert.Zero(t, cache.Len())
	second := cache.GetOrCompile(k)
	assert.NotSame(t, first, second)
	assert.Equal(t, *first, *second)
}
