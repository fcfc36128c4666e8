package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-phase/common"
)

// Report is one interval of frame statistics.
type Report struct {
	FPS            float64
	AvgObjects     float64
	AvgDrawCalls   float64
	AvgRenderTime  time.Duration
	HeapMB         float64
	AllocRateMBs   float64
	GCCount        uint32
	MaxGCPauseMsec float64
}

// Profiler aggregates per-frame pipeline statistics and memory churn, logging a Report
// through the package logger at a fixed interval.
type Profiler struct {
	now            func() time.Time
	updateInterval time.Duration

	frameCount int
	objects    int
	drawCalls  int
	renderTime time.Duration
	lastTime   time.Time

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Report
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a Report is produced.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces time.Now.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler reporting once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one frame. When the interval has elapsed it builds and logs a Report.
//
// Parameters:
//   - objects: objects drawn this frame
//   - drawCalls: draw calls issued this frame
//   - renderTime: CPU time spent in Render
//
// Returns:
//   - bool: true if a Report was produced this tick
func (p *Profiler) Tick(objects, drawCalls int, renderTime time.Duration) bool {
	p.frameCount++
	p.objects += objects
	p.drawCalls += drawCalls
	p.renderTime += renderTime

	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	n := float64(p.frameCount)
	r := Report{
		FPS:           n / elapsed.Seconds(),
		AvgObjects:    float64(p.objects) / n,
		AvgDrawCalls:  float64(p.drawCalls) / n,
		AvgRenderTime: p.renderTime / time.Duration(p.frameCount),
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMBs:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	start := p.lastGCCount
	if p.memStats.NumGC-start > 256 {
		start = p.memStats.NumGC - 256
	}
	var maxPause uint64
	for i := start; i < p.memStats.NumGC; i++ {
		maxPause = max(maxPause, p.memStats.PauseNs[i%256])
	}
	r.MaxGCPauseMsec = float64(maxPause) / 1e6

	common.Logger().Info("frame stats",
		"fps", r.FPS,
		"objects", r.AvgObjects,
		"drawCalls", r.AvgDrawCalls,
		"render", r.AvgRenderTime,
		"heapMB", r.HeapMB,
		"allocMBs", r.AllocRateMBs,
		"gc", r.GCCount,
		"maxPauseMs", r.MaxGCPauseMsec,
	)

	p.last = r
	p.frameCount, p.objects, p.drawCalls, p.renderTime = 0, 0, 0, 0
	p.lastTime = current
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent Report.
func (p *Profiler) Last() Report {
	return p.last
}
