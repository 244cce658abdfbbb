package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"go.uber.org/zap"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS           float64
	AvgFrameMs    float64
	MaxFrameMs    float64
	Objects       int
	HeapMB        float64
	AllocRateMBps float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	frameTotal     time.Duration
	frameMax       time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
	last           Stats
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often stats are logged, 1 second when <= 0
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame with the frame's duration and the number of objects
// the renderer drew from. Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - frame: the time spent in the frame
//   - objects: the renderer's object count
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frame time.Duration, objects int) bool {
	p.frameCount++
	p.frameTotal += frame
	if frame > p.frameMax {
		p.frameMax = frame
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	s := Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameMs:    float64(p.frameTotal.Microseconds()) / 1000 / float64(p.frameCount),
		MaxFrameMs:    float64(p.frameMax.Microseconds()) / 1000,
		Objects:       objects,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMBps: float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	logger.Info("profiler",
		zap.Float64("fps", s.FPS),
		zap.Float64("avgFrameMs", s.AvgFrameMs),
		zap.Float64("maxFrameMs", s.MaxFrameMs),
		zap.Int("objects", s.Objects),
		zap.Float64("heapMB", s.HeapMB),
		zap.Float64("allocRateMBps", s.AllocRateMBps),
		zap.Uint32("gc", s.GCCount),
		zap.Uint64("lastPauseUs", s.LastPauseUs),
		zap.Uint64("maxPauseUs", s.MaxPauseUs),
		zap.Float64("sysMB", s.SysMB),
	)

	p.last = s
	p.frameCount = 0
	p.frameTotal = 0
	p.frameMax = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recent reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}
