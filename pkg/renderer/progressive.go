package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	Config
	InitialSamples     int // Samples for first pass
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		Config:             DefaultConfig(),
		InitialSamples:     1,
		MaxSamplesPerPixel: 64,
		MaxPasses:          7, // 1, 2, 4, 8, 16, 32, then the remainder
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber      int
	SamplesPerPixel int           // Total samples accumulated per pixel so far
	Buffers         *FrameBuffers // Snapshot owned by the receiver
	Stats           RenderStats
	IsLast          bool
}

// ProgressiveRaytracer refines an image over several passes. Every pass
// adds samples to a running per-pixel sum, so the buffers after a pass hold
// the sample-weighted average of all passes so far.
type ProgressiveRaytracer struct {
	raytracer *Raytracer
	config    ProgressiveConfig
	sums      []pixelSum
	samples   int // Samples per pixel accumulated in sums
	pass      int
	buffers   *FrameBuffers
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(sc *scene.Scene, config ProgressiveConfig) (*ProgressiveRaytracer, error) {
	defaults := DefaultProgressiveConfig()
	if config.InitialSamples <= 0 {
		config.InitialSamples = defaults.InitialSamples
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = defaults.MaxPasses
	}

	raytracer, err := NewRaytracer(sc, config.Config)
	if err != nil {
		return nil, err
	}
	config.Config = raytracer.Config()
	if config.MaxSamplesPerPixel <= 0 {
		config.MaxSamplesPerPixel = config.SamplesPerPixel
	}

	camera := sc.Camera()
	return &ProgressiveRaytracer{
		raytracer: raytracer,
		config:    config,
		sums:      make([]pixelSum, camera.Width()*camera.Height()),
		buffers:   NewFrameBuffers(camera.Width(), camera.Height()),
	}, nil
}

// Reset discards the accumulated samples
func (pr *ProgressiveRaytracer) Reset() {
	clear(pr.sums)
	pr.buffers.Clear()
	pr.samples = 0
	pr.pass = 0
}

// SetScene switches scene and resets the accumulation. The new camera must
// have the same resolution.
func (pr *ProgressiveRaytracer) SetScene(sc *scene.Scene) error {
	camera := sc.Camera()
	if camera.Width() != pr.buffers.Width || camera.Height() != pr.buffers.Height {
		return fmt.Errorf("%w: buffers %dx%d, camera %dx%d",
			ErrBufferSize, pr.buffers.Width, pr.buffers.Height, camera.Width(), camera.Height())
	}
	pr.raytracer.SetScene(sc)
	pr.Reset()
	return nil
}

// Samples returns the samples per pixel accumulated so far
func (pr *ProgressiveRaytracer) Samples() int {
	return pr.samples
}

// Buffers returns the current averaged image. It is overwritten by the
// next pass.
func (pr *ProgressiveRaytracer) Buffers() *FrameBuffers {
	return pr.buffers
}

// samplesForPass returns how many samples pass adds: InitialSamples doubling
// each pass, the last pass taking whatever is left up to MaxSamplesPerPixel
func (pr *ProgressiveRaytracer) samplesForPass(pass int) int {
	remaining := pr.config.MaxSamplesPerPixel - pr.samples
	if remaining <= 0 {
		return 0
	}
	if pass >= pr.config.MaxPasses {
		return remaining
	}
	return min(pr.config.InitialSamples<<(pass-1), remaining)
}

// RenderPass renders the next pass and refreshes Buffers. It returns false
// when the sample budget is already spent.
func (pr *ProgressiveRaytracer) RenderPass() (RenderStats, bool, error) {
	pass := pr.pass + 1
	spp := pr.samplesForPass(pass)
	if spp == 0 {
		return RenderStats{}, false, nil
	}

	seed := passSeed(pr.config.Seed, pass)
	width := pr.buffers.Width
	total := pr.samples + spp
	stats, err := pr.raytracer.renderPass(seed, spp, func(slice Slice, sampler *core.RandomSampler, sliceStats *RenderStats) {
		view := pr.buffers.Rows(slice.Start, slice.End)
		for y := slice.Start; y < slice.End; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				pr.sums[i] = pr.sums[i].add(pr.raytracer.tracePixel(x, y, spp, seed, sampler, sliceStats))
				avg := pr.sums[i].scale(1 / float64(total))
				view.Set(x, y-slice.Start, avg.color, avg.albedo, avg.normal, avg.depth)
			}
		}
	})
	if err != nil {
		return RenderStats{}, false, err
	}

	pr.pass = pass
	pr.samples = total
	stats.SamplesPerPixel = total
	return stats, true, nil
}

// RenderProgressive runs passes until the sample budget is spent or ctx is
// cancelled. Cancellation is checked between passes. Both channels are
// closed when rendering stops.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		logger.Infof("starting progressive rendering: up to %d passes, %d spp",
			pr.config.MaxPasses, pr.config.MaxSamplesPerPixel)

		for {
			select {
			case <-ctx.Done():
				logger.Noticef("rendering cancelled before pass %d", pr.pass+1)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()
			stats, ok, err := pr.RenderPass()
			if err != nil {
				errChan <- err
				return
			}
			if !ok {
				return
			}

			logger.Infof("pass %d completed in %v (%d samples/pixel)", pr.pass, time.Since(startTime), pr.samples)

			result := PassResult{
				PassNumber:      pr.pass,
				SamplesPerPixel: pr.samples,
				Buffers:         pr.buffers.Clone(),
				Stats:           stats,
				IsLast:          pr.samples >= pr.config.MaxSamplesPerPixel,
			}
			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
			if result.IsLast {
				return
			}
		}
	}()

	return passChan, errChan
}
