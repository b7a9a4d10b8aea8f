package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("renderer")

var (
	// ErrInvalidConfig is returned for render settings that cannot produce an image
	ErrInvalidConfig = errors.New("renderer: invalid config")
	// ErrBufferSize is returned when the output buffers do not match the camera
	ErrBufferSize = errors.New("renderer: buffer size does not match camera")
)

// Config contains the render settings. Zero fields fall back to the
// scene's sampling settings and then to DefaultConfig.
type Config struct {
	SamplesPerPixel int    // Jittered camera rays per pixel
	MaxBounces      int    // Path length cap passed to the integrator
	Workers         int    // Number of parallel workers (0 = use CPU count)
	Seed            uint64 // Base seed; identical seeds give identical images
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 64,
		MaxBounces:      integrator.DefaultConfig().MaxBounces,
		Workers:         0,
		Seed:            42,
	}
}

// MergeConfig fills the zero fields of config from the scene's sampling
// settings and then from DefaultConfig
func MergeConfig(config Config, sampling scene.SamplingConfig) Config {
	defaults := DefaultConfig()
	if config.SamplesPerPixel == 0 {
		config.SamplesPerPixel = sampling.SamplesPerPixel
	}
	if config.SamplesPerPixel == 0 {
		config.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if config.MaxBounces == 0 {
		config.MaxBounces = sampling.MaxBounces
	}
	if config.MaxBounces == 0 {
		config.MaxBounces = defaults.MaxBounces
	}
	return config
}

// Raytracer renders a finalized scene into frame buffers
type Raytracer struct {
	scene      *scene.Scene
	config     Config
	integrator integrator.Integrator
	pool       *WorkerPool
}

// NewRaytracer creates a raytracer for a scene
func NewRaytracer(sc *scene.Scene, config Config) (*Raytracer, error) {
	config = MergeConfig(config, sc.Sampling())
	if config.SamplesPerPixel < 0 || config.MaxBounces < 0 || config.Workers < 0 {
		return nil, fmt.Errorf("%w: samples %d, bounces %d, workers %d",
			ErrInvalidConfig, config.SamplesPerPixel, config.MaxBounces, config.Workers)
	}

	return &Raytracer{
		scene:      sc,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(integrator.Config{MaxBounces: config.MaxBounces}),
		pool:       NewWorkerPool(config.Workers),
	}, nil
}

// Config returns the effective settings
func (rt *Raytracer) Config() Config {
	return rt.config
}

// SetScene switches to another scene, typically one derived with
// Scene.WithCamera between animation frames
func (rt *Raytracer) SetScene(sc *scene.Scene) {
	rt.scene = sc
}

// Draw renders one frame into buffers, which must match the camera size.
// Each worker owns a contiguous band of rows and writes only to its view.
func (rt *Raytracer) Draw(buffers *FrameBuffers) (RenderStats, error) {
	camera := rt.scene.Camera()
	if buffers.Width != camera.Width() || buffers.Height != camera.Height() {
		return RenderStats{}, fmt.Errorf("%w: buffers %dx%d, camera %dx%d",
			ErrBufferSize, buffers.Width, buffers.Height, camera.Width(), camera.Height())
	}

	spp := rt.config.SamplesPerPixel
	stats, err := rt.renderPass(rt.config.Seed, spp, func(slice Slice, sampler *core.RandomSampler, sliceStats *RenderStats) {
		view := buffers.Rows(slice.Start, slice.End)
		for y := slice.Start; y < slice.End; y++ {
			for x := 0; x < buffers.Width; x++ {
				sum := rt.tracePixel(x, y, spp, rt.config.Seed, sampler, sliceStats)
				avg := sum.scale(1 / float64(spp))
				view.Set(x, y-slice.Start, avg.color, avg.albedo, avg.normal, avg.depth)
			}
		}
	})
	if err != nil {
		return RenderStats{}, err
	}

	logger.Infof("rendered %dx%d at %d spp in %v (%d workers)",
		buffers.Width, buffers.Height, spp, stats.RenderTime, stats.Workers)
	return stats, nil
}

// renderPass partitions the image, runs fill once per slice and gathers the
// per-slice statistics
func (rt *Raytracer) renderPass(seed uint64, spp int, fill func(Slice, *core.RandomSampler, *RenderStats)) (RenderStats, error) {
	camera := rt.scene.Camera()
	slices := rt.pool.Partition(camera.Height())
	sliceStats := make([]RenderStats, len(slices))
	durations := make([]time.Duration, len(slices))

	start := time.Now()
	err := rt.pool.Execute(slices, func(slice Slice) error {
		sliceStart := time.Now()
		sampler := core.NewRandomSampler(seed)
		fill(slice, sampler, &sliceStats[slice.Index])
		durations[slice.Index] = time.Since(sliceStart)
		return nil
	})
	if err != nil {
		return RenderStats{}, fmt.Errorf("render failed: %w", err)
	}

	stats := RenderStats{
		Width:           camera.Width(),
		Height:          camera.Height(),
		SamplesPerPixel: spp,
		Workers:         rt.pool.NumWorkers(),
		RenderTime:      time.Since(start),
		Slices:          make([]SliceStats, len(slices)),
	}
	for i, slice := range slices {
		stats.merge(sliceStats[i])
		stats.Slices[i] = SliceStats{Slice: slice, Samples: sliceStats[i].TotalSamples, RenderTime: durations[i]}
	}
	return stats, nil
}

// pixelSum accumulates the integrator outputs of one pixel
type pixelSum struct {
	color  core.Vec3
	albedo core.Vec3
	normal core.Vec3
	depth  float64
}

func (p pixelSum) add(o pixelSum) pixelSum {
	return pixelSum{
		color:  p.color.Add(o.color),
		albedo: p.albedo.Add(o.albedo),
		normal: p.normal.Add(o.normal),
		depth:  p.depth + o.depth,
	}
}

func (p pixelSum) scale(s float64) pixelSum {
	return pixelSum{
		color:  p.color.Multiply(s),
		albedo: p.albedo.Multiply(s),
		normal: p.normal.Multiply(s),
		depth:  p.depth * s,
	}
}

// tracePixel sums spp jittered samples of pixel (x, y). The sampler is
// reseeded from the pixel index so results do not depend on which worker
// renders the pixel.
func (rt *Raytracer) tracePixel(x, y, spp int, seed uint64, sampler *core.RandomSampler, stats *RenderStats) pixelSum {
	camera := rt.scene.Camera()
	sampler.Reseed(seed, uint64(y*camera.Width()+x))

	var sum pixelSum
	for i := 0; i < spp; i++ {
		jitter := sampler.Get2D()
		ray := camera.GetRay(float64(x)+jitter.X, float64(y)+jitter.Y, sampler)
		sample := rt.integrator.Sample(ray, rt.scene, sampler)
		stats.addSample(sample)
		sum = sum.add(pixelSum{
			color:  sample.Color,
			albedo: sample.Albedo,
			normal: sample.Normal,
			depth:  sample.InvDepth,
		})
	}
	return sum
}

// passSeed derives the seed of a progressive pass; pass 0 is the base seed
func passSeed(seed uint64, pass int) uint64 {
	return seed ^ uint64(pass)*0x9e3779b97f4a7c15
}
