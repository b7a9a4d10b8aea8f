package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/animation"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// AnimateScene renders a camera dolly toward the scene's look-at point,
// one image per frame. Only the camera changes between frames; the scene
// hierarchy is built once and shared.
func AnimateScene(ctx *cli.Context) error {
	setupLogging(ctx)

	frames := ctx.Int("frames")
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	sc, name, err := loadScene(ctx)
	if err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(sc, renderConfig(ctx))
	if err != nil {
		return err
	}

	camera := sc.Camera()
	start := camera.Position()
	target := start.Add(camera.Config().LookAt.Subtract(start).Multiply(ctx.Float64("approach")))
	dolly := animation.NewDolly(start, target, ctx.Int("fps"))
	buffers := renderer.NewFrameBuffers(camera.Width(), camera.Height())

	for frame := 0; frame < frames; frame++ {
		position := dolly.Step()
		rt.SetScene(sc.WithCamera(camera.WithPosition(position)))

		stats, err := rt.Draw(buffers)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		written, err := renderer.SaveBuffers(ctx.String("out"), fmt.Sprintf("%s_%04d", name, frame), buffers, ctx.Bool("aux"))
		if err != nil {
			return err
		}
		logger.Noticef("frame %d/%d at %v in %v: wrote %s", frame+1, frames, position, stats.RenderTime, written[0])

		if dolly.Done(1e-3) {
			logger.Infof("camera settled after %d frames", frame+1)
			break
		}
	}
	return nil
}
