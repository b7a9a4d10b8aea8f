package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderFrame renders a single frame of a scene preset.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, name, err := loadScene(ctx)
	if err != nil {
		return err
	}

	config := renderConfig(ctx)
	if passes := ctx.Int("passes"); passes > 0 {
		return renderProgressive(ctx, name, renderer.ProgressiveConfig{
			Config:    config,
			MaxPasses: passes,
		}, sc)
	}

	rt, err := renderer.NewRaytracer(sc, config)
	if err != nil {
		return err
	}

	camera := sc.Camera()
	buffers := renderer.NewFrameBuffers(camera.Width(), camera.Height())
	stats, err := rt.Draw(buffers)
	if err != nil {
		return err
	}
	displayRenderStats(stats)

	written, err := renderer.SaveBuffers(ctx.String("out"), name, buffers, ctx.Bool("aux"))
	if err != nil {
		return err
	}
	for _, path := range written {
		logger.Noticef("wrote %s", path)
	}
	return nil
}

// renderProgressive saves the image after every pass until the sample
// budget is spent or the process is interrupted
func renderProgressive(ctx *cli.Context, name string, config renderer.ProgressiveConfig, sc *scene.Scene) error {
	pr, err := renderer.NewProgressiveRaytracer(sc, config)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	passChan, errChan := pr.RenderProgressive(runCtx)
	for result := range passChan {
		prefix := fmt.Sprintf("%s_pass%02d", name, result.PassNumber)
		if result.IsLast {
			prefix = name
		}
		written, err := renderer.SaveBuffers(ctx.String("out"), prefix, result.Buffers, ctx.Bool("aux") && result.IsLast)
		if err != nil {
			return err
		}
		logger.Noticef("pass %d (%d spp): wrote %s", result.PassNumber, result.SamplesPerPixel, written[0])
		if result.IsLast {
			displayRenderStats(result.Stats)
		}
	}
	return <-errChan
}

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("frame %dx%d at %d spp\n%s", stats.Width, stats.Height, stats.SamplesPerPixel, stats.Table())
	logger.Infof("path terminations\n%s", stats.TerminationTable())
	if fraction := stats.BounceLimitFraction(); fraction > 0.01 {
		logger.Warningf("%.1f%% of paths hit the bounce limit; the image is darker than the converged result", 100*fraction)
	}
}
