package cmd

import (
	"bytes"
	"errors"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SceneFlags are shared by every command that builds a scene
var SceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "default",
		Usage: "scene preset (see the scenes command)",
	},
	cli.StringFlag{
		Name:  "model, m",
		Usage: "glTF/GLB file for the mesh scene",
	},
	cli.StringFlag{
		Name:  "texture",
		Usage: "PNG/JPEG albedo texture for the mesh scene",
	},
	cli.StringFlag{
		Name:  "normal-map",
		Usage: "PNG/JPEG normal map for the mesh scene, used with --texture",
	},
	cli.IntFlag{
		Name:  "grid",
		Usage: "spheres per side for the spheregrid scene",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 400,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height (0 keeps the scene's aspect ratio)",
	},
	cli.Float64Flag{
		Name:  "fov",
		Usage: "vertical field of view in degrees (0 keeps the scene's)",
	},
	cli.Float64Flag{
		Name:  "aperture",
		Usage: "lens diameter for depth of field",
	},
}

// RenderFlags configure the renderer
var RenderFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel (0 uses the scene's setting)",
	},
	cli.IntFlag{
		Name:  "bounces",
		Usage: "maximum path length (0 uses the scene's setting)",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "number of parallel workers (0 uses the CPU count)",
	},
	cli.Uint64Flag{
		Name:  "seed",
		Value: renderer.DefaultConfig().Seed,
		Usage: "random seed",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "output",
		Usage: "output directory",
	},
	cli.BoolFlag{
		Name:  "aux",
		Usage: "also write albedo, normal and depth buffers plus PFM files",
	},
}

// sceneOptions converts command line flags to preset options
func sceneOptions(ctx *cli.Context) scene.Options {
	camera := geometry.CameraConfig{
		Width:    ctx.Int("width"),
		VFov:     ctx.Float64("fov"),
		Aperture: ctx.Float64("aperture"),
	}
	if height := ctx.Int("height"); height > 0 && camera.Width > 0 {
		camera.AspectRatio = float64(camera.Width) / float64(height)
	}
	mesh := scene.MeshAssets{
		ModelPath:     ctx.String("model"),
		TexturePath:   ctx.String("texture"),
		NormalMapPath: ctx.String("normal-map"),
	}
	return scene.Options{
		Camera:   camera,
		Mesh:     mesh,
		GridSize: ctx.Int("grid"),
	}
}

// renderConfig converts command line flags to renderer settings
func renderConfig(ctx *cli.Context) renderer.Config {
	return renderer.Config{
		SamplesPerPixel: ctx.Int("spp"),
		MaxBounces:      ctx.Int("bounces"),
		Workers:         ctx.Int("workers"),
		Seed:            ctx.Uint64("seed"),
	}
}

// loadScene builds the preset selected by the scene flag
func loadScene(ctx *cli.Context) (*scene.Scene, string, error) {
	name := ctx.String("scene")
	if name == "" {
		return nil, "", errors.New("missing scene name")
	}

	preset, err := scene.Lookup(name)
	if err != nil {
		return nil, "", err
	}

	logger.Infof("building scene %q", preset.DisplayName)
	sc, err := preset.Build(sceneOptions(ctx))
	if err != nil {
		return nil, "", err
	}
	return sc, preset.Name, nil
}

// ListScenes prints the registered scene presets.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Name", "Title", "Description"})
	for _, name := range scene.Names() {
		preset, err := scene.Lookup(name)
		if err != nil {
			return err
		}
		table.Append([]string{preset.Name, preset.DisplayName, preset.Description})
	}
	table.Render()

	logger.Noticef("available scenes:\n%s", buf.String())
	return nil
}
