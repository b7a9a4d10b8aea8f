package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
	"github.com/df07/go-pathtracer/pkg/log"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render scenes using Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenes",
			Usage:  "list available scene presets",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a scene preset and write <scene>.png to the output directory. With
--aux the albedo, normal and inverse depth buffers are written as well, both
as PNG previews and as PFM files for an external denoiser.

With --passes the frame is refined progressively and written after every
pass; interrupting stops after the current pass.`,
			Flags: flags(cmd.SceneFlags, cmd.RenderFlags, []cli.Flag{
				cli.IntFlag{
					Name:  "passes",
					Usage: "render progressively in this many passes (0 renders in one go)",
				},
			}),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "animate",
			Usage: "render a camera dolly as a numbered image sequence",
			Flags: flags(cmd.SceneFlags, cmd.RenderFlags, []cli.Flag{
				cli.IntFlag{
					Name:  "frames",
					Value: 48,
					Usage: "maximum number of frames",
				},
				cli.IntFlag{
					Name:  "fps",
					Value: 24,
					Usage: "frames per second of the camera spring",
				},
				cli.Float64Flag{
					Name:  "approach",
					Value: 0.3,
					Usage: "fraction of the distance to the look-at point the camera travels",
				},
			}),
			Action: cmd.AnimateScene,
		},
		{
			Name:   "bvh",
			Usage:  "build a scene and print its hierarchy statistics",
			Flags:  cmd.SceneFlags,
			Action: cmd.DescribeScene,
		},
	}
	return app
}

// flags concatenates flag groups into a new slice
func flags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("pathtracer").Error(err)
		os.Exit(1)
	}
}
