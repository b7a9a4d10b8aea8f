package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// DescribeScene builds a scene and prints its hierarchy statistics.
func DescribeScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, name, err := loadScene(ctx)
	if err != nil {
		return err
	}

	bounds := sc.BoundingBox()
	logger.Noticef("scene %q bounds %v - %v\n%s", name, bounds.Min, bounds.Max, sceneStatsTable(sc.Stats()))
	return nil
}

func sceneStatsTable(stats scene.Stats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Objects", fmt.Sprintf("%d", stats.Objects)},
		{"Primitives", fmt.Sprintf("%d", stats.Primitives)},
		{"BVH nodes", fmt.Sprintf("%d", stats.BVH.Nodes)},
		{"BVH leaves", fmt.Sprintf("%d", stats.BVH.Leaves)},
		{"Max depth", fmt.Sprintf("%d", stats.BVH.MaxDepth)},
		{"Avg leaf depth", fmt.Sprintf("%.2f", stats.BVH.AvgDepth)},
	})
	table.Render()
	return buf.String()
}
