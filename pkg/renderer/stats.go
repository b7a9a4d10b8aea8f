package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-pathtracer/pkg/integrator"
)

// SliceStats contains statistics for one worker slice
type SliceStats struct {
	Slice
	Samples    int
	RenderTime time.Duration
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int // Samples taken per pixel in this render
	TotalSamples    int
	Workers         int
	RenderTime      time.Duration
	Slices          []SliceStats

	// Terminations counts paths by why they stopped, indexed by integrator.Termination
	Terminations [3]int
}

// addSample records the outcome of one path
func (s *RenderStats) addSample(sample integrator.Sample) {
	s.TotalSamples++
	if int(sample.State) < len(s.Terminations) {
		s.Terminations[sample.State]++
	}
}

// merge adds the counters of a slice render
func (s *RenderStats) merge(other RenderStats) {
	s.TotalSamples += other.TotalSamples
	for i := range s.Terminations {
		s.Terminations[i] += other.Terminations[i]
	}
}

// BounceLimitFraction returns the share of paths cut off by the bounce limit
func (s RenderStats) BounceLimitFraction() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.Terminations[integrator.BounceLimit]) / float64(s.TotalSamples)
}

// Table renders the per-slice statistics as a text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Slice", "Rows", "Samples", "% of frame", "Render time"})
	for _, slice := range s.Slices {
		percent := 0.0
		if s.Height > 0 {
			percent = 100 * float64(slice.Rows()) / float64(s.Height)
		}
		table.Append([]string{
			fmt.Sprintf("%d", slice.Index),
			fmt.Sprintf("%d-%d", slice.Start, slice.End-1),
			fmt.Sprintf("%d", slice.Samples),
			fmt.Sprintf("%02.1f %%", percent),
			slice.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d", s.TotalSamples), "TOTAL", s.RenderTime.String()})
	table.Render()
	return buf.String()
}

// TerminationTable renders the path termination counts as a text table
func (s RenderStats) TerminationTable() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Termination", "Paths", "%"})
	for state, count := range s.Terminations {
		percent := 0.0
		if s.TotalSamples > 0 {
			percent = 100 * float64(count) / float64(s.TotalSamples)
		}
		table.Append([]string{
			integrator.Termination(state).String(),
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%02.2f %%", percent),
		})
	}
	table.Render()
	return buf.String()
}

// AverageLuminance returns the mean luminance of the color buffer
func AverageLuminance(f *FrameBuffers) float64 {
	pixels := f.Width * f.Height
	if pixels == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < pixels; i++ {
		total += get(f.Color[i*3:]).Luminance()
	}
	return total / float64(pixels)
}
