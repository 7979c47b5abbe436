package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

func newPreviewCmd() *cobra.Command {
	var (
		name   string
		window int
		width  int
	)

	cmd := &cobra.Command{
		Use:   "preview [path|name]",
		Short: "plot occurrence and distance series in the terminal",
		Long: `Preview draws terminal graphs without writing files: the rolling
occurrence frequency of a superfeature and, per environment partner, the
interaction distance over the trajectory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := loadDynophore(cfg, argOrEmpty(args))
			if err != nil {
				return err
			}
			if name == "" {
				return previewAll(d, window, width)
			}
			sf, err := d.Superfeature(name)
			if err != nil {
				return err
			}
			return previewSuperfeature(sf, window, width)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "preview a single superfeature")
	cmd.Flags().IntVar(&window, "window", 0, "rolling window in frames (default: frames/50)")
	cmd.Flags().IntVar(&width, "width", 100, "graph width in columns")
	return cmd
}

func previewAll(d *dyno.Dynophore, window, width int) error {
	for i, sf := range d.Superfeatures {
		if i > 0 {
			fmt.Println()
		}
		if err := previewSuperfeature(sf, window, width); err != nil {
			return err
		}
	}
	return nil
}

func previewSuperfeature(sf *dyno.SuperFeature, window, width int) error {
	if window <= 0 {
		window = sf.NumFrames() / 50
		if window < 1 {
			window = 1
		}
	}

	fmt.Printf("%s: %d/%d frames (%.1f%%)\n",
		sf.ID, sf.Count(), sf.NumFrames(), sf.Frequency())
	graph := asciigraph.Plot(rollingFrequency(sf.Occurrences, window),
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("occurrence frequency, %d-frame window", window)))
	fmt.Println(graph)

	for _, p := range sf.EnvPartners {
		series, n := fillMissing(p.Distances)
		if n == 0 {
			continue
		}
		fmt.Printf("\n%s: %d measured frames\n", p.ID, n)
		graph := asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(width),
			asciigraph.Caption("distance (Å), gaps carried forward"))
		fmt.Println(graph)
	}
	return nil
}

// rollingFrequency computes the mean occurrence over a trailing window.
func rollingFrequency(occurrences []float64, window int) []float64 {
	out := make([]float64, len(occurrences))
	sum := 0.0
	for i, v := range occurrences {
		sum += v
		if i >= window {
			sum -= occurrences[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// fillMissing replaces missing values with the last measured one so the
// terminal graph stays continuous, and reports how many frames were
// measured. Leading gaps take the first measured value.
func fillMissing(series []float64) ([]float64, int) {
	out := make([]float64, len(series))
	measured := 0
	last := 0.0
	seen := false
	for i, v := range series {
		if dyno.IsMissing(v) {
			out[i] = last
			continue
		}
		measured++
		if !seen {
			for j := 0; j < i; j++ {
				out[j] = v
			}
			seen = true
		}
		last = v
		out[i] = v
	}
	if !seen {
		return nil, 0
	}
	return out, measured
}
