package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dynoviz/dynoplot/pkg/config"
	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
	"github.com/dynoviz/dynoplot/pkg/plot"
)

// plotTypes lists the renderable views in the order "render --all"
// produces them.
var plotTypes = []string{"heatmap", "superfeatures", "occurrences", "distances", "interactions"}

type renderOptions struct {
	plotType    string
	names       []string
	kind        string
	format      string
	outDir      string
	monochrome  bool
	start       int
	end         int
	step        int
	all         bool
	interactive bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [path|name]",
		Short: "render plots to SVG or PNG files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyRenderDefaults(&opts, cfg.Render, cmd)

			d, err := loadDynophore(cfg, argOrEmpty(args))
			if err != nil {
				return err
			}

			if opts.interactive {
				if err := runRenderWizard(d, &opts); err != nil {
					return err
				}
			}
			if opts.all {
				return renderAll(d, opts)
			}
			return renderOne(d, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.plotType, "type", "t", "superfeatures",
		"plot type: "+strings.Join(plotTypes, ", "))
	cmd.Flags().StringSliceVarP(&opts.names, "name", "n", nil, "superfeature selection (repeatable, default all)")
	cmd.Flags().StringVar(&opts.kind, "kind", "line", "distance plot kind: line or hist")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg or png")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.monochrome, "mono", false, "draw barcodes black instead of per feature type")
	cmd.Flags().IntVar(&opts.start, "start", 0, "first frame")
	cmd.Flags().IntVar(&opts.end, "end", plot.LastFrame, "last frame, inclusive (-1 for the end)")
	cmd.Flags().IntVar(&opts.step, "step", 0, "frame stride")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "render every plot type")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose plot settings interactively")
	return cmd
}

// applyRenderDefaults fills unset flags from the config file.
func applyRenderDefaults(opts *renderOptions, cfg config.RenderConfig, cmd *cobra.Command) {
	if opts.format == "" {
		opts.format = cfg.Format
	}
	if opts.outDir == "" {
		opts.outDir = cfg.OutputDir
	}
	if opts.step <= 0 {
		opts.step = cfg.FrameStep
	}
	if opts.step <= 0 {
		opts.step = 1
	}
	if !cmd.Flags().Changed("mono") && cfg.Monochrome {
		opts.monochrome = true
	}
}

func (o renderOptions) frames() plot.FrameSelection {
	return plot.FrameSelection{Start: o.start, End: o.end, Step: o.step}
}

// buildFigure renders one plot type into a figure.
func buildFigure(d *dyno.Dynophore, opts renderOptions) (*plot.Figure, error) {
	var (
		fig *plot.Figure
		err error
	)
	switch opts.plotType {
	case "heatmap":
		fig, _, err = plot.SuperfeaturesVsEnvPartners(d, opts.names...)
	case "superfeatures":
		fig, _, err = plot.SuperfeatureOccurrences(d, plot.BarcodeOptions{
			Names: opts.names, Monochrome: opts.monochrome, Frames: opts.frames(),
		})
	case "occurrences":
		fig, _, err = plot.EnvPartnerOccurrences(d, plot.OccurrenceOptions{
			Names: opts.names, Frames: opts.frames(),
		})
	case "distances":
		fig, _, err = plot.EnvPartnerDistances(d, plot.Kind(opts.kind), plot.DistanceOptions{
			Names: opts.names, Frames: opts.frames(),
		})
	case "interactions":
		if len(opts.names) != 1 {
			return nil, fmt.Errorf("plot type interactions needs exactly one --name")
		}
		fig, _, err = plot.EnvPartnerInteractions(d, opts.names[0], plot.OverviewOptions{
			Frames: opts.frames(),
		})
	default:
		return nil, fmt.Errorf("unknown plot type %q: valid types are %s",
			opts.plotType, strings.Join(plotTypes, ", "))
	}
	return fig, err
}

func (o renderOptions) outputPath(d *dyno.Dynophore, plotType string) string {
	format := o.format
	if format == "" {
		format = "svg"
	}
	name := fmt.Sprintf("%s_%s.%s", d.ID, plotType, format)
	if o.outDir == "" {
		return name
	}
	return filepath.Join(o.outDir, name)
}

func renderOne(d *dyno.Dynophore, opts renderOptions) error {
	defer metrics.Timer(metrics.RenderFigure)()

	fig, err := buildFigure(d, opts)
	if err != nil {
		return err
	}
	path := opts.outputPath(d, opts.plotType)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := fig.Save(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// renderAll renders every plot type concurrently. The interactions view
// is per superfeature, so it expands to one figure each.
func renderAll(d *dyno.Dynophore, opts renderOptions) error {
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	type job struct {
		opts renderOptions
		path string
	}
	var jobs []job
	for _, plotType := range plotTypes {
		if plotType == "interactions" {
			for _, sf := range d.Superfeatures {
				o := opts
				o.plotType = plotType
				o.names = []string{sf.ID}
				jobs = append(jobs, job{o, o.outputPath(d, "interactions_"+sanitizeName(sf.ID))})
			}
			continue
		}
		o := opts
		o.plotType = plotType
		jobs = append(jobs, job{o, o.outputPath(d, plotType)})
	}

	var g errgroup.Group
	g.SetLimit(4)
	for _, j := range jobs {
		g.Go(func() error {
			defer metrics.Timer(metrics.RenderFigure)()
			fig, err := buildFigure(d, j.opts)
			if err != nil {
				return fmt.Errorf("%s: %w", j.opts.plotType, err)
			}
			if err := fig.Save(j.path); err != nil {
				return fmt.Errorf("%s: %w", j.opts.plotType, err)
			}
			fmt.Printf("wrote %s\n", j.path)
			return nil
		})
	}
	return g.Wait()
}

// sanitizeName makes a superfeature ID usable inside a filename.
func sanitizeName(id string) string {
	r := strings.NewReplacer("[", "-", "]", "", ",", "-")
	return r.Replace(id)
}
