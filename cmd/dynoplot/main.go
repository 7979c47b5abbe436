// Command dynoplot renders plots from DynophoreApp output: occurrence
// barcodes, distance series and histograms, interaction heatmaps and
// per-superfeature overviews, from the terminal or a local web server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/config"
	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/loader"
	"github.com/dynoviz/dynoplot/pkg/version"
)

var (
	sourcePath string
	configPath string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dynoplot",
		Short:         "plot dynophore trajectories",
		Long:          "dynoplot reads DynophoreApp output (JSON, PML or raw data) and renders occurrence, distance and interaction plots.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "path", "p", "", "dynophore file or output directory (default: $DYNOPLOT_DIR or .)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress load warnings")

	rootCmd.AddCommand(
		newInfoCmd(),
		newRenderCmd(),
		newPreviewCmd(),
		newReportCmd(),
		newExportCmd(),
		newServeCmd(),
		newTUICmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dynoplot: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when none
// exists.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// resolveSource decides which path to load from: the --path flag, a
// named dynophore from the config, or the DYNOPLOT_DIR / working
// directory fallback.
func resolveSource(cfg config.Config, arg string) string {
	if arg != "" {
		if d := cfg.FindDynophore(arg); d != nil {
			return d.Path
		}
		return arg
	}
	return loader.ResolveDir(sourcePath)
}

// loadDynophore loads the dynophore for a command invocation. arg is an
// optional positional argument naming a path or a configured dynophore.
func loadDynophore(cfg config.Config, arg string) (*dyno.Dynophore, error) {
	opts := loader.Options{}
	if !quiet {
		opts.WarningHandler = func(msg string) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
	}
	return loader.Load(resolveSource(cfg, arg), opts)
}
