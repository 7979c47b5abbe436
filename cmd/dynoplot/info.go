package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

func newInfoCmd() *cobra.Command {
	var showPartners bool

	cmd := &cobra.Command{
		Use:   "info [path|name]",
		Short: "summarize a dynophore",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := loadDynophore(cfg, argOrEmpty(args))
			if err != nil {
				return err
			}
			return printInfo(d, showPartners)
		},
	}
	cmd.Flags().BoolVar(&showPartners, "partners", false, "list environment partners per superfeature")
	return cmd
}

func printInfo(d *dyno.Dynophore, showPartners bool) error {
	fmt.Printf("Dynophore %s\n", d.ID)
	fmt.Printf("  frames:        %d\n", d.NumFrames())
	fmt.Printf("  superfeatures: %d\n", d.NumSuperfeatures())
	if len(d.Clouds) > 0 {
		fmt.Printf("  point clouds:  %d\n", len(d.Clouds))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUPERFEATURE\tTYPE\tCOUNT\tFREQ\tPARTNERS")
	for _, sf := range d.Superfeatures {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\t%d\n",
			sf.ID, sf.FeatureType, sf.Count(), sf.Frequency(), len(sf.EnvPartners))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !showPartners {
		return nil
	}
	for _, sf := range d.Superfeatures {
		if len(sf.EnvPartners) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", sf.ID)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  PARTNER\tCOUNT\tFREQ\tMEAN DIST")
		for _, p := range sf.EnvPartners {
			fmt.Fprintf(w, "  %s\t%d\t%.1f%%\t%s\n",
				p.ID, p.Count(), p.Frequency(), meanDistance(p.Distances))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func meanDistance(distances []float64) string {
	measured := make([]float64, 0, len(distances))
	for _, v := range distances {
		if !dyno.IsMissing(v) {
			measured = append(measured, v)
		}
	}
	if len(measured) == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f Å", stat.Mean(measured, nil))
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
