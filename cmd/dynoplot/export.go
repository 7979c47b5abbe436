package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "export dynophore data for downstream tools",
	}
	cmd.AddCommand(newExportSQLiteCmd(), newExportCSVCmd())
	return cmd
}

func newExportSQLiteCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sqlite [path|name]",
		Short: "write a SQLite database",
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
			if output == "" {
				output = d.ID + ".sqlite"
			}
			if err := export.NewSQLiteExporter(d).Export(output); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: <id>.sqlite)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "csv [path|name]",
		Short: "write occurrence and distance tables as CSV",
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
			if outDir == "" {
				outDir = d.ID + "_csv"
			}
			written, err := export.ExportCSV(d, outDir)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Printf("wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: <id>_csv)")
	return cmd
}
