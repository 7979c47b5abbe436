package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/export"
)

func newReportCmd() *cobra.Command {
	var (
		output   string
		view     bool
		wordWrap int
	)

	cmd := &cobra.Command{
		Use:   "report [path|name]",
		Short: "write a Markdown summary report",
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

			report, err := export.GenerateReport(d)
			if err != nil {
				return err
			}

			if view {
				renderer, err := glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(wordWrap),
				)
				if err != nil {
					return err
				}
				rendered, err := renderer.Render(report)
				if err != nil {
					return err
				}
				fmt.Print(rendered)
				return nil
			}

			if output == "" {
				output = d.ID + "_report.md"
			}
			if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: <id>_report.md)")
	cmd.Flags().BoolVar(&view, "view", false, "render the report in the terminal instead of writing it")
	cmd.Flags().IntVar(&wordWrap, "wrap", 100, "word wrap width for --view")
	return cmd
}
