package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dynoviz/dynoplot/pkg/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [path|name]",
		Short: "browse superfeatures interactively",
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
			p := tea.NewProgram(tui.New(d), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
