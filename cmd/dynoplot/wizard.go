package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/plot"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm builds a form that degrades to accessible prompts when stdin
// is not a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// runRenderWizard fills the render options interactively.
func runRenderWizard(d *dyno.Dynophore, opts *renderOptions) error {
	typeOptions := make([]huh.Option[string], len(plotTypes))
	for i, t := range plotTypes {
		typeOptions[i] = huh.NewOption(t, t)
	}

	nameOptions := []huh.Option[string]{huh.NewOption("all superfeatures", "all")}
	for _, sf := range d.Superfeatures {
		label := fmt.Sprintf("%s (%.1f%%)", sf.ID, sf.Frequency())
		nameOptions = append(nameOptions, huh.NewOption(label, sf.ID))
	}

	var (
		selection []string
		stepText  = strconv.Itoa(opts.step)
	)

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Plot type").
				Options(typeOptions...).
				Value(&opts.plotType),
			huh.NewMultiSelect[string]().
				Title("Superfeatures").
				Options(nameOptions...).
				Value(&selection),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("SVG", "svg"),
					huh.NewOption("PNG", "png"),
				).
				Value(&opts.format),
			huh.NewInput().
				Title("Frame step").
				Value(&stepText).
				Validate(func(s string) error {
					v, err := strconv.Atoi(s)
					if err != nil || v < 1 {
						return fmt.Errorf("step must be a positive integer")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	opts.step, _ = strconv.Atoi(stepText)
	opts.names = nil
	for _, name := range selection {
		if name == "all" {
			opts.names = nil
			break
		}
		opts.names = append(opts.names, name)
	}

	if opts.plotType == "distances" {
		return newForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Distance plot kind").
				Options(
					huh.NewOption("per-frame series", string(plot.KindLine)),
					huh.NewOption("histogram", string(plot.KindHist)),
				).
				Value(&opts.kind),
		)).Run()
	}
	return nil
}
