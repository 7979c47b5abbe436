// Package tui is an interactive terminal browser for a dynophore: a
// filterable superfeature list with a detail view showing partner
// frequencies and occurrence sparklines.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

type view int

const (
	viewList view = iota
	viewDetail
)

// Model is the bubbletea model for the dynophore browser.
type Model struct {
	dynophore *dyno.Dynophore
	list      list.Model
	view      view
	selected  *dyno.SuperFeature
	status    string
	width     int
	height    int
}

// New builds the browser model for a loaded dynophore.
func New(d *dyno.Dynophore) Model {
	items := make([]list.Item, len(d.Superfeatures))
	for i, sf := range d.Superfeatures {
		items[i] = FeatureItem{Feature: sf}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 80, 24)
	l.Title = fmt.Sprintf("%s: %d frames", d.ID, d.NumFrames())
	l.Styles.Title = titleStyle

	return Model{dynophore: d, list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		// Keys first reach the list's filter input when it is active.
		if m.view == viewList && m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			if m.view == viewDetail && msg.String() == "q" {
				m.view = viewList
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if m.view == viewList {
				if item, ok := m.list.SelectedItem().(FeatureItem); ok {
					m.selected = item.Feature
					m.view = viewDetail
					m.status = ""
				}
				return m, nil
			}
		case "esc":
			if m.view == viewDetail {
				m.view = viewList
				return m, nil
			}
		case "y":
			if sf := m.currentFeature(); sf != nil {
				if err := clipboard.WriteAll(sf.ID); err != nil {
					m.status = "clipboard unavailable"
				} else {
					m.status = "copied " + sf.ID
				}
				return m, nil
			}
		}
	}

	if m.view == viewDetail {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) currentFeature() *dyno.SuperFeature {
	if m.view == viewDetail {
		return m.selected
	}
	if item, ok := m.list.SelectedItem().(FeatureItem); ok {
		return item.Feature
	}
	return nil
}

func (m Model) View() string {
	if m.view == viewDetail {
		return m.detailView()
	}
	s := m.list.View()
	if m.status != "" {
		s += "\n" + statusStyle.Render(m.status)
	}
	return s
}

func (m Model) detailView() string {
	sf := m.selected
	width := m.width
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder
	sb.WriteString(detailHeaderStyle.Render(sf.ID))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("type "))
	sb.WriteString(sf.FeatureType)
	sb.WriteString(labelStyle.Render("  occurrence "))
	sb.WriteString(fmt.Sprintf("%d/%d (%.1f%%)", sf.Count(), sf.NumFrames(), sf.Frequency()))
	sb.WriteString("\n\n")

	sparkWidth := width - 4
	if sparkWidth > 100 {
		sparkWidth = 100
	}
	sb.WriteString(sparkStyle.Render(Sparkline(sf.Occurrences, sparkWidth)))
	sb.WriteString("\n\n")

	if len(sf.EnvPartners) == 0 {
		sb.WriteString(labelStyle.Render("no environment partners"))
	} else {
		nameWidth := 0
		for _, p := range sf.EnvPartners {
			if w := runewidth.StringWidth(p.ID); w > nameWidth {
				nameWidth = w
			}
		}
		if max := width / 2; nameWidth > max && max > 8 {
			nameWidth = max
		}
		for _, p := range sf.EnvPartners {
			name := runewidth.FillRight(truncate(p.ID, nameWidth), nameWidth)
			bar := barStyle.Render(FrequencyBar(p.Frequency(), 20))
			sb.WriteString(fmt.Sprintf("%s %s %5.1f%%\n", name, bar, p.Frequency()))
		}
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("esc back • y copy id • q list"))
	return sb.String()
}

// truncate shortens s to maxWidth display cells, ellipsis included.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// FrequencyBar renders a frequency percentage as a fixed-width bar.
func FrequencyBar(frequency float64, width int) string {
	filled := int(frequency/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline renders a 0/1 occurrence series as a row of block glyphs,
// downsampled to width cells by averaging.
func Sparkline(series []float64, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}
	if width > len(series) {
		width = len(series)
	}
	glyphs := []rune("▁▂▃▄▅▆▇█")
	var sb strings.Builder
	for i := 0; i < width; i++ {
		lo := i * len(series) / width
		hi := (i + 1) * len(series) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, v := range series[lo:hi] {
			sum += v
		}
		mean := sum / float64(hi-lo)
		idx := int(mean * float64(len(glyphs)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(glyphs) {
			idx = len(glyphs) - 1
		}
		sb.WriteRune(glyphs[idx])
	}
	return sb.String()
}
