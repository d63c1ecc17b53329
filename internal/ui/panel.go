package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	heightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	boundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Muted gray, like the popover's min/max labels

	movingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	presetKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("1")).
			Bold(true)
)

// Status is everything the panel needs to draw one frame.
type Status struct {
	Displayed int // Height currently shown (animates during a move)
	Target    int // Slider position
	Min       int
	Max       int
	Gauge     string // Pre-rendered slider bar
	Presets   []config.Preset
	Enabled   bool // Interactive controls enabled
	Moving    bool
	Err       string
}

// Meters formats a device-unit height as meters, matching the popover's
// height label ("0.75m").
func Meters(h int) string {
	return fmt.Sprintf("%.2fm", float64(h)/100)
}

// Panel renders the desk control surface: height readout, slider gauge
// with min/max bounds, preset row, and status line.
type Panel struct {
	width  int
	height int
}

// NewPanel creates a Panel with the given width.
func NewPanel(width int) *Panel {
	return &Panel{width: width, height: 10}
}

// SetWidth updates the panel width.
func (p *Panel) SetWidth(width int) {
	p.width = width
}

// SetHeight updates the panel height.
func (p *Panel) SetHeight(height int) {
	p.height = height
}

// Render draws the panel for the given status.
func (p *Panel) Render(st Status) string {
	var lines []string

	lines = append(lines, titleStyle.Render("Desk"))
	lines = append(lines, heightStyle.Render(fmt.Sprintf("Height: %s", Meters(st.Displayed))))

	gauge := fmt.Sprintf("%s %s %s",
		boundStyle.Render(Meters(st.Min)),
		st.Gauge,
		boundStyle.Render(Meters(st.Max)))
	lines = append(lines, gauge)

	target := fmt.Sprintf("Target: %s", Meters(st.Target))
	if !st.Enabled {
		target = disabledStyle.Render(target)
	}
	lines = append(lines, target)

	if row := p.renderPresets(st); row != "" {
		lines = append(lines, row)
	}

	switch {
	case st.Err != "":
		lines = append(lines, errorStyle.Render(" "+st.Err+" "))
	case st.Moving:
		lines = append(lines, movingStyle.Render("moving..."))
	default:
		lines = append(lines, boundStyle.Render("←/→ adjust · enter move · q quit"))
	}

	// Pad output to fill height
	for len(lines) < p.height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (p *Panel) renderPresets(st Status) string {
	if len(st.Presets) == 0 {
		return ""
	}

	parts := make([]string, 0, len(st.Presets))
	for i, preset := range st.Presets {
		key := fmt.Sprintf("[%d]", i+1)
		label := fmt.Sprintf("%s %s %s", presetKeyStyle.Render(key), preset.Name, Meters(preset.Height))
		if !st.Enabled {
			label = disabledStyle.Render(fmt.Sprintf("%s %s %s", key, preset.Name, Meters(preset.Height)))
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
