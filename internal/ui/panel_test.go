package ui

import (
	"strings"
	"testing"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
)

func TestMeters(t *testing.T) {
	tests := []struct {
		height int
		want   string
	}{
		{75, "0.75m"},
		{112, "1.12m"},
		{63, "0.63m"},
		{127, "1.27m"},
		{100, "1.00m"},
	}

	for _, tt := range tests {
		if got := Meters(tt.height); got != tt.want {
			t.Errorf("Meters(%d) = %q, want %q", tt.height, got, tt.want)
		}
	}
}

func baseStatus() Status {
	return Status{
		Displayed: 75,
		Target:    75,
		Min:       63,
		Max:       127,
		Gauge:     "[====------]",
		Presets: []config.Preset{
			{Name: "sit", Height: 75},
			{Name: "stand", Height: 112},
		},
		Enabled: true,
	}
}

func TestPanel_Render(t *testing.T) {
	panel := NewPanel(80)
	view := panel.Render(baseStatus())

	for _, want := range []string{"Desk", "Height: 0.75m", "0.63m", "1.27m", "Target: 0.75m", "sit", "stand", "[1]", "[2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPanel_RenderMoving(t *testing.T) {
	panel := NewPanel(80)
	st := baseStatus()
	st.Enabled = false
	st.Moving = true
	st.Displayed = 90

	view := panel.Render(st)
	if !strings.Contains(view, "moving...") {
		t.Errorf("view missing moving indicator:\n%s", view)
	}
	if !strings.Contains(view, "Height: 0.90m") {
		t.Errorf("view missing animated height:\n%s", view)
	}
}

func TestPanel_RenderError(t *testing.T) {
	panel := NewPanel(80)
	st := baseStatus()
	st.Err = "config reload failed"

	view := panel.Render(st)
	if !strings.Contains(view, "config reload failed") {
		t.Errorf("view missing error banner:\n%s", view)
	}
}

func TestPanel_RenderWithoutPresets(t *testing.T) {
	panel := NewPanel(80)
	st := baseStatus()
	st.Presets = nil

	view := panel.Render(st)
	if strings.Contains(view, "[1]") {
		t.Errorf("view shows preset row without presets:\n%s", view)
	}
}

func TestPanel_RenderPadsToHeight(t *testing.T) {
	panel := NewPanel(80)
	panel.SetHeight(12)

	view := panel.Render(baseStatus())
	if got := len(strings.Split(view, "\n")); got != 12 {
		t.Errorf("view has %d lines, want 12", got)
	}
}
