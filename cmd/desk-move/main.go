// desk-move issues a single desk move from the command line, without the
// TUI. Useful for scripting ("desk-move -to 112") and for wiring desk
// positions into window-manager keybindings.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
	"github.com/victor-hucklenbroich/desk-controller/internal/paths"
	"github.com/victor-hucklenbroich/desk-controller/internal/proc"
)

func main() {
	target := flag.Int("to", 0, "target height in device units")
	preset := flag.String("preset", "", "move to a named preset from the config")
	cfgPath := flag.String("config", paths.ConfigFile(), "config file path")
	flag.Parse()

	if *target == 0 && *preset == "" {
		fmt.Fprintln(os.Stderr, "Usage: desk-move -to <height> | -preset <name>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		color.Red("Failed to load config: %v", err)
		os.Exit(1)
	}

	height := *target
	if *preset != "" {
		p, ok := findPreset(cfg, *preset)
		if !ok {
			color.Red("Unknown preset %q", *preset)
			os.Exit(1)
		}
		height = p.Height
	}

	if height < cfg.MinHeight || height > cfg.MaxHeight {
		color.Red("Height %d outside range %d-%d", height, cfg.MinHeight, cfg.MaxHeight)
		os.Exit(1)
	}

	debug.Log("MOVE_CLI_START target=%d", height)

	// One-shot failures are logged to stderr by the supervisor; the
	// command itself always completes.
	supervisor := proc.NewSupervisor(cfg)
	supervisor.MoveTo(height)

	color.Green("Move to %d dispatched", height)
	debug.Log("MOVE_CLI_DONE target=%d", height)
}

func findPreset(cfg config.Config, name string) (config.Preset, bool) {
	for _, p := range cfg.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return config.Preset{}, false
}
