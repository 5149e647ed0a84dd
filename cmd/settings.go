// File: cmd/settings.go
package cmd

import (
	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/config"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/replay"
	"github.com/xkilldash9x/dragsort/internal/tui"
)

// dragOptions maps the dragdrop section onto controller options.
func dragOptions(cfg config.Interface) dragdrop.Options {
	d := cfg.DragDrop()
	return dragdrop.Options{
		ScrollZone:    d.ScrollZone,
		ScrollSpeed:   d.ScrollSpeed,
		DraggingClass: d.DraggingClass,
		CloneClass:    d.CloneClass,
	}
}

func replaySettings(cfg config.Interface) replay.Settings {
	return replay.Settings{
		Options:     dragOptions(cfg),
		Viewport:    schemas.Viewport{Width: cfg.Viewport().Width, Height: cfg.Viewport().Height},
		FPS:         cfg.Frame().FPS,
		HookTimeout: cfg.Hooks().Timeout,
		HooksPath:   cfg.Hooks().Script,
	}
}

func tuiSettings(cfg config.Interface) tui.Settings {
	return tui.Settings{
		CellWidth:  cfg.TUI().CellWidth,
		CellHeight: cfg.TUI().CellHeight,
		FPS:        cfg.Frame().FPS,
	}
}
