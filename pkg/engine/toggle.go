package engine

import (
	"fmt"
	"strings"
)

// Toggle is a three-valued switch: on, off, or auto. Auto defers the
// decision to the engine's own cost heuristic, e.g. skipping per-table
// detail queries on backends where details cost one query per table.
type Toggle string

// Toggle states.
const (
	ToggleOn   Toggle = "true"
	ToggleOff  Toggle = "false"
	ToggleAuto Toggle = "auto"
)

// ToggleFromBool converts a plain bool to a Toggle.
func ToggleFromBool(v bool) Toggle {
	if v {
		return ToggleOn
	}
	return ToggleOff
}

// ParseToggle parses "true", "false", or "auto" (case-insensitive).
func ParseToggle(s string) (Toggle, error) {
	switch strings.ToLower(s) {
	case "true", "on", "yes":
		return ToggleOn, nil
	case "false", "off", "no":
		return ToggleOff, nil
	case "auto", "":
		return ToggleAuto, nil
	default:
		return ToggleAuto, fmt.Errorf("invalid toggle value %q", s)
	}
}

// Resolve returns the concrete value, substituting auto for the
// engine's preferred default.
func (t Toggle) Resolve(auto bool) bool {
	switch t {
	case ToggleOn:
		return true
	case ToggleOff:
		return false
	default:
		return auto
	}
}
