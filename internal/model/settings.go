// Package model holds the configuration data types shared by the engine,
// the UI binding, and the exporters.
package model

// ModifierKey names the keyboard key that switches a polygon drag into a
// subtract gesture.
type ModifierKey string

const (
	ModifierAlt     ModifierKey = "Alt"
	ModifierControl ModifierKey = "Control"
	ModifierShift   ModifierKey = "Shift"
)

// DrawSettings holds the engine and interaction configuration for one
// drawing surface. The engine reads it, never writes it.
type DrawSettings struct {
	// MergeEnabled controls whether newly drawn regions are combined
	// with intersecting existing regions. When false every add registers
	// an independent region.
	MergeEnabled bool `json:"merge_enabled"`

	// DraggingEnabled controls whether registered regions can be
	// repositioned by pointer drag.
	DraggingEnabled bool `json:"dragging_enabled"`

	// Modifier is the key that turns a drag release into a subtraction.
	Modifier ModifierKey `json:"modifier_key"`

	// OptimizationLevel is a rendering hint consumed by the marker
	// heuristics: higher levels simplify geometry more aggressively
	// before display. The engine passes it through untouched.
	OptimizationLevel int `json:"optimization_level"`

	// SimplifyTolerance is the Douglas-Peucker base tolerance, in map
	// units, scaled by OptimizationLevel.
	SimplifyTolerance float64 `json:"simplify_tolerance"`

	// MarkerMinArea is the smallest region area that still shows a
	// label marker.
	MarkerMinArea float64 `json:"marker_min_area"`
}

// DefaultSettings returns the settings a fresh drawing surface starts with.
func DefaultSettings() DrawSettings {
	return DrawSettings{
		MergeEnabled:      true,
		DraggingEnabled:   true,
		Modifier:          ModifierAlt,
		OptimizationLevel: 1,
		SimplifyTolerance: 0.5,
		MarkerMinArea:     25.0,
	}
}
