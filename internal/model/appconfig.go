package model

// AppConfig holds application-wide preferences and the default drawing
// settings applied to a new surface.
type AppConfig struct {
	// Defaults applied when a new drawing surface is created
	DefaultMergeEnabled      bool    `json:"default_merge_enabled"`
	DefaultDraggingEnabled   bool    `json:"default_dragging_enabled"`
	DefaultModifierKey       string  `json:"default_modifier_key"`
	DefaultOptimizationLevel int     `json:"default_optimization_level"`
	DefaultSimplifyTolerance float64 `json:"default_simplify_tolerance"`

	// Application preferences
	RecentFiles []string `json:"recent_files"`
	Theme       string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMergeEnabled:      defaults.MergeEnabled,
		DefaultDraggingEnabled:   defaults.DraggingEnabled,
		DefaultModifierKey:       string(defaults.Modifier),
		DefaultOptimizationLevel: defaults.OptimizationLevel,
		DefaultSimplifyTolerance: defaults.SimplifyTolerance,
		RecentFiles:              []string{},
		Theme:                    "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// DrawSettings struct. Used when creating a new drawing surface so it
// inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *DrawSettings) {
	s.MergeEnabled = c.DefaultMergeEnabled
	s.DraggingEnabled = c.DefaultDraggingEnabled
	if c.DefaultModifierKey != "" {
		s.Modifier = ModifierKey(c.DefaultModifierKey)
	}
	s.OptimizationLevel = c.DefaultOptimizationLevel
	s.SimplifyTolerance = c.DefaultSimplifyTolerance
}
