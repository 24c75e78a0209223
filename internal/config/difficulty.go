package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the named presets in increasing strength.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ValidPreset reports whether p is a known preset. The empty preset is
// valid and behaves like fixed.
func ValidPreset(p DifficultyPreset) bool {
	switch p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return true
	default:
		return false
	}
}

// DepthForPreset returns the search depth for a preset, or 0 for presets
// that keep the configured depth.
func DepthForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 3
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset leaves ai.depth alone.
func IsFixedPreset(preset DifficultyPreset) bool {
	return DepthForPreset(preset) == 0
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.AI.Difficulty = preset
	if d := DepthForPreset(preset); d > 0 {
		cfg.AI.Depth = d
	}
}
