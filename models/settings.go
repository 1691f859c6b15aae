package models

// Settings are the operator preferences kept in the local settings store,
// loaded once at startup and persisted on every change.
type Settings struct {
	QuickDurationSeconds int    `json:"quick_duration_seconds"`
	AlertSeconds         int    `json:"alert_seconds"`
	DefaultTeamA         string `json:"default_team_a"`
	DefaultTeamB         string `json:"default_team_b"`
	SoundEnabled         bool   `json:"sound_enabled"`
	Theme                string `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		QuickDurationSeconds: 7 * 60,
		AlertSeconds:         20,
		DefaultTeamA:         "Com Colete",
		DefaultTeamB:         "Sem Colete",
		SoundEnabled:         true,
		Theme:                "dark-green",
	}
}
