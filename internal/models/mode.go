package models

import "fmt"

// Mode is the adaptive behavioral state derived from adherence history.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeBusy     Mode = "busy"
	ModeLowMood  Mode = "low_mood"
	ModeRecovery Mode = "recovery"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNormal, ModeBusy, ModeLowMood, ModeRecovery:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// DisplayText returns human-readable text for the mode.
func (m Mode) DisplayText() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeBusy:
		return "Busy"
	case ModeLowMood:
		return "Low mood"
	case ModeRecovery:
		return "Recovery"
	default:
		return "Unknown"
	}
}
