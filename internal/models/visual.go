package models

// LampMode is how the signal tower presents a status.
type LampMode string

const (
	// LampSteady lights one lamp continuously.
	LampSteady LampMode = "STEADY"
	// LampBlink flashes one lamp; reserved for sudden stops.
	LampBlink LampMode = "BLINK"
	// LampOff is the neutral quiescent presentation for an OFF status.
	LampOff LampMode = "OFF"
	// LampBlank blanks all lamps without blinking; the "no recent heartbeat"
	// presentation, deliberately distinct from LampOff.
	LampBlank LampMode = "BLANK"
	// LampDisabled greys the tower out entirely for unmapped equipment.
	LampDisabled LampMode = "DISABLED"
)

// Lamp colors of the signal tower.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// VisualState is the derived presentation of a status. It is never stored;
// renderers derive it on demand from the canonical status.
type VisualState struct {
	Mode  LampMode `json:"mode"`
	Color string   `json:"color,omitempty"`
}

// DeriveVisual maps a canonical status to its lamp presentation.
func DeriveVisual(status CanonicalStatus) VisualState {
	switch status {
	case StatusRun:
		return VisualState{Mode: LampSteady, Color: ColorGreen}
	case StatusIdle:
		return VisualState{Mode: LampSteady, Color: ColorYellow}
	case StatusStop:
		return VisualState{Mode: LampSteady, Color: ColorRed}
	case StatusSuddenStop:
		return VisualState{Mode: LampBlink, Color: ColorRed}
	case StatusDisconnected:
		return VisualState{Mode: LampBlank}
	default: // StatusOff and anything unexpected stay neutral
		return VisualState{Mode: LampOff}
	}
}

// DeriveDisabledVisual is the presentation of the unmapped override.
func DeriveDisabledVisual() VisualState {
	return VisualState{Mode: LampDisabled}
}
