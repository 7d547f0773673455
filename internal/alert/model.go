package alert

import (
	"time"

	"health-directory/internal/domain/reminders"
)

const (
	DefaultPollInterval = time.Second
	DefaultTimeout      = 8 * time.Second
	DefaultToneDuration = 2 * time.Second
)

// DefaultVibration: 500ms on / 200ms off, cinco veces.
var DefaultVibration = []time.Duration{
	500 * time.Millisecond, 200 * time.Millisecond,
	500 * time.Millisecond, 200 * time.Millisecond,
	500 * time.Millisecond, 200 * time.Millisecond,
	500 * time.Millisecond, 200 * time.Millisecond,
	500 * time.Millisecond, 200 * time.Millisecond,
}

// AlarmState es la alarma visible; hay a lo sumo una por loop.
type AlarmState struct {
	ScheduleID string    `json:"schedule_id"`
	Medicine   string    `json:"medicine"`
	Slot       string    `json:"slot"`
	FiredAt    time.Time `json:"fired_at"`
}

// SuppressionRecord guarda la última alarma terminada y el minuto (HH:MM) en que terminó.
type SuppressionRecord struct {
	Medicine string `json:"medicine"`
	Slot     string `json:"slot"`
	Minute   string `json:"minute"`
}

func (s SuppressionRecord) IsZero() bool {
	return s == SuppressionRecord{}
}

func (s SuppressionRecord) Suppresses(medicine, slot, minute string) bool {
	return !s.IsZero() && s.Medicine == medicine && s.Slot == slot && s.Minute == minute
}

type EndReason string

const (
	ReasonDismissed EndReason = "dismissed"
	ReasonTimeout   EndReason = "timeout"
	ReasonDisabled  EndReason = "disabled"
	ReasonStopped   EndReason = "stopped"
)

// State es la foto de un loop para la API.
type State struct {
	Enabled     bool                 `json:"enabled"`
	Alarm       *AlarmState          `json:"alarm,omitempty"`
	Suppression *SuppressionRecord   `json:"suppression,omitempty"`
	Today       []reminders.Schedule `json:"-"`
}
