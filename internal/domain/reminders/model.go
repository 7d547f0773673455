package reminders

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout es el formato de start_date / end_date.
const DateLayout = "2006-01-02"

// SlotLayout es el formato HH:MM 24h de cada toma.
const SlotLayout = "15:04"

type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyAsNeeded        Frequency = "as_needed"
)

func (f Frequency) Valid() bool {
	_, ok := defaultSlots[f]
	return ok
}

var defaultSlots = map[Frequency][]string{
	FrequencyOnceDaily:       {"09:00"},
	FrequencyTwiceDaily:      {"09:00", "21:00"},
	FrequencyThreeTimesDaily: {"08:00", "14:00", "20:00"},
	FrequencyFourTimesDaily:  {"08:00", "12:00", "16:00", "20:00"},
	FrequencyAsNeeded:        {"09:00"},
}

// DefaultTimes devuelve una copia de los horarios sugeridos para la frecuencia.
func DefaultTimes(f Frequency) []string {
	return append([]string(nil), defaultSlots[f]...)
}

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusActive    Status = "active"
)

// Schedule es un recordatorio de medicina de un usuario.
// StartDate/EndDate son fechas de calendario (sólo importa YYYY-MM-DD).
type Schedule struct {
	ID     string
	UserID string

	MedicineName  string
	Dosage        string
	Frequency     Frequency
	ReminderTimes []string // HH:MM, en el orden cargado

	StartDate time.Time
	EndDate   *time.Time

	Notes    string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func day(t time.Time) string {
	return t.Format(DateLayout)
}

// ActiveOn: activo, ya empezó y no terminó antes de hoy.
func (s Schedule) ActiveOn(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	today := day(now)
	if day(s.StartDate) > today {
		return false
	}
	if s.EndDate != nil && day(*s.EndDate) < today {
		return false
	}
	return true
}

func (s Schedule) Status(now time.Time) Status {
	today := day(now)
	switch {
	case day(s.StartDate) > today:
		return StatusUpcoming
	case s.EndDate != nil && day(*s.EndDate) < today:
		return StatusCompleted
	case !s.IsActive:
		return StatusPaused
	default:
		return StatusActive
	}
}

// ActiveToday filtra los schedules activos hoy; conserva el orden de entrada.
func ActiveToday(schedules []Schedule, now time.Time) []Schedule {
	out := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		if s.ActiveOn(now) {
			out = append(out, s)
		}
	}
	return out
}

var slotRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// NormalizeSlot valida H:MM / HH:MM y devuelve HH:MM.
func NormalizeSlot(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !slotRe.MatchString(raw) {
		return "", fmt.Errorf("%w: bad time %q", ErrInvalidInput, raw)
	}
	hh, mm, _ := strings.Cut(raw, ":")
	h, _ := strconv.Atoi(hh)
	return fmt.Sprintf("%02d:%s", h, mm), nil
}

func normalizeSlots(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := NormalizeSlot(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseDate interpreta YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}
