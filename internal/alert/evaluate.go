package alert

import (
	"time"

	"health-directory/internal/domain/reminders"
)

// Evaluate decide si en now corresponde disparar una alarma.
// Recorre los schedules activos hoy en el orden recibido y sus slots en orden;
// gana el primer slot igual a HH:MM que no esté suprimido.
func Evaluate(schedules []reminders.Schedule, now time.Time, sup SuppressionRecord) (AlarmState, bool) {
	minute := now.Format(reminders.SlotLayout)

	for _, s := range reminders.ActiveToday(schedules, now) {
		for _, raw := range s.ReminderTimes {
			slot, err := reminders.NormalizeSlot(raw)
			if err != nil || slot != minute {
				continue
			}
			if sup.Suppresses(s.MedicineName, slot, minute) {
				continue
			}
			return AlarmState{
				ScheduleID: s.ID,
				Medicine:   s.MedicineName,
				Slot:       slot,
				FiredAt:    now,
			}, true
		}
	}
	return AlarmState{}, false
}
