package records

import (
	"context"
	"strings"
	"time"

	"health-directory/internal/domain/reminders"
	"health-directory/internal/ports/recordstore"
)

type reminderRow struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	MedicineName  string    `json:"medicine_name"`
	Dosage        string    `json:"dosage"`
	Frequency     string    `json:"frequency"`
	ReminderTimes []string  `json:"reminder_times"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toReminderRow(s reminders.Schedule) reminderRow {
	var end *string
	if s.EndDate != nil {
		v := s.EndDate.Format(reminders.DateLayout)
		end = &v
	}
	return reminderRow{
		ID:            s.ID,
		UserID:        s.UserID,
		MedicineName:  s.MedicineName,
		Dosage:        s.Dosage,
		Frequency:     string(s.Frequency),
		ReminderTimes: s.ReminderTimes,
		StartDate:     s.StartDate.Format(reminders.DateLayout),
		EndDate:       end,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// parseDay acepta "YYYY-MM-DD" y también timestamps completos.
func parseDay(s string) (time.Time, error) {
	if len(s) > len(reminders.DateLayout) {
		s = s[:len(reminders.DateLayout)]
	}
	return time.Parse(reminders.DateLayout, s)
}

func (r reminderRow) toSchedule() (reminders.Schedule, error) {
	start, err := parseDay(r.StartDate)
	if err != nil {
		return reminders.Schedule{}, err
	}
	var end *time.Time
	if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
		t, err := parseDay(*r.EndDate)
		if err != nil {
			return reminders.Schedule{}, err
		}
		end = &t
	}
	return reminders.Schedule{
		ID:            r.ID,
		UserID:        r.UserID,
		MedicineName:  r.MedicineName,
		Dosage:        r.Dosage,
		Frequency:     reminders.Frequency(r.Frequency),
		ReminderTimes: r.ReminderTimes,
		StartDate:     start,
		EndDate:       end,
		Notes:         r.Notes,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

type RemindersRepo struct {
	store recordstore.Store
}

func NewRemindersRepo(store recordstore.Store) *RemindersRepo {
	return &RemindersRepo{store: store}
}

var _ reminders.Repository = (*RemindersRepo)(nil)

func (r *RemindersRepo) Create(ctx context.Context, s reminders.Schedule) error {
	_, err := r.store.Insert(ctx, recordstore.TableMedicineReminders, toReminderRow(s))
	return err
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Schedule, error) {
	raw, err := r.store.Get(ctx, recordstore.TableMedicineReminders, id)
	if err != nil {
		return reminders.Schedule{}, mapNotFound(err, reminders.ErrNotFound)
	}
	row, err := decodeOne[reminderRow](raw)
	if err != nil {
		return reminders.Schedule{}, err
	}
	return row.toSchedule()
}

func (r *RemindersRepo) ListByUser(ctx context.Context, userID string) ([]reminders.Schedule, error) {
	raws, err := r.store.Select(ctx, recordstore.Query{
		Table:   recordstore.TableMedicineReminders,
		Filters: []recordstore.Filter{recordstore.Eq("user_id", userID)},
		Order:   []recordstore.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeAll[reminderRow](raws)
	if err != nil {
		return nil, err
	}

	out := make([]reminders.Schedule, 0, len(rows))
	for _, row := range rows {
		s, err := row.toSchedule()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RemindersRepo) Update(ctx context.Context, s reminders.Schedule) error {
	_, err := r.store.Update(ctx, recordstore.TableMedicineReminders, s.ID, toReminderRow(s))
	return mapNotFound(err, reminders.ErrNotFound)
}

func (r *RemindersRepo) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableMedicineReminders, id), reminders.ErrNotFound)
}
