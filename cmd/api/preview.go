package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"health-directory/internal/alert"
	"health-directory/internal/domain/reminders"
	"health-directory/internal/platform/logger"

	"github.com/spf13/cobra"
)

// previewLayout es el formato de --at (hora local).
const previewLayout = "2006-01-02T15:04"

// previewSchedule usa los mismos campos JSON que la API de recordatorios.
type previewSchedule struct {
	ID            string   `json:"id"`
	MedicineName  string   `json:"medicine_name"`
	Dosage        string   `json:"dosage"`
	ReminderTimes []string `json:"reminder_times"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	IsActive      *bool    `json:"is_active"`
}

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert engine tools",
	}
	cmd.AddCommand(newPreviewCmd())
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var (
		file string
		at   string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Dry-run: which reminders are active and which alarm would fire at a given minute",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if strings.TrimSpace(at) != "" {
				t, err := time.ParseInLocation(previewLayout, at, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --at %q (want %s): %w", at, previewLayout, err)
				}
				now = t
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			schedules, err := loadPreviewSchedules(f)
			if err != nil {
				return err
			}
			logger.NewFromEnv().Debug("schedules loaded", map[string]any{"file": file, "count": len(schedules)})
			return runPreview(cmd.OutOrStdout(), schedules, now)
		},
	}
	cmd.Flags().StringVar(&file, "file", "schedules.json", "JSON array of reminders")
	cmd.Flags().StringVar(&at, "at", "", "evaluation minute, "+previewLayout+" (default now)")
	return cmd
}

func loadPreviewSchedules(r io.Reader) ([]reminders.Schedule, error) {
	var raw []previewSchedule
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}

	out := make([]reminders.Schedule, 0, len(raw))
	for i, p := range raw {
		start, err := reminders.ParseDate(p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i, err)
		}
		sc := reminders.Schedule{
			ID:            p.ID,
			MedicineName:  p.MedicineName,
			Dosage:        p.Dosage,
			ReminderTimes: p.ReminderTimes,
			StartDate:     start,
			IsActive:      p.IsActive == nil || *p.IsActive,
		}
		if sc.ID == "" {
			sc.ID = fmt.Sprintf("schedule-%d", i+1)
		}
		if strings.TrimSpace(p.EndDate) != "" {
			end, err := reminders.ParseDate(p.EndDate)
			if err != nil {
				return nil, fmt.Errorf("schedule %d: %w", i, err)
			}
			sc.EndDate = &end
		}
		out = append(out, sc)
	}
	return out, nil
}

func runPreview(w io.Writer, schedules []reminders.Schedule, now time.Time) error {
	today := reminders.ActiveToday(schedules, now)

	fmt.Fprintf(w, "at %s: %d of %d reminders active today\n", now.Format(previewLayout), len(today), len(schedules))
	for _, s := range today {
		fmt.Fprintf(w, "  - %s %s [%s]\n", s.MedicineName, s.Dosage, strings.Join(s.ReminderTimes, ", "))
	}

	a, ok := alert.Evaluate(schedules, now, alert.SuppressionRecord{})
	if !ok {
		fmt.Fprintln(w, "no alarm")
		return nil
	}
	fmt.Fprintf(w, "alarm: %s at %s (schedule %s)\n", a.Medicine, a.Slot, a.ScheduleID)
	return nil
}
