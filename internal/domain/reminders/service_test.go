package reminders

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	order []string
	byID  map[string]Schedule
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Schedule{}}
}

func (r *testRepo) Create(ctx context.Context, s Schedule) error {
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Schedule, error) {
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		if s, ok := r.byID[r.order[i]]; ok && s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, s Schedule) error {
	if _, ok := r.byID[s.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

type countingNotifier struct {
	calls []string
}

func (n *countingNotifier) SchedulesChanged(_ context.Context, userID string) {
	n.calls = append(n.calls, userID)
}

func newTestService() (*Service, *countingNotifier) {
	n := &countingNotifier{}
	svc := NewService(newTestRepo(), n)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return svc, n
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndNormalization(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()

	sc, err := svc.Create(ctx, "u1", CreateInput{
		MedicineName: "  Paracetamol ",
		Dosage:       "500mg",
		Frequency:    FrequencyThreeTimesDaily,
		StartDate:    mustDate(t, "2026-10-19"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sc.MedicineName != "Paracetamol" {
		t.Fatalf("expected trimmed name, got %q", sc.MedicineName)
	}
	if !reflect.DeepEqual(sc.ReminderTimes, []string{"08:00", "14:00", "20:00"}) {
		t.Fatalf("unexpected default slots: %v", sc.ReminderTimes)
	}
	if !sc.IsActive {
		t.Fatalf("expected active by default")
	}
	if len(n.calls) != 1 || n.calls[0] != "u1" {
		t.Fatalf("expected one change notification, got %v", n.calls)
	}

	sc, err = svc.Create(ctx, "u1", CreateInput{
		MedicineName:  "Ibuprofen",
		Dosage:        "1 tab",
		Frequency:     FrequencyTwiceDaily,
		ReminderTimes: []string{"7:05", "19:30", ""},
		StartDate:     mustDate(t, "2026-10-19"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !reflect.DeepEqual(sc.ReminderTimes, []string{"07:05", "19:30"}) {
		t.Fatalf("expected normalized slots, got %v", sc.ReminderTimes)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()
	start := mustDate(t, "2026-10-19")
	before := mustDate(t, "2026-10-18")

	cases := map[string]CreateInput{
		"missing name":   {Dosage: "1", StartDate: start},
		"missing dosage": {MedicineName: "A", StartDate: start},
		"missing start":  {MedicineName: "A", Dosage: "1"},
		"bad frequency":  {MedicineName: "A", Dosage: "1", StartDate: start, Frequency: "hourly"},
		"bad slot":       {MedicineName: "A", Dosage: "1", StartDate: start, ReminderTimes: []string{"24:00"}},
		"end < start":    {MedicineName: "A", Dosage: "1", StartDate: start, EndDate: &before},
	}
	for name, in := range cases {
		if _, err := svc.Create(ctx, "u1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if len(n.calls) != 0 {
		t.Fatalf("invalid input must not notify, got %v", n.calls)
	}
}

func TestUpdate_OwnerOnlyAndFrequencyResetsSlots(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()

	sc, err := svc.Create(ctx, "u1", CreateInput{
		MedicineName: "A", Dosage: "1", Frequency: FrequencyOnceDaily, StartDate: mustDate(t, "2026-10-19"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	freq := FrequencyTwiceDaily
	if _, err := svc.Update(ctx, "intruder", sc.ID, UpdateInput{Frequency: &freq}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	upd, err := svc.Update(ctx, "u1", sc.ID, UpdateInput{Frequency: &freq})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(upd.ReminderTimes, []string{"09:00", "21:00"}) {
		t.Fatalf("expected twice-daily defaults, got %v", upd.ReminderTimes)
	}
	if len(n.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %v", n.calls)
	}

	if _, err := svc.Update(ctx, "u1", "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetActiveAndDelete(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()

	sc, _ := svc.Create(ctx, "u1", CreateInput{MedicineName: "A", Dosage: "1", StartDate: mustDate(t, "2026-10-19")})

	paused, err := svc.SetActive(ctx, "u1", sc.ID, false)
	if err != nil || paused.IsActive {
		t.Fatalf("pause failed: %v %+v", err, paused)
	}
	// Idempotente: no notifica de nuevo.
	if _, err := svc.SetActive(ctx, "u1", sc.ID, false); err != nil {
		t.Fatalf("pause again: %v", err)
	}
	if len(n.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %v", n.calls)
	}

	today, _ := svc.Today(ctx, "u1")
	if len(today) != 0 {
		t.Fatalf("paused schedule must not be active today")
	}

	if err := svc.Delete(ctx, "u2", sc.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "u1", sc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", sc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
