package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-directory/internal/domain/reminders"
)

// recorder implementa Surface, Vibrator, Player y Primer y guarda las llamadas.
type recorder struct {
	mu       sync.Mutex
	events   []string
	plays    int
	playErr  error
	primeErr error
	playing  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{playing: make(chan struct{}, 16)}
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Show(_ string, a AlarmState) { r.add("show:" + a.Medicine + "@" + a.Slot) }
func (r *recorder) Hide(_ string, a AlarmState, reason EndReason) {
	r.add("hide:" + a.Medicine + "@" + a.Slot + ":" + string(reason))
}
func (r *recorder) Vibrate(string, []time.Duration) { r.add("vibrate") }
func (r *recorder) CancelVibration(string)          { r.add("vibrate.cancel") }

func (r *recorder) Prime(context.Context, string) error {
	r.add("prime")
	return r.primeErr
}

// Play bloquea hasta que se cancela ctx, como un tono largo.
func (r *recorder) Play(ctx context.Context, _ string) error {
	r.mu.Lock()
	r.plays++
	err := r.playErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.playing <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) time.Time {
	return today.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func paracetamol() reminders.Schedule {
	return reminders.Schedule{
		ID:            "s1",
		MedicineName:  "Paracetamol",
		ReminderTimes: []string{"09:00"},
		StartDate:     today,
		IsActive:      true,
	}
}

func newTestLoop(t *testing.T, rec *recorder, c *clock) *Loop {
	t.Helper()
	l := NewLoop(LoopConfig{
		UserID:   "u1",
		Surface:  rec,
		Player:   rec,
		Vibrator: rec,
		Primer:   rec,
		Now:      c.Now,
	})
	t.Cleanup(l.Stop)
	return l
}

func TestScenario1_DismissSuppressesForTheMinute(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())

	l.Tick(at(8, 59, 59))
	_, ok := l.Alarm()
	require.False(t, ok)

	l.Tick(at(9, 0, 0))
	a, ok := l.Alarm()
	require.True(t, ok)
	assert.Equal(t, "Paracetamol", a.Medicine)
	assert.Equal(t, "09:00", a.Slot)
	<-rec.playing

	c.Set(at(9, 0, 3))
	require.True(t, l.Dismiss())
	_, ok = l.Alarm()
	assert.False(t, ok)
	assert.Equal(t, SuppressionRecord{Medicine: "Paracetamol", Slot: "09:00", Minute: "09:00"}, l.Suppression())

	l.Tick(at(9, 0, 45))
	_, ok = l.Alarm()
	assert.False(t, ok, "suppressed within the same minute")

	l.Tick(at(9, 1, 0))
	_, ok = l.Alarm()
	assert.False(t, ok, "no slot at 09:01")

	assert.Equal(t, []string{
		"prime",
		"show:Paracetamol@09:00",
		"vibrate",
		"vibrate.cancel",
		"hide:Paracetamol@09:00:dismissed",
	}, rec.Events())
}

func TestScenario2_InactiveScheduleNeverFires(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	s := paracetamol()
	s.IsActive = false
	l.SetSchedules([]reminders.Schedule{s})
	l.Enable(context.Background())

	l.Tick(at(9, 0, 0))
	_, ok := l.Alarm()
	assert.False(t, ok)
}

func TestScenario3_FutureStartNeverFires(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	s := paracetamol()
	s.StartDate = today.AddDate(0, 0, 1)
	l.SetSchedules([]reminders.Schedule{s})
	l.Enable(context.Background())

	for sec := 0; sec < 60; sec++ {
		l.Tick(at(9, 0, sec))
	}
	_, ok := l.Alarm()
	assert.False(t, ok)
	assert.Equal(t, []string{"prime"}, rec.Events())
}

func TestProperty_EndedScheduleNeverFires(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	s := paracetamol()
	s.StartDate = today.AddDate(0, 0, -10)
	yesterday := today.AddDate(0, 0, -1)
	s.EndDate = &yesterday
	l.SetSchedules([]reminders.Schedule{s})
	l.Enable(context.Background())

	l.Tick(at(9, 0, 0))
	_, ok := l.Alarm()
	assert.False(t, ok)
}

func TestScenario4_TimeoutAutoDismissAndSuppress(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())

	l.Tick(at(9, 0, 0))
	_, ok := l.Alarm()
	require.True(t, ok)

	for sec := 1; sec < 8; sec++ {
		l.Tick(at(9, 0, sec))
		_, ok = l.Alarm()
		require.True(t, ok, "alarm still up at +%ds", sec)
	}

	l.Tick(at(9, 0, 8))
	_, ok = l.Alarm()
	assert.False(t, ok, "auto-dismissed at +8s")
	assert.Equal(t, SuppressionRecord{Medicine: "Paracetamol", Slot: "09:00", Minute: "09:00"}, l.Suppression())

	for sec := 9; sec < 60; sec++ {
		l.Tick(at(9, 0, sec))
		_, ok = l.Alarm()
		require.False(t, ok, "refired at 09:00:%02d", sec)
	}

	events := rec.Events()
	assert.Equal(t, "hide:Paracetamol@09:00:timeout", events[len(events)-1])
}

func TestScenario5_GateBlocksEverySideEffect(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	s := paracetamol()
	s.ReminderTimes = []string{"09:00", "09:05"}
	l.SetSchedules([]reminders.Schedule{s})

	for sec := 0; sec < 60; sec++ {
		l.Tick(at(9, 0, sec))
	}
	_, ok := l.Alarm()
	assert.False(t, ok)
	assert.Empty(t, rec.Events())

	l.Enable(context.Background())
	l.Tick(at(9, 5, 0))
	<-rec.playing

	assert.Equal(t, []string{"prime", "show:Paracetamol@09:05", "vibrate"}, rec.Events())
}

func TestProperty_SingleAlarmFirstMatchWins(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)

	first := paracetamol()
	second := paracetamol()
	second.ID = "s2"
	second.MedicineName = "Ibuprofen"
	l.SetSchedules([]reminders.Schedule{first, second})
	l.Enable(context.Background())

	l.Tick(at(9, 0, 0))
	a, ok := l.Alarm()
	require.True(t, ok)
	assert.Equal(t, "Paracetamol", a.Medicine)

	// Mientras hay alarma no se evalúa otra.
	l.Tick(at(9, 0, 1))
	a, _ = l.Alarm()
	assert.Equal(t, "Paracetamol", a.Medicine)

	// Al terminar, el otro schedule sí puede disparar en el mismo minuto.
	c.Set(at(9, 0, 2))
	l.Dismiss()
	l.Tick(at(9, 0, 3))
	a, ok = l.Alarm()
	require.True(t, ok)
	assert.Equal(t, "Ibuprofen", a.Medicine)

	shows := 0
	for _, e := range rec.Events() {
		if len(e) > 5 && e[:5] == "show:" {
			shows++
		}
	}
	assert.Equal(t, 2, shows)
}

func TestToneAndPrimeFailuresAreNonFatal(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	rec.playErr = errors.New("autoplay blocked")
	rec.primeErr = errors.New("no audio device")

	l := newTestLoop(t, rec, c)
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())
	require.True(t, l.Enabled())

	l.Tick(at(9, 0, 0))
	_, ok := l.Alarm()
	require.True(t, ok)

	l.Tick(at(9, 0, 8))
	_, ok = l.Alarm()
	assert.False(t, ok)
	assert.False(t, l.Suppression().IsZero())
}

func TestDisableEndsAlarmAndClosesGate(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	l := newTestLoop(t, rec, c)
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())

	l.Tick(at(9, 0, 0))
	<-rec.playing
	c.Set(at(9, 0, 1))
	l.Disable()

	_, ok := l.Alarm()
	assert.False(t, ok)
	assert.False(t, l.Enabled())

	l.Tick(at(9, 0, 2))
	events := rec.Events()
	assert.Equal(t, "hide:Paracetamol@09:00:disabled", events[len(events)-1])
}

func TestStopWaitsForToneAndTicker(t *testing.T) {
	rec, c := newRecorder(), &clock{}
	c.Set(at(9, 0, 0))

	l := NewLoop(LoopConfig{
		UserID:       "u1",
		PollInterval: 5 * time.Millisecond,
		Surface:      rec,
		Player:       rec,
		Vibrator:     rec,
		Now:          c.Now,
	})
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())
	l.Start()
	l.Start()

	select {
	case <-rec.playing:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker never fired the alarm")
	}

	l.Stop()

	_, ok := l.Alarm()
	assert.False(t, ok)
	assert.False(t, l.Enabled())
	events := rec.Events()
	assert.Equal(t, "hide:Paracetamol@09:00:stopped", events[len(events)-1])

	n := len(rec.Events())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.Events(), n, "no side effects after Stop")
}

// shortTone termina solo después de d, como un archivo de audio corto.
type shortTone struct {
	d     time.Duration
	mu    sync.Mutex
	plays int
}

func (s *shortTone) Play(ctx context.Context, _ string) error {
	s.mu.Lock()
	s.plays++
	s.mu.Unlock()

	select {
	case <-time.After(s.d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *shortTone) Plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

func newToneLoop(t *testing.T, p Player, c *clock) *Loop {
	t.Helper()
	l := NewLoop(LoopConfig{UserID: "u1", Player: p, Now: c.Now})
	t.Cleanup(l.Stop)
	l.SetSchedules([]reminders.Schedule{paracetamol()})
	l.Enable(context.Background())
	return l
}

func TestToneReplaysUntilDismiss(t *testing.T) {
	tone := &shortTone{d: 20 * time.Millisecond}
	c := &clock{}
	l := newToneLoop(t, tone, c)

	l.Tick(at(9, 0, 0))
	assert.Eventually(t, func() bool { return tone.Plays() >= 2 }, 2*time.Second, 5*time.Millisecond)

	c.Set(at(9, 0, 2))
	require.True(t, l.Dismiss())
	l.toneWG.Wait()

	n := tone.Plays()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, n, tone.Plays(), "tone kept playing after dismiss")
}

func TestToneThatEndsInstantlyIsNotRepeated(t *testing.T) {
	tone := &shortTone{d: 0}
	c := &clock{}
	l := newToneLoop(t, tone, c)

	l.Tick(at(9, 0, 0))
	l.toneWG.Wait()

	assert.Equal(t, 1, tone.Plays())
	_, ok := l.Alarm()
	assert.True(t, ok, "alarm stays up without tone")

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, tone.Plays())
}
