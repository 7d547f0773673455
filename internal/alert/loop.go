package alert

import (
	"context"
	"sync"
	"time"

	"health-directory/internal/domain/reminders"
	"health-directory/internal/platform/logger"
)

// minToneRun: si Play vuelve antes, no se repite (evita un loop caliente).
const minToneRun = 10 * time.Millisecond

type LoopConfig struct {
	UserID string

	PollInterval time.Duration
	Timeout      time.Duration
	Vibration    []time.Duration

	Surface  Surface
	Player   Player
	Vibrator Vibrator
	Primer   Primer

	Logger  logger.Logger
	Metrics *Metrics

	Now func() time.Time

	// Suppression inicial (la de un loop anterior del mismo usuario).
	Suppression SuppressionRecord
}

func (c *LoopConfig) defaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Vibration == nil {
		c.Vibration = DefaultVibration
	}
	if c.Surface == nil {
		c.Surface = nopSurface{}
	}
	if c.Player == nil {
		c.Player = nopPlayer{}
	}
	if c.Vibrator == nil {
		c.Vibrator = nopVibrator{}
	}
	if c.Logger == nil {
		c.Logger = logger.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Loop vigila el reloj contra los schedules de un usuario y levanta a lo sumo
// una alarma a la vez. Tick, Dismiss, Enable, Disable y SetSchedules se
// serializan con mu.
type Loop struct {
	cfg LoopConfig
	log logger.Logger

	mu          sync.Mutex
	enabled     bool
	schedules   []reminders.Schedule
	alarm       *AlarmState
	suppression SuppressionRecord
	stopTone    context.CancelFunc

	toneWG sync.WaitGroup

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLoop(cfg LoopConfig) *Loop {
	cfg.defaults()
	return &Loop{
		cfg:         cfg,
		log:         cfg.Logger.With(map[string]any{"component": "alert_loop", "user_id": cfg.UserID}),
		suppression: cfg.Suppression,
	}
}

// Start arranca el ticker. Llamarlo dos veces no crea otro.
func (l *Loop) Start() {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	if l.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ticker := time.NewTicker(l.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Tick(l.cfg.Now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop detiene el ticker, termina la alarma activa y espera a las goroutines.
// Después de Stop el loop queda deshabilitado.
func (l *Loop) Stop() {
	l.runMu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.runMu.Unlock()
	l.wg.Wait()

	l.mu.Lock()
	if l.alarm != nil {
		l.end(l.cfg.Now(), ReasonStopped)
	}
	l.enabled = false
	l.mu.Unlock()

	l.toneWG.Wait()
}

// Enable es el gesto explícito del usuario. Antes de esto Tick no hace nada.
// Un fallo al preparar el audio no impide habilitar.
func (l *Loop) Enable(ctx context.Context) {
	if l.cfg.Primer != nil {
		if err := l.cfg.Primer.Prime(ctx, l.cfg.UserID); err != nil {
			l.log.Debug("alert audio prime failed", map[string]any{"err": err})
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = true
}

func (l *Loop) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.alarm != nil {
		l.end(l.cfg.Now(), ReasonDisabled)
	}
	l.enabled = false
}

// Dismiss termina la alarma activa. Devuelve false si no había ninguna.
func (l *Loop) Dismiss() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.alarm == nil {
		return false
	}
	l.end(l.cfg.Now(), ReasonDismissed)
	return true
}

// SetSchedules reemplaza la foto de schedules (se copia).
func (l *Loop) SetSchedules(list []reminders.Schedule) {
	cp := append([]reminders.Schedule(nil), list...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.schedules = cp
}

// Tick evalúa un instante. Sin I/O: los adapters no bloquean.
func (l *Loop) Tick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	if l.alarm != nil {
		if now.Sub(l.alarm.FiredAt) >= l.cfg.Timeout {
			l.end(now, ReasonTimeout)
		}
		return
	}

	a, ok := Evaluate(l.schedules, now, l.suppression)
	if !ok {
		return
	}
	l.begin(a)
}

// begin requiere mu tomado.
func (l *Loop) begin(a AlarmState) {
	l.alarm = &a

	l.cfg.Surface.Show(l.cfg.UserID, a)

	ctx, cancel := context.WithCancel(context.Background())
	l.stopTone = cancel
	l.toneWG.Add(1)
	go l.playTone(ctx)

	l.cfg.Vibrator.Vibrate(l.cfg.UserID, l.cfg.Vibration)

	l.cfg.Metrics.alarmFired()
	l.log.Info("alarm fired", map[string]any{
		"medicine":    a.Medicine,
		"slot":        a.Slot,
		"schedule_id": a.ScheduleID,
	})
}

// end requiere mu tomado y alarm != nil.
func (l *Loop) end(now time.Time, reason EndReason) {
	a := *l.alarm

	if l.stopTone != nil {
		l.stopTone()
		l.stopTone = nil
	}
	l.cfg.Vibrator.CancelVibration(l.cfg.UserID)
	l.cfg.Surface.Hide(l.cfg.UserID, a, reason)

	l.suppression = SuppressionRecord{
		Medicine: a.Medicine,
		Slot:     a.Slot,
		Minute:   now.Format(reminders.SlotLayout),
	}
	l.alarm = nil

	l.cfg.Metrics.alarmEnded(reason)
	l.log.Info("alarm ended", map[string]any{
		"medicine": a.Medicine,
		"slot":     a.Slot,
		"reason":   string(reason),
	})
}

// playTone repite el tono hasta que se cancele ctx. Un error corta el tono
// pero no la alarma.
func (l *Loop) playTone(ctx context.Context) {
	defer l.toneWG.Done()

	for ctx.Err() == nil {
		start := time.Now()
		err := l.cfg.Player.Play(ctx, l.cfg.UserID)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			l.log.Debug("alarm tone failed", map[string]any{"err": err})
			return
		}
		if time.Since(start) < minToneRun {
			return
		}
	}
}

func (l *Loop) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *Loop) Alarm() (AlarmState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.alarm == nil {
		return AlarmState{}, false
	}
	return *l.alarm, true
}

func (l *Loop) Suppression() SuppressionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.suppression
}

// Snapshot arma el State con la proyección de hoy.
func (l *Loop) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := State{
		Enabled: l.enabled,
		Today:   reminders.ActiveToday(l.schedules, l.cfg.Now()),
	}
	if l.alarm != nil {
		a := *l.alarm
		st.Alarm = &a
	}
	if !l.suppression.IsZero() {
		s := l.suppression
		st.Suppression = &s
	}
	return st
}
