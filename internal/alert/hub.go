package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"health-directory/internal/domain/reminders"
	"health-directory/internal/platform/logger"
)

const DefaultResyncSpec = "@every 5m"

// ScheduleSource lee los schedules de un usuario (normalmente el record store).
type ScheduleSource interface {
	ListByUser(ctx context.Context, userID string) ([]reminders.Schedule, error)
}

type HubConfig struct {
	Source ScheduleSource

	PollInterval time.Duration
	Timeout      time.Duration
	Vibration    []time.Duration
	LoadTimeout  time.Duration

	Surface  Surface
	Player   Player
	Vibrator Vibrator
	Primer   Primer

	// ResyncSpec es un spec de robfig/cron; "" => DefaultResyncSpec, "off" => sin resync.
	ResyncSpec string

	Logger  logger.Logger
	Metrics *Metrics
	Now     func() time.Time
}

// Hub mantiene un Loop por usuario con alertas habilitadas.
type Hub struct {
	cfg  HubConfig
	log  logger.Logger
	cron *cron.Cron

	mu     sync.Mutex
	closed bool
	loops  map[string]*Loop
	// suppressed guarda la última supresión de loops deshabilitados, para que
	// un Disable + Enable en el mismo minuto no vuelva a disparar.
	suppressed map[string]SuppressionRecord
}

func NewHub(cfg HubConfig) (*Hub, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 5 * time.Second
	}
	if cfg.ResyncSpec == "" {
		cfg.ResyncSpec = DefaultResyncSpec
	}

	h := &Hub{
		cfg:        cfg,
		log:        cfg.Logger.With(map[string]any{"component": "alert_hub"}),
		loops:      make(map[string]*Loop),
		suppressed: make(map[string]SuppressionRecord),
	}

	if cfg.ResyncSpec != "off" {
		h.cron = cron.New()
		if _, err := h.cron.AddFunc(cfg.ResyncSpec, h.Resync); err != nil {
			return nil, fmt.Errorf("alert: invalid resync spec %q: %w", cfg.ResyncSpec, err)
		}
	}
	return h, nil
}

func (h *Hub) Start() {
	if h.cron != nil {
		h.cron.Start()
	}
}

// Stop corta el resync y detiene todos los loops (espera sus goroutines).
func (h *Hub) Stop(ctx context.Context) {
	if h.cron != nil {
		select {
		case <-h.cron.Stop().Done():
		case <-ctx.Done():
		}
	}

	h.mu.Lock()
	h.closed = true
	loops := h.loops
	h.loops = make(map[string]*Loop)
	h.mu.Unlock()

	for _, l := range loops {
		l.Stop()
	}
	h.cfg.Metrics.setLoops(0)
}

func (h *Hub) newLoop(userID string, sup SuppressionRecord) *Loop {
	return NewLoop(LoopConfig{
		UserID:       userID,
		PollInterval: h.cfg.PollInterval,
		Timeout:      h.cfg.Timeout,
		Vibration:    h.cfg.Vibration,
		Surface:      h.cfg.Surface,
		Player:       h.cfg.Player,
		Vibrator:     h.cfg.Vibrator,
		Primer:       h.cfg.Primer,
		Logger:       h.cfg.Logger,
		Metrics:      h.cfg.Metrics,
		Now:          h.cfg.Now,
		Suppression:  sup,
	})
}

// load nunca falla: un error equivale a no tener schedules.
func (h *Hub) load(ctx context.Context, userID string) []reminders.Schedule {
	if h.cfg.Source == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.cfg.LoadTimeout)
	defer cancel()

	list, err := h.cfg.Source.ListByUser(ctx, userID)
	if err != nil {
		h.log.Debug("schedule load failed", map[string]any{"user_id": userID, "err": err})
		return nil
	}
	return list
}

func (h *Hub) loop(userID string) (*Loop, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.loops[userID]
	return l, ok
}

// Enable carga los schedules y después, con mu tomado, crea (si hace falta),
// habilita y arranca el loop. Con el hub detenido no crea nada.
func (h *Hub) Enable(ctx context.Context, userID string) State {
	list := h.load(ctx, userID)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return State{Today: reminders.ActiveToday(list, h.cfg.Now())}
	}
	l, ok := h.loops[userID]
	if !ok {
		l = h.newLoop(userID, h.suppressed[userID])
		delete(h.suppressed, userID)
		h.loops[userID] = l
	}
	l.SetSchedules(list)
	l.Enable(ctx)
	l.Start()
	h.cfg.Metrics.setLoops(len(h.loops))
	h.mu.Unlock()

	return l.Snapshot()
}

// Disable apaga y descarta el loop del usuario. La supresión queda en el hub
// hasta el próximo Enable. Disable del loop no bloquea, Stop se espera afuera.
func (h *Hub) Disable(userID string) {
	h.mu.Lock()
	l, ok := h.loops[userID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.loops, userID)
	l.Disable()
	if sup := l.Suppression(); !sup.IsZero() {
		h.suppressed[userID] = sup
	}
	h.cfg.Metrics.setLoops(len(h.loops))
	h.mu.Unlock()

	l.Stop()
}

func (h *Hub) Dismiss(userID string) bool {
	l, ok := h.loop(userID)
	if !ok {
		return false
	}
	return l.Dismiss()
}

// State devuelve la foto del loop; sin loop, sólo la proyección de hoy.
func (h *Hub) State(ctx context.Context, userID string) State {
	if l, ok := h.loop(userID); ok {
		return l.Snapshot()
	}
	return State{Today: reminders.ActiveToday(h.load(ctx, userID), h.cfg.Now())}
}

// SchedulesChanged implementa reminders.ChangeNotifier.
func (h *Hub) SchedulesChanged(ctx context.Context, userID string) {
	l, ok := h.loop(userID)
	if !ok {
		return
	}
	l.SetSchedules(h.load(context.WithoutCancel(ctx), userID))
}

// Resync recarga los schedules de todos los loops (lo llama el cron).
func (h *Hub) Resync() {
	h.mu.Lock()
	users := make(map[string]*Loop, len(h.loops))
	for id, l := range h.loops {
		users[id] = l
	}
	h.mu.Unlock()

	for id, l := range users {
		l.SetSchedules(h.load(context.Background(), id))
	}
	if len(users) > 0 {
		h.log.Debug("schedules resynced", map[string]any{"loops": len(users)})
	}
}

var _ reminders.ChangeNotifier = (*Hub)(nil)
