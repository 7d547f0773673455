package alert

import (
	"context"
	"time"
)

// Surface muestra y oculta la alerta bloqueante. No debe bloquear.
type Surface interface {
	Show(userID string, a AlarmState)
	Hide(userID string, a AlarmState, reason EndReason)
}

// Player reproduce el tono una vez; vuelve al terminar o al cancelarse ctx.
type Player interface {
	Play(ctx context.Context, userID string) error
}

// Vibrator dispara el patrón de vibración. Sin soporte => no-op. No debe bloquear.
type Vibrator interface {
	Vibrate(userID string, pattern []time.Duration)
	CancelVibration(userID string)
}

// Primer prepara el audio tras el gesto de activación (opcional).
type Primer interface {
	Prime(ctx context.Context, userID string) error
}

type nopSurface struct{}

func (nopSurface) Show(string, AlarmState)            {}
func (nopSurface) Hide(string, AlarmState, EndReason) {}

type nopPlayer struct{}

func (nopPlayer) Play(context.Context, string) error { return nil }

type nopVibrator struct{}

func (nopVibrator) Vibrate(string, []time.Duration) {}
func (nopVibrator) CancelVibration(string)          {}

// Surfaces reparte Show/Hide a varias superficies (p.ej. navegador + push).
type Surfaces []Surface

func (s Surfaces) Show(userID string, a AlarmState) {
	for _, x := range s {
		if x != nil {
			x.Show(userID, a)
		}
	}
}

func (s Surfaces) Hide(userID string, a AlarmState, reason EndReason) {
	for _, x := range s {
		if x != nil {
			x.Hide(userID, a, reason)
		}
	}
}
