// Package exectone reproduce el tono de alarma con un comando local
// (p.ej. "paplay /usr/share/sounds/alarm.oga"). Pensado para kioscos o
// despliegues de un solo usuario.
package exectone

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"health-directory/internal/alert"
)

var ErrNoCommand = errors.New("exectone: command required")

type Player struct {
	name string
	args []string
}

var _ alert.Player = (*Player)(nil)

// New parte el comando por espacios; el primer campo es el ejecutable.
func New(command string) (*Player, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, fmt.Errorf("exectone: %w", err)
	}
	return &Player{name: fields[0], args: fields[1:]}, nil
}

// Play corre el comando una vez. Cancelar ctx mata el proceso.
func (p *Player) Play(ctx context.Context, _ string) error {
	cmd := exec.CommandContext(ctx, p.name, p.args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("exectone: %w", err)
	}
	return nil
}
