package pushover

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gregdel/pushover"

	"health-directory/internal/alert"
	"health-directory/internal/platform/logger"
)

// Sender es lo que usamos de *pushover.Pushover.
type Sender interface {
	SendMessage(msg *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

type Config struct {
	APIToken string
	// UserKey es el destinatario por defecto.
	UserKey string
	// KeyFor permite un destinatario por usuario; "" => UserKey.
	KeyFor func(userID string) string
	Logger logger.Logger
}

// Surface manda una notificación push cuando se dispara una alarma.
// El envío ocurre en una goroutine: Show nunca bloquea el tick.
type Surface struct {
	sender  Sender
	userKey string
	keyFor  func(string) string
	log     logger.Logger
	wg      sync.WaitGroup
}

var _ alert.Surface = (*Surface)(nil)

func New(cfg Config) (*Surface, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("pushover: api token required")
	}
	return NewWithSender(pushover.New(cfg.APIToken), cfg), nil
}

func NewWithSender(s Sender, cfg Config) *Surface {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &Surface{
		sender:  s,
		userKey: strings.TrimSpace(cfg.UserKey),
		keyFor:  cfg.KeyFor,
		log:     cfg.Logger.With(map[string]any{"component": "pushover"}),
	}
}

func (s *Surface) recipient(userID string) string {
	if s.keyFor != nil {
		if k := strings.TrimSpace(s.keyFor(userID)); k != "" {
			return k
		}
	}
	return s.userKey
}

func (s *Surface) Show(userID string, a alert.AlarmState) {
	key := s.recipient(userID)
	if key == "" {
		return
	}

	msg := &pushover.Message{
		Title:     "Medicine reminder",
		Message:   fmt.Sprintf("Time to take %s (%s)", a.Medicine, a.Slot),
		Priority:  pushover.PriorityHigh,
		Sound:     "persistent",
		Timestamp: a.FiredAt.Unix(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.sender.SendMessage(msg, pushover.NewRecipient(key)); err != nil {
			s.log.Debug("pushover send failed", map[string]any{"user_id": userID, "err": err})
		}
	}()
}

// Hide no hace nada: una push no se puede retirar.
func (s *Surface) Hide(string, alert.AlarmState, alert.EndReason) {}

// Wait espera los envíos en curso (apagado y tests).
func (s *Surface) Wait() {
	s.wg.Wait()
}
