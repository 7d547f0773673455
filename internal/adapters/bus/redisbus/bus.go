// Package redisbus reparte los cambios de schedules entre instancias
// usando pub/sub de Redis, para que el loop de alertas de un usuario se
// recargue aunque la edición haya llegado a otra réplica.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"health-directory/internal/domain/reminders"
	"health-directory/internal/platform/logger"
)

const DefaultChannel = "healthdir:reminders:changed"

type changeMessage struct {
	UserID string `json:"user_id"`
	Origin string `json:"origin"`
}

type Config struct {
	Channel string
	// Local recibe los cambios (propios y remotos); normalmente el alert.Hub.
	Local  reminders.ChangeNotifier
	Logger logger.Logger
}

// Bus implementa reminders.ChangeNotifier.
type Bus struct {
	rdb     *redis.Client
	channel string
	origin  string
	local   reminders.ChangeNotifier
	log     logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ reminders.ChangeNotifier = (*Bus)(nil)

// Dial abre el cliente desde una URL redis:// y hace ping.
func Dial(ctx context.Context, redisURL string, cfg Config) (*Bus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(rdb, cfg), nil
}

func New(rdb *redis.Client, cfg Config) *Bus {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		cfg.Channel = DefaultChannel
	}
	return &Bus{
		rdb:     rdb,
		channel: cfg.Channel,
		origin:  uuid.NewString(),
		local:   cfg.Local,
		log:     cfg.Logger.With(map[string]any{"component": "redisbus"}),
	}
}

// SchedulesChanged avisa al loop local de inmediato y publica para el resto.
// Si Redis falla sólo se pierde el aviso remoto.
func (b *Bus) SchedulesChanged(ctx context.Context, userID string) {
	if b.local != nil {
		b.local.SchedulesChanged(ctx, userID)
	}

	data, err := json.Marshal(changeMessage{UserID: userID, Origin: b.origin})
	if err != nil {
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		b.log.Warn("publish schedules change failed", map[string]any{"user_id": userID, "err": err})
	}
}

// Start se suscribe al canal y reenvía los cambios remotos a Local.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return nil
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	// Esperar la confirmación para no perder mensajes publicados justo después.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.handle(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

func (b *Bus) handle(ctx context.Context, payload string) {
	var m changeMessage
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		b.log.Debug("bad change message", map[string]any{"err": err})
		return
	}
	if m.Origin == b.origin || strings.TrimSpace(m.UserID) == "" {
		return
	}
	if b.local != nil {
		b.local.SchedulesChanged(ctx, m.UserID)
	}
}

// Close corta la suscripción y cierra el cliente.
func (b *Bus) Close() error {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
	return b.rdb.Close()
}
