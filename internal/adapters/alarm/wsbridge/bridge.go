package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"health-directory/internal/alert"
	"health-directory/internal/middleware"
	"health-directory/internal/platform/logger"
)

var ErrNoClients = errors.New("no browser connected for user")

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// Message es lo que viaja por el websocket en ambos sentidos.
type Message struct {
	Type      string            `json:"type"`
	Alarm     *alert.AlarmState `json:"alarm,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	PatternMS []int64           `json:"pattern_ms,omitempty"`
	Asset     string            `json:"asset,omitempty"`
}

const (
	TypeAlarmShow     = "alarm.show"
	TypeAlarmHide     = "alarm.hide"
	TypeVibrate       = "vibrate"
	TypeVibrateCancel = "vibrate.cancel"
	TypeTonePrime     = "tone.prime"
	TypeTonePlay      = "tone.play"
	TypeToneStop      = "tone.stop"
	TypeDismiss       = "dismiss"
)

// Dismisser recibe los "dismiss" que manda el navegador (alert.Hub).
type Dismisser interface {
	Dismiss(userID string) bool
}

type Config struct {
	Asset          string
	ToneDuration   time.Duration
	AllowedOrigins []string
	Logger         logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Bridge es la superficie de alarma del navegador: muestra/oculta, vibra y
// reproduce el tono en los clientes websocket del usuario.
type Bridge struct {
	cfg      Config
	log      logger.Logger
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	clients   map[string]map[*client]struct{}
	dismisser Dismisser

	wg sync.WaitGroup
}

var (
	_ alert.Surface  = (*Bridge)(nil)
	_ alert.Player   = (*Bridge)(nil)
	_ alert.Vibrator = (*Bridge)(nil)
	_ alert.Primer   = (*Bridge)(nil)
)

func New(cfg Config) *Bridge {
	if cfg.ToneDuration <= 0 {
		cfg.ToneDuration = alert.DefaultToneDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	b := &Bridge{
		cfg:     cfg,
		log:     cfg.Logger.With(map[string]any{"component": "wsbridge"}),
		clients: make(map[string]map[*client]struct{}),
	}
	b.upgrader = websocket.Upgrader{CheckOrigin: b.checkOrigin}
	return b
}

func (b *Bridge) checkOrigin(r *http.Request) bool {
	if len(b.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range b.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (b *Bridge) SetDismisser(d Dismisser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismisser = d
}

// Connected cuenta los clientes abiertos del usuario.
func (b *Bridge) Connected(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[userID])
}

// ServeHTTP hace el upgrade; requiere claims (AuthContext acepta ?access_token=).
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	b.register(claims.UserID, c)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.writeLoop(c)
	}()

	b.readLoop(claims.UserID, c)
}

func (b *Bridge) register(userID string, c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		b.clients[userID] = set
	}
	set[c] = struct{}{}
}

func (b *Bridge) unregister(userID string, c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.clients[userID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(b.clients, userID)
	}
	close(c.send)
}

func (b *Bridge) readLoop(userID string, c *client) {
	defer func() {
		b.unregister(userID, c)
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type != TypeDismiss {
			continue
		}

		b.mu.RLock()
		d := b.dismisser
		b.mu.RUnlock()
		if d != nil {
			d.Dismiss(userID)
		}
	}
}

func (b *Bridge) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			_ = c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// broadcast nunca bloquea: si el buffer de un cliente está lleno se descarta.
func (b *Bridge) broadcast(userID string, msg Message) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients[userID] {
		select {
		case c.send <- msg:
			n++
		default:
			b.log.Debug("ws client buffer full, dropping", map[string]any{"user_id": userID, "type": msg.Type})
		}
	}
	return n
}

func (b *Bridge) Show(userID string, a alert.AlarmState) {
	b.broadcast(userID, Message{Type: TypeAlarmShow, Alarm: &a})
}

func (b *Bridge) Hide(userID string, a alert.AlarmState, reason alert.EndReason) {
	b.broadcast(userID, Message{Type: TypeAlarmHide, Alarm: &a, Reason: string(reason)})
}

func (b *Bridge) Vibrate(userID string, pattern []time.Duration) {
	ms := make([]int64, 0, len(pattern))
	for _, d := range pattern {
		ms = append(ms, d.Milliseconds())
	}
	b.broadcast(userID, Message{Type: TypeVibrate, PatternMS: ms})
}

func (b *Bridge) CancelVibration(userID string) {
	b.broadcast(userID, Message{Type: TypeVibrateCancel})
}

func (b *Bridge) Prime(ctx context.Context, userID string) error {
	if b.broadcast(userID, Message{Type: TypeTonePrime, Asset: b.cfg.Asset}) == 0 {
		return ErrNoClients
	}
	return nil
}

// Play pide al navegador una reproducción y espera su duración.
func (b *Bridge) Play(ctx context.Context, userID string) error {
	if b.broadcast(userID, Message{Type: TypeTonePlay, Asset: b.cfg.Asset}) == 0 {
		return ErrNoClients
	}

	t := time.NewTimer(b.cfg.ToneDuration)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		b.broadcast(userID, Message{Type: TypeToneStop})
		return ctx.Err()
	}
}

// Close cierra todas las conexiones y espera a los writers.
func (b *Bridge) Close() {
	b.mu.RLock()
	conns := make([]*websocket.Conn, 0)
	for _, set := range b.clients {
		for c := range set {
			conns = append(conns, c.conn)
		}
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	b.wg.Wait()
}
