package wsbridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-directory/internal/alert"
	"health-directory/internal/middleware"
)

type dismissRecorder struct {
	mu    sync.Mutex
	users []string
	done  chan struct{}
}

func (d *dismissRecorder) Dismiss(userID string) bool {
	d.mu.Lock()
	d.users = append(d.users, userID)
	d.mu.Unlock()
	d.done <- struct{}{}
	return true
}

func dial(t *testing.T, b *Bridge, userID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(middleware.AuthContext(nil)(b))
	t.Cleanup(srv.Close)

	h := http.Header{}
	h.Set("X-Debug-User-ID", userID)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return b.Connected(userID) == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestBridge_PushesAlarmLifecycle(t *testing.T) {
	b := New(Config{Asset: "/sounds/alarm.mp3", ToneDuration: 20 * time.Millisecond})
	defer b.Close()
	conn := dial(t, b, "u1")

	a := alert.AlarmState{Medicine: "Paracetamol", Slot: "09:00"}
	b.Show("u1", a)
	b.Vibrate("u1", alert.DefaultVibration)
	require.NoError(t, b.Play(context.Background(), "u1"))
	b.CancelVibration("u1")
	b.Hide("u1", a, alert.ReasonDismissed)

	m := read(t, conn)
	assert.Equal(t, TypeAlarmShow, m.Type)
	assert.Equal(t, "Paracetamol", m.Alarm.Medicine)

	m = read(t, conn)
	assert.Equal(t, TypeVibrate, m.Type)
	assert.Equal(t, []int64{500, 200, 500, 200, 500, 200, 500, 200, 500, 200}, m.PatternMS)

	m = read(t, conn)
	assert.Equal(t, TypeTonePlay, m.Type)
	assert.Equal(t, "/sounds/alarm.mp3", m.Asset)

	assert.Equal(t, TypeVibrateCancel, read(t, conn).Type)

	m = read(t, conn)
	assert.Equal(t, TypeAlarmHide, m.Type)
	assert.Equal(t, "dismissed", m.Reason)
}

func TestBridge_DismissFromBrowser(t *testing.T) {
	b := New(Config{})
	defer b.Close()
	d := &dismissRecorder{done: make(chan struct{}, 1)}
	b.SetDismisser(d)

	conn := dial(t, b, "u1")
	require.NoError(t, conn.WriteJSON(Message{Type: TypeDismiss}))

	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatal("dismiss never reached the hub")
	}
	assert.Equal(t, []string{"u1"}, d.users)
}

func TestBridge_PlayWithoutClientsFails(t *testing.T) {
	b := New(Config{})
	assert.ErrorIs(t, b.Play(context.Background(), "ghost"), ErrNoClients)
	assert.ErrorIs(t, b.Prime(context.Background(), "ghost"), ErrNoClients)
}

func TestBridge_PlayStopsOnCancel(t *testing.T) {
	b := New(Config{ToneDuration: time.Hour})
	defer b.Close()
	conn := dial(t, b, "u1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Play(ctx, "u1") }()

	assert.Equal(t, TypeTonePlay, read(t, conn).Type)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, TypeToneStop, read(t, conn).Type)
}

func TestBridge_RequiresClaims(t *testing.T) {
	b := New(Config{})
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
