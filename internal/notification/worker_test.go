package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/db"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

type sentPush struct {
	payload  string
	endpoint string
}

// mockSender records every push and answers with a configurable status per
// endpoint.
type mockSender struct {
	mu       sync.Mutex
	sent     []sentPush
	statuses map[string]int
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentPush{payload: string(payload), endpoint: sub.Endpoint})

	status := http.StatusCreated
	if s, ok := m.statuses[sub.Endpoint]; ok {
		status = s
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (m *mockSender) all() []sentPush {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentPush, len(m.sent))
	copy(out, m.sent)
	return out
}

func newTestPool(t *testing.T, name string) (*WorkerPool, *mockSender, store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	pool := NewWorkerPool(1, s, &webpush.Options{Subscriber: "mailto:ops@example.com"})
	sender := &mockSender{statuses: map[string]int{}}
	pool.sender = sender
	return pool, sender, s
}

func seedAlert(t *testing.T, s store.Store, id string) {
	t.Helper()
	require.NoError(t, s.InsertAlert(context.Background(), &model.Alert{
		ID:          id,
		CameraID:    "cam-3",
		Kind:        "intrusion",
		Description: "persona en zona restringida",
		OccurredAt:  time.Now().UTC(),
	}))
}

func seedSubscription(t *testing.T, s store.Store, endpoint string) {
	t.Helper()
	require.NoError(t, s.UpsertSubscription(context.Background(), &model.PushSubscription{
		Endpoint: endpoint,
		P256DH:   "p256dh-key",
		Auth:     "auth-secret",
	}))
}

func TestNotifyAlertSendsToEverySubscription(t *testing.T) {
	pool, sender, s := newTestPool(t, "notify_fanout")
	seedAlert(t, s, "al-1")
	seedSubscription(t, s, "https://push.example.com/a")
	seedSubscription(t, s, "https://push.example.com/b")

	pool.notifyAlert(context.Background(), "al-1")

	sent := sender.all()
	require.Len(t, sent, 2)
	for _, p := range sent {
		assert.Equal(t, "Alerta intrusion en cámara cam-3: persona en zona restringida", p.payload)
	}
}

func TestNotifyAlertWithoutSubscriptionsSendsNothing(t *testing.T) {
	pool, sender, s := newTestPool(t, "notify_nosubs")
	seedAlert(t, s, "al-1")

	pool.notifyAlert(context.Background(), "al-1")
	assert.Empty(t, sender.all())
}

func TestNotifyUnknownAlertSendsNothing(t *testing.T) {
	pool, sender, s := newTestPool(t, "notify_noalert")
	seedSubscription(t, s, "https://push.example.com/a")

	pool.notifyAlert(context.Background(), "missing")
	assert.Empty(t, sender.all())
}

func TestExpiredSubscriptionIsRemoved(t *testing.T) {
	pool, sender, s := newTestPool(t, "notify_expired")
	seedAlert(t, s, "al-1")
	seedSubscription(t, s, "https://push.example.com/gone")
	seedSubscription(t, s, "https://push.example.com/alive")
	sender.statuses["https://push.example.com/gone"] = http.StatusGone

	pool.notifyAlert(context.Background(), "al-1")

	subs, err := s.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.com/alive", subs[0].Endpoint)
}

func TestDispatchThroughWorker(t *testing.T) {
	pool, sender, s := newTestPool(t, "notify_worker")
	seedAlert(t, s, "al-1")
	seedSubscription(t, s, "https://push.example.com/a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	pool.Dispatch("al-1")

	deadline := time.After(2 * time.Second)
	for len(sender.all()) == 0 {
		select {
		case <-deadline:
			t.Fatal("notification was never sent")
		case <-time.After(10 * time.Millisecond):
		}
	}
	assert.Len(t, sender.all(), 1)
}
