package broadcast

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroadcaster() *Broadcaster {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return New(logger)
}

func message(channel string, n int) models.Event {
	return models.Event{
		Channel:    channel,
		Type:       models.EventMessagePosted,
		OccurredAt: time.Now(),
		Payload:    fmt.Sprintf("msg-%d", n),
	}
}

func drain(sub *Subscriber) []models.Event {
	var out []models.Event
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPublish_SameOrderForAllSubscribers(t *testing.T) {
	b := newTestBroadcaster()
	subs := make([]*Subscriber, 3)
	for i := range subs {
		id := uuid.New()
		subs[i] = b.Attach(id, 1000)
		require.NoError(t, b.Subscribe(id, "general"))
	}

	// Конкурентные издатели: порядок между ними не задан, но у всех подписчиков он одинаков
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				b.Publish(message("general", p*100+i))
			}
		}(p)
	}
	wg.Wait()

	first := drain(subs[0])
	require.Len(t, first, 200)
	for i, ev := range first {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}
	for _, sub := range subs[1:] {
		assert.Equal(t, first, drain(sub))
	}
}

func TestPublish_NoCrossChannelDelivery(t *testing.T) {
	b := newTestBroadcaster()
	a, c := uuid.New(), uuid.New()
	subA := b.Attach(a, 10)
	subC := b.Attach(c, 10)
	require.NoError(t, b.Subscribe(a, "alpha"))
	require.NoError(t, b.Subscribe(c, "charlie"))

	b.Publish(message("alpha", 1))
	b.Publish(message("alpha", 2))
	ev := b.Publish(message("charlie", 1))

	alpha := drain(subA)
	require.Len(t, alpha, 2)
	assert.Equal(t, uint64(2), alpha[1].Seq)
	got := drain(subC)
	require.Len(t, got, 1)
	assert.Equal(t, "charlie", got[0].Channel)
	assert.Equal(t, uint64(1), ev.Seq)
}

func TestPublish_BackpressureDisconnect(t *testing.T) {
	b := newTestBroadcaster()

	var (
		mu      sync.Mutex
		evicted []uuid.UUID
		reasons []error
	)
	b.SetEvictionHook(func(id uuid.UUID, err error) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, id)
		reasons = append(reasons, err)
	})

	const bound = 4
	slowID, fastID := uuid.New(), uuid.New()
	slow := b.Attach(slowID, bound)
	fast := b.Attach(fastID, 100)
	require.NoError(t, b.Subscribe(slowID, models.ChannelIncidents))
	require.NoError(t, b.Subscribe(fastID, models.ChannelIncidents))

	for i := 0; i < bound; i++ {
		b.Publish(message(models.ChannelIncidents, i))
	}
	select {
	case <-slow.Done():
		t.Fatal("subscriber disconnected before the queue overflowed")
	default:
	}

	b.Publish(message(models.ChannelIncidents, bound))

	<-slow.Done()
	assert.ErrorIs(t, slow.Err(), apperrors.ErrBackpressureDisconnect)
	assert.Len(t, drain(slow), bound)
	assert.Equal(t, []uuid.UUID{slowID}, evicted)
	assert.ErrorIs(t, reasons[0], apperrors.ErrBackpressureDisconnect)

	// Остальные подписчики не затронуты
	assert.Len(t, drain(fast), bound+1)
	assert.ErrorIs(t, b.Subscribe(slowID, models.ChannelIncidents), apperrors.ErrNotFound)
	b.Publish(message(models.ChannelIncidents, bound+1))
	assert.Len(t, drain(fast), 1)
}

func TestDetach_ClosesQueue(t *testing.T) {
	b := newTestBroadcaster()
	id := uuid.New()
	sub := b.Attach(id, 2)
	require.NoError(t, b.Subscribe(id, "general"))

	b.Detach(id, nil)
	b.Detach(id, nil)

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.NoError(t, sub.Err())
	assert.ErrorIs(t, b.Subscribe(id, "general"), apperrors.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	b := newTestBroadcaster()
	id := uuid.New()
	sub := b.Attach(id, 10)
	require.NoError(t, b.Subscribe(id, "general"))
	require.NoError(t, b.Subscribe(id, "general"))

	b.Unsubscribe(id, "general")
	b.Publish(message("general", 1))

	assert.Empty(t, drain(sub))
	assert.NoError(t, sub.Err())
}

func TestAttach_ReplacesExistingSubscriber(t *testing.T) {
	b := newTestBroadcaster()
	id := uuid.New()
	old := b.Attach(id, 1)
	require.NoError(t, b.Subscribe(id, "general"))

	fresh := b.Attach(id, 1)

	<-old.Done()
	require.NoError(t, b.Subscribe(id, "general"))
	b.Publish(message("general", 1))
	assert.Len(t, drain(fresh), 1)
}
