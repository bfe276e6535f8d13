// Package broadcast fans committed events out to subscribed sessions.
//
// Each subscriber owns a bounded queue. Publish stamps the channel sequence
// and enqueues under one lock, so every subscriber of a channel observes the
// same order. A subscriber whose queue is full is disconnected instead of
// slowing the publisher down.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const DefaultQueueSize = 256

// EvictionHook вызывается после снятия блокировки для каждого отключенного подписчика
type EvictionHook func(sessionID uuid.UUID, err error)

// Subscriber - очередь событий одной сессии
type Subscriber struct {
	id       uuid.UUID
	events   chan models.Event
	done     chan struct{}
	channels map[string]struct{}
	err      error
	closed   bool
}

func (s *Subscriber) ID() uuid.UUID { return s.id }

// Events возвращает канал событий; закрывается при отключении
func (s *Subscriber) Events() <-chan models.Event { return s.events }

// Done закрывается при отключении подписчика
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Err возвращает причину отключения; nil при штатном закрытии.
// Значение определено после закрытия Done.
func (s *Subscriber) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Broadcaster - рассыльщик событий по каналам
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]*Subscriber
	channels    map[string]map[uuid.UUID]*Subscriber
	seq         map[string]uint64
	onEvict     EvictionHook
	logger      *logrus.Logger
}

func New(logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uuid.UUID]*Subscriber),
		channels:    make(map[string]map[uuid.UUID]*Subscriber),
		seq:         make(map[string]uint64),
		logger:      logger,
	}
}

// SetEvictionHook задает обработчик отключений по переполнению очереди
func (b *Broadcaster) SetEvictionHook(hook EvictionHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEvict = hook
}

// Attach регистрирует подписчика с очередью заданного размера
func (b *Broadcaster) Attach(sessionID uuid.UUID, queueSize int) *Subscriber {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	sub := &Subscriber{
		id:       sessionID,
		events:   make(chan models.Event, queueSize),
		done:     make(chan struct{}),
		channels: make(map[string]struct{}),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.subscribers[sessionID]; ok {
		b.detachLocked(old, nil)
	}
	b.subscribers[sessionID] = sub
	return sub
}

// Subscribe подписывает сессию на канал. Повторная подписка ничего не меняет.
func (b *Broadcaster) Subscribe(sessionID uuid.UUID, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[sessionID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "broadcast.Subscribe", "session %s is not attached", sessionID)
	}
	members, ok := b.channels[channel]
	if !ok {
		members = make(map[uuid.UUID]*Subscriber)
		b.channels[channel] = members
	}
	members[sessionID] = sub
	sub.channels[channel] = struct{}{}
	return nil
}

func (b *Broadcaster) Unsubscribe(sessionID uuid.UUID, channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[sessionID]
	if !ok {
		return
	}
	delete(sub.channels, channel)
	b.removeMemberLocked(channel, sessionID)
}

// Detach снимает все подписки и закрывает очередь
func (b *Broadcaster) Detach(sessionID uuid.UUID, reason error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[sessionID]; ok {
		b.detachLocked(sub, reason)
	}
}

// Publish присваивает событию номер в канале и кладет его в очередь каждого
// подписчика канала. Не блокируется.
func (b *Broadcaster) Publish(ev models.Event) models.Event {
	var evicted []*Subscriber

	b.mu.Lock()
	b.seq[ev.Channel]++
	ev.Seq = b.seq[ev.Channel]
	for _, sub := range b.channels[ev.Channel] {
		select {
		case sub.events <- ev:
		default:
			b.detachLocked(sub, apperrors.ErrBackpressureDisconnect)
			evicted = append(evicted, sub)
		}
	}
	hook := b.onEvict
	b.mu.Unlock()

	for _, sub := range evicted {
		b.logger.WithFields(logrus.Fields{
			"service":    "Broadcaster",
			"method":     "Publish",
			"session_id": sub.id,
			"channel":    ev.Channel,
		}).Warn("Subscriber queue is full, disconnecting")
		if hook != nil {
			hook(sub.id, apperrors.ErrBackpressureDisconnect)
		}
	}
	return ev
}

func (b *Broadcaster) detachLocked(sub *Subscriber, reason error) {
	if sub.closed {
		return
	}
	for channel := range sub.channels {
		b.removeMemberLocked(channel, sub.id)
	}
	if b.subscribers[sub.id] == sub {
		delete(b.subscribers, sub.id)
	}
	sub.closed = true
	sub.err = reason
	close(sub.events)
	close(sub.done)
}

func (b *Broadcaster) removeMemberLocked(channel string, sessionID uuid.UUID) {
	members, ok := b.channels[channel]
	if !ok {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(b.channels, channel)
	}
}
