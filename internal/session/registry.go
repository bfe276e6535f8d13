// Package session tracks live client connections and their subscriptions.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/broadcast"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

var ErrIdle = errors.New("session: idle timeout")

// Hub - сторона рассыльщика, которой пользуется реестр
type Hub interface {
	Attach(sessionID uuid.UUID, queueSize int) *broadcast.Subscriber
	Subscribe(sessionID uuid.UUID, channel string) error
	Unsubscribe(sessionID uuid.UUID, channel string)
	Detach(sessionID uuid.UUID, reason error)
}

// PresenceTracker получает уведомления о появлении и пропаже сессий сотрудника
type PresenceTracker interface {
	MarkConnected(officerID uuid.UUID)
	MarkStale(officerID uuid.UUID)
	Touch(officerID uuid.UUID) bool
}

// Session - живое подключение клиента
type Session struct {
	ID           uuid.UUID `json:"session_id"`
	OfficerID    uuid.UUID `json:"officer_id"`
	Channels     []string  `json:"channels"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

type record struct {
	session  Session
	channels map[string]struct{}
}

// Registry - реестр сессий
type Registry struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*record
	byOfficer map[uuid.UUID]map[uuid.UUID]struct{}

	hub         Hub
	presence    PresenceTracker
	queueSize   int
	idleTimeout time.Duration
	now         func() time.Time
	logger      *logrus.Logger
}

type Options struct {
	QueueSize   int
	IdleTimeout time.Duration
	Now         func() time.Time
}

func NewRegistry(hub Hub, presence PresenceTracker, logger *logrus.Logger, opts Options) *Registry {
	if opts.QueueSize < 1 {
		opts.QueueSize = broadcast.DefaultQueueSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		sessions:    make(map[uuid.UUID]*record),
		byOfficer:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
		hub:         hub,
		presence:    presence,
		queueSize:   opts.QueueSize,
		idleTimeout: opts.IdleTimeout,
		now:         opts.Now,
		logger:      logger,
	}
}

// Register открывает сессию и подписывает ее на системные каналы
func (r *Registry) Register(officerID uuid.UUID) (Session, *broadcast.Subscriber, error) {
	id := uuid.New()
	now := r.now()
	sub := r.hub.Attach(id, r.queueSize)

	rec := &record{
		session: Session{
			ID:           id,
			OfficerID:    officerID,
			ConnectedAt:  now,
			LastActiveAt: now,
		},
		channels: make(map[string]struct{}),
	}

	r.mu.Lock()
	r.sessions[id] = rec
	if r.byOfficer[officerID] == nil {
		r.byOfficer[officerID] = make(map[uuid.UUID]struct{})
	}
	r.byOfficer[officerID][id] = struct{}{}
	r.mu.Unlock()

	for _, channel := range []string{models.ChannelIncidents, models.ChannelPresence} {
		if err := r.Subscribe(id, channel); err != nil {
			r.Unregister(id)
			return Session{}, nil, err
		}
	}
	r.presence.MarkConnected(officerID)

	r.logger.WithFields(logrus.Fields{
		"service":    "SessionRegistry",
		"method":     "Register",
		"session_id": id,
		"officer_id": officerID,
	}).Info("Session registered")

	return r.snapshot(id), sub, nil
}

// Subscribe добавляет канал к сессии
func (r *Registry) Subscribe(sessionID uuid.UUID, channel string) error {
	r.mu.Lock()
	rec, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "session.Subscribe", "session %s is not registered", sessionID)
	}

	if err := r.hub.Subscribe(sessionID, channel); err != nil {
		return err
	}

	r.mu.Lock()
	rec.channels[channel] = struct{}{}
	rec.session.LastActiveAt = r.now()
	r.mu.Unlock()
	return nil
}

func (r *Registry) Unsubscribe(sessionID uuid.UUID, channel string) {
	r.hub.Unsubscribe(sessionID, channel)

	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.sessions[sessionID]; ok {
		delete(rec.channels, channel)
		rec.session.LastActiveAt = r.now()
	}
}

// Touch отмечает активность сессии и ее сотрудника
func (r *Registry) Touch(sessionID uuid.UUID) {
	r.mu.Lock()
	rec, ok := r.sessions[sessionID]
	if ok {
		rec.session.LastActiveAt = r.now()
	}
	r.mu.Unlock()

	if ok {
		r.presence.Touch(rec.session.OfficerID)
	}
}

// Unregister закрывает сессию. Если у сотрудника не осталось других сессий,
// присутствие помечается устаревшим; офлайн наступает по TTL.
func (r *Registry) Unregister(sessionID uuid.UUID) {
	r.unregister(sessionID, nil)
}

// HandleEviction - обработчик отключений рассыльщика
func (r *Registry) HandleEviction(sessionID uuid.UUID, reason error) {
	r.unregister(sessionID, reason)
}

func (r *Registry) unregister(sessionID uuid.UUID, reason error) {
	r.mu.Lock()
	rec, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, sessionID)
	officerID := rec.session.OfficerID
	siblings := r.byOfficer[officerID]
	delete(siblings, sessionID)
	last := len(siblings) == 0
	if last {
		delete(r.byOfficer, officerID)
	}
	r.mu.Unlock()

	r.hub.Detach(sessionID, reason)
	if last {
		r.presence.MarkStale(officerID)
	}

	log := r.logger.WithFields(logrus.Fields{
		"service":    "SessionRegistry",
		"method":     "Unregister",
		"session_id": sessionID,
		"officer_id": officerID,
	})
	if reason != nil {
		log.WithError(reason).Warn("Session closed")
		return
	}
	log.Info("Session closed")
}

// Run периодически закрывает сессии без активности дольше idleTimeout
func (r *Registry) Run(ctx context.Context) error {
	if r.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := r.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.logger.WithField("evicted", n).Info("Idle sessions closed")
			}
		}
	}
}

// EvictIdle закрывает простаивающие сессии и возвращает их число
func (r *Registry) EvictIdle() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	var idle []uuid.UUID
	for id, rec := range r.sessions {
		if now.Sub(rec.session.LastActiveAt) > r.idleTimeout {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	for _, id := range idle {
		r.unregister(id, ErrIdle)
	}
	return len(idle)
}

// Count возвращает число открытых сессий
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SessionsOf возвращает открытые сессии сотрудника
func (r *Registry) SessionsOf(officerID uuid.UUID) []Session {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.byOfficer[officerID]))
	for id := range r.byOfficer[officerID] {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	out := make([]Session, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.lookup(id); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectedAt.Before(out[j].ConnectedAt) })
	return out
}

func (r *Registry) snapshot(id uuid.UUID) Session {
	s, _ := r.lookup(id)
	return s
}

func (r *Registry) lookup(id uuid.UUID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	s := rec.session
	s.Channels = make([]string, 0, len(rec.channels))
	for c := range rec.channels {
		s.Channels = append(s.Channels, c)
	}
	sort.Strings(s.Channels)
	return s, true
}
