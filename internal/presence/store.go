// Package presence keeps officers' self-reported status and last activity.
//
// Groupings are recomputed from the records on every read. An officer whose
// last activity is older than the TTL drops out of the active groupings but
// keeps its record; the next status update or heartbeat brings it back.
package presence

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
)

const (
	DefaultTTL             = 15 * time.Minute
	DefaultOnlineThreshold = 2 * time.Minute
	DefaultLocationWindow  = 10 * time.Minute
)

type entry struct {
	officer   models.Officer
	connected bool
	loggedOut bool
}

// Store - хранилище присутствия сотрудников под одной общей блокировкой
type Store struct {
	mu              sync.RWMutex
	officers        map[uuid.UUID]*entry
	ttl             time.Duration
	onlineThreshold time.Duration
	now             func() time.Time
}

// NewStore создает хранилище; now == nil означает time.Now
func NewStore(ttl, onlineThreshold time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if onlineThreshold <= 0 {
		onlineThreshold = DefaultOnlineThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		officers:        make(map[uuid.UUID]*entry),
		ttl:             ttl,
		onlineThreshold: onlineThreshold,
		now:             now,
	}
}

// ValidateStatus проверяет, что статус входит в перечень допустимых
func ValidateStatus(status models.OfficerStatus) error {
	if !status.Valid() {
		return apperrors.New(apperrors.KindInvalidStatus, "presence.ValidateStatus", "unknown status %q", status)
	}
	return nil
}

// Load заполняет хранилище записями из постоянного хранилища
func (s *Store) Load(officers []*models.Officer) {
	for _, o := range officers {
		s.Upsert(*o)
	}
}

// Upsert обновляет идентификационные поля. Статус и время активности
// берутся из более свежей из двух записей.
func (s *Store) Upsert(o models.Officer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.Status == "" {
		o.Status = models.StatusOnDuty
	}
	e, ok := s.officers[o.ID]
	if !ok {
		s.officers[o.ID] = &entry{officer: o}
		return
	}
	if e.officer.LastSeenAt.After(o.LastSeenAt) {
		o.Status = e.officer.Status
		o.LastSeenAt = e.officer.LastSeenAt
	}
	if newerFix(e.officer.LocatedAt, o.LocatedAt) {
		o.Location, o.LocatedAt = e.officer.Location, e.officer.LocatedAt
	}
	e.officer = o
}

func newerFix(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	return b == nil || a.After(*b)
}

func (s *Store) Get(id uuid.UUID) (models.Officer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.officers[id]
	if !ok {
		return models.Officer{}, false
	}
	return e.officer, true
}

// SetStatus выставляет статус и обновляет lastSeenAt
func (s *Store) SetStatus(id uuid.UUID, status models.OfficerStatus) (models.Officer, error) {
	if err := ValidateStatus(status); err != nil {
		return models.Officer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.officers[id]
	if !ok {
		return models.Officer{}, apperrors.New(apperrors.KindNotFound, "presence.SetStatus", "officer %s is unknown", id)
	}
	e.officer.Status = status
	e.officer.LastSeenAt = s.now()
	e.loggedOut = false
	return e.officer, nil
}

// Touch отмечает активность сотрудника (heartbeat или любая команда)
func (s *Store) Touch(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.officers[id]
	if !ok {
		return false
	}
	e.officer.LastSeenAt = s.now()
	e.loggedOut = false
	return true
}

// SetLocation запоминает позицию сотрудника. Присланная позиция считается активностью.
func (s *Store) SetLocation(id uuid.UUID, loc models.Location) (models.OfficerLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.officers[id]
	if !ok {
		return models.OfficerLocation{}, apperrors.New(apperrors.KindNotFound, "presence.SetLocation", "officer %s is unknown", id)
	}
	now := s.now()
	e.officer.Location = &loc
	e.officer.LocatedAt = &now
	e.officer.LastSeenAt = now
	e.loggedOut = false
	return locationOf(e), nil
}

// LiveLocations возвращает последние позиции, присланные не раньше window назад,
// свежие первыми
func (s *Store) LiveLocations(window time.Duration) []models.OfficerLocation {
	if window <= 0 {
		window = DefaultLocationWindow
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	live := make([]models.OfficerLocation, 0)
	for _, e := range s.officers {
		if e.officer.Location == nil || e.officer.LocatedAt == nil {
			continue
		}
		if now.Sub(*e.officer.LocatedAt) > window {
			continue
		}
		live = append(live, locationOf(e))
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].RecordedAt.After(live[j].RecordedAt)
	})
	return live
}

func locationOf(e *entry) models.OfficerLocation {
	return models.OfficerLocation{
		OfficerID:  e.officer.ID,
		Username:   e.officer.Username,
		Status:     e.officer.Status,
		Location:   *e.officer.Location,
		RecordedAt: *e.officer.LocatedAt,
	}
}

// MarkConnected отмечает, что у сотрудника есть живая сессия
func (s *Store) MarkConnected(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.officers[id]; ok {
		e.connected = true
		e.officer.LastSeenAt = s.now()
		e.loggedOut = false
	}
}

// MarkStale снимает признак живой сессии. lastSeenAt не меняется:
// видимость затухает только по TTL.
func (s *Store) MarkStale(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.officers[id]; ok {
		e.connected = false
	}
}

// MarkOffline - явный выход из системы
func (s *Store) MarkOffline(id uuid.UUID) (models.Officer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.officers[id]
	if !ok {
		return models.Officer{}, false
	}
	e.connected = false
	e.loggedOut = true
	return e.officer, true
}

// Presence возвращает проекцию одного сотрудника
func (s *Store) Presence(id uuid.UUID) (models.OfficerPresence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.officers[id]
	if !ok {
		return models.OfficerPresence{}, false
	}
	return s.project(e, s.now()), true
}

// GroupByStatus возвращает активных сотрудников по статусам.
// Все пять статусов присутствуют в результате, даже пустые.
func (s *Store) GroupByStatus() map[models.OfficerStatus][]models.OfficerPresence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	groups := make(map[models.OfficerStatus][]models.OfficerPresence, len(models.OfficerStatuses))
	for _, status := range models.OfficerStatuses {
		groups[status] = []models.OfficerPresence{}
	}
	for _, e := range s.officers {
		if !s.active(e, now) {
			continue
		}
		groups[e.officer.Status] = append(groups[e.officer.Status], s.project(e, now))
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Username != group[j].Username {
				return group[i].Username < group[j].Username
			}
			return group[i].ID.String() < group[j].ID.String()
		})
	}
	return groups
}

// Online возвращает сотрудников, активных в пределах порога онлайна
func (s *Store) Online() []models.OnlineOfficer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	online := make([]models.OnlineOfficer, 0)
	for _, e := range s.officers {
		if !s.online(e, now) {
			continue
		}
		online = append(online, models.OnlineOfficer{
			OfficerID:  e.officer.ID,
			Username:   e.officer.Username,
			LastSeenAt: e.officer.LastSeenAt,
			MinutesAgo: int(now.Sub(e.officer.LastSeenAt).Minutes()),
		})
	}
	sort.Slice(online, func(i, j int) bool {
		return online[i].LastSeenAt.After(online[j].LastSeenAt)
	})
	return online
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.officers)
}

func (s *Store) active(e *entry, now time.Time) bool {
	if e.officer.LastSeenAt.IsZero() {
		return false
	}
	return now.Sub(e.officer.LastSeenAt) <= s.ttl
}

func (s *Store) online(e *entry, now time.Time) bool {
	if e.loggedOut || e.officer.LastSeenAt.IsZero() {
		return false
	}
	return now.Sub(e.officer.LastSeenAt) <= s.onlineThreshold
}

func (s *Store) project(e *entry, now time.Time) models.OfficerPresence {
	p := models.OfficerPresence{Officer: e.officer, Connected: e.connected}
	switch {
	case s.online(e, now):
		p.IsOnline = true
		p.OnlineStatus = "Online"
	case e.loggedOut || e.officer.LastSeenAt.IsZero():
		p.OnlineStatus = "Offline"
	default:
		p.OnlineStatus = fmt.Sprintf("Vor %d Min.", int(now.Sub(e.officer.LastSeenAt).Minutes()))
	}
	return p
}
