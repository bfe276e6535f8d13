package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service"
)

var (
	_ service.IncidentRepository = (*MemoryStore)(nil)
	_ service.OfficerRepository  = (*MemoryStore)(nil)
	_ service.MessageRepository  = (*MemoryStore)(nil)
)

// MemoryStore - хранилище в памяти для STORAGE_DRIVER=memory и тестов.
// Записи возвращаются копиями, чтобы вызывающий код не мог изменить состояние в обход Update.
type MemoryStore struct {
	mu        sync.RWMutex
	incidents map[uuid.UUID]*models.Incident
	officers  map[uuid.UUID]*models.Officer
	messages  []*models.Message
	nextMsgID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		incidents: make(map[uuid.UUID]*models.Incident),
		officers:  make(map[uuid.UUID]*models.Officer),
	}
}

func (m *MemoryStore) CreateIncident(ctx context.Context, inc *models.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.incidents[inc.ID] = inc.Clone()
	return nil
}

func (m *MemoryStore) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	inc, ok := m.incidents[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "repository.GetIncident", "incident with id %s not found", id)
	}
	return inc.Clone(), nil
}

func (m *MemoryStore) UpdateIncident(ctx context.Context, inc *models.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.incidents[inc.ID]; !ok {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateIncident", "incident with id %s not found for update", inc.ID)
	}
	m.incidents[inc.ID] = inc.Clone()
	return nil
}

func (m *MemoryStore) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Incident, 0, len(m.incidents))
	for _, inc := range m.incidents {
		out = append(out, inc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryStore) CountIncidents(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	open := 0
	for _, inc := range m.incidents {
		if inc.Status == models.IncidentOpen {
			open++
		}
	}
	return len(m.incidents), open, nil
}

// Кеш не нужен: чтение из памяти и так дешевое
func (m *MemoryStore) GetIncidentFromCache(context.Context, uuid.UUID) (*models.Incident, error) {
	return nil, nil
}

func (m *MemoryStore) SetIncidentCache(context.Context, *models.Incident) error { return nil }

func (m *MemoryStore) InvalidateIncidentCache(context.Context, uuid.UUID) error { return nil }

func (m *MemoryStore) CreateOfficer(ctx context.Context, o *models.Officer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.officers[o.ID]; ok {
		return nil
	}
	c := *o
	m.officers[o.ID] = &c
	return nil
}

func (m *MemoryStore) GetOfficer(ctx context.Context, id uuid.UUID) (*models.Officer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.officers[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "repository.GetOfficer", "officer with id %s not found", id)
	}
	c := *o
	return &c, nil
}

func (m *MemoryStore) ListOfficers(ctx context.Context) ([]*models.Officer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Officer, 0, len(m.officers))
	for _, o := range m.officers {
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemoryStore) UpdateOfficerPresence(ctx context.Context, id uuid.UUID, status models.OfficerStatus, lastSeenAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.officers[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerPresence", "officer with id %s not found", id)
	}
	o.Status = status
	o.LastSeenAt = lastSeenAt
	return nil
}

func (m *MemoryStore) UpdateOfficerLocation(ctx context.Context, id uuid.UUID, loc models.Location, recordedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.officers[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerLocation", "officer with id %s not found", id)
	}
	o.Location = &loc
	o.LocatedAt = &recordedAt
	o.LastSeenAt = recordedAt
	return nil
}

func (m *MemoryStore) UpdateOfficerProfile(ctx context.Context, o *models.Officer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.officers[o.ID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerProfile", "officer with id %s not found", o.ID)
	}
	stored.BadgeNumber = o.BadgeNumber
	stored.Department = o.Department
	stored.Rank = o.Rank
	return nil
}

func (m *MemoryStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMsgID++
	msg.ID = m.nextMsgID
	c := *msg
	m.messages = append(m.messages, &c)
	return nil
}

func (m *MemoryStore) ListMessages(ctx context.Context, channel string, limit int) ([]*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		return []*models.Message{}, nil
	}
	// Сообщения хранятся в порядке выдачи ID; идем с конца
	out := make([]*models.Message, 0, limit)
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if m.messages[i].Channel == channel {
			c := *m.messages[i]
			out = append(out, &c)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *MemoryStore) CountMessages(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}
