package presence

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	return NewStore(15*time.Minute, 2*time.Minute, clock.Now), clock
}

func addOfficer(s *Store, name string) uuid.UUID {
	id := uuid.New()
	s.Upsert(models.Officer{ID: id, Username: name, Role: models.RoleOfficer})
	return id
}

func names(group []models.OfficerPresence) []string {
	out := make([]string, 0, len(group))
	for _, p := range group {
		out = append(out, p.Username)
	}
	return out
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	s, _ := newTestStore(t)
	id := addOfficer(s, "mueller")

	_, err := s.SetStatus(id, "Feierabend")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestSetStatus_UnknownOfficer(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SetStatus(uuid.New(), models.StatusPatrol)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGroupByStatus_AllStatusesPresent(t *testing.T) {
	s, _ := newTestStore(t)
	a := addOfficer(s, "anna")
	b := addOfficer(s, "bernd")

	_, err := s.SetStatus(a, models.StatusPatrol)
	require.NoError(t, err)
	_, err = s.SetStatus(b, models.StatusPatrol)
	require.NoError(t, err)

	groups := s.GroupByStatus()
	assert.Len(t, groups, len(models.OfficerStatuses))
	assert.Equal(t, []string{"anna", "bernd"}, names(groups[models.StatusPatrol]))
	assert.Empty(t, groups[models.StatusBreak])
}

func TestGroupByStatus_NeverSeenOfficerIsExcluded(t *testing.T) {
	s, _ := newTestStore(t)
	addOfficer(s, "neu")

	for _, group := range s.GroupByStatus() {
		assert.Empty(t, group)
	}
	assert.Equal(t, 1, s.Count())
}

// Статус "Streife", 20 минут тишины при TTL 15 минут -> сотрудник пропадает;
// повторная отправка статуса сразу возвращает его
func TestGroupByStatus_TTLScenario(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "schulz")

	_, err := s.SetStatus(id, models.StatusPatrol)
	require.NoError(t, err)
	assert.Equal(t, []string{"schulz"}, names(s.GroupByStatus()[models.StatusPatrol]))

	s.MarkStale(id)
	clock.Advance(20 * time.Minute)
	assert.Empty(t, s.GroupByStatus()[models.StatusPatrol])

	// Запись не удаляется
	officer, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, models.StatusPatrol, officer.Status)

	_, err = s.SetStatus(id, models.StatusPatrol)
	require.NoError(t, err)
	assert.Equal(t, []string{"schulz"}, names(s.GroupByStatus()[models.StatusPatrol]))
}

func TestGroupByStatus_ExactTTLBoundaryIsIncluded(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "grenze")
	_, err := s.SetStatus(id, models.StatusOnDuty)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Len(t, s.GroupByStatus()[models.StatusOnDuty], 1)

	clock.Advance(time.Second)
	assert.Empty(t, s.GroupByStatus()[models.StatusOnDuty])
}

func TestMarkStale_DoesNotHideImmediately(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "app-im-hintergrund")
	s.MarkConnected(id)

	s.MarkStale(id)
	clock.Advance(time.Minute)

	group := s.GroupByStatus()[models.StatusOnDuty]
	require.Len(t, group, 1)
	assert.False(t, group[0].Connected)
	assert.True(t, group[0].IsOnline)
}

func TestTouch_RefreshesVisibility(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "heartbeat")
	require.True(t, s.Touch(id))

	clock.Advance(14 * time.Minute)
	require.True(t, s.Touch(id))
	clock.Advance(14 * time.Minute)

	assert.Len(t, s.GroupByStatus()[models.StatusOnDuty], 1)
	assert.False(t, s.Touch(uuid.New()))
}

func TestOnline_ThresholdAndLogout(t *testing.T) {
	s, clock := newTestStore(t)
	a := addOfficer(s, "anna")
	b := addOfficer(s, "bernd")
	s.Touch(a)
	clock.Advance(90 * time.Second)
	s.Touch(b)

	online := s.Online()
	require.Len(t, online, 2)
	assert.Equal(t, "bernd", online[0].Username)
	assert.Equal(t, 1, online[1].MinutesAgo)

	clock.Advance(time.Minute)
	online = s.Online()
	require.Len(t, online, 1)
	assert.Equal(t, b, online[0].OfficerID)

	_, ok := s.MarkOffline(b)
	require.True(t, ok)
	assert.Empty(t, s.Online())

	p, ok := s.Presence(b)
	require.True(t, ok)
	assert.Equal(t, "Offline", p.OnlineStatus)

	p, ok = s.Presence(a)
	require.True(t, ok)
	assert.Equal(t, "Vor 2 Min.", p.OnlineStatus)
}

func TestUpsert_KeepsNewerPresence(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "alt")
	_, err := s.SetStatus(id, models.StatusDeployed)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	s.Upsert(models.Officer{ID: id, Username: "neu", Department: "Revier 3", Status: models.StatusOnDuty})

	officer, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "neu", officer.Username)
	assert.Equal(t, "Revier 3", officer.Department)
	assert.Equal(t, models.StatusDeployed, officer.Status)
}

func TestSetLocation_UnknownOfficer(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SetLocation(uuid.New(), models.Location{Lat: 52.52, Lng: 13.40})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetLocation_CountsAsActivity(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "weber")
	s.MarkOffline(id)
	clock.Advance(time.Minute)

	fix, err := s.SetLocation(id, models.Location{Lat: 52.52, Lng: 13.40})
	require.NoError(t, err)

	assert.Equal(t, id, fix.OfficerID)
	assert.Equal(t, "weber", fix.Username)
	assert.Equal(t, clock.Now(), fix.RecordedAt)
	p, ok := s.Presence(id)
	require.True(t, ok)
	assert.True(t, p.IsOnline)
	require.NotNil(t, p.Location)
	assert.Equal(t, 13.40, p.Location.Lng)
}

func TestLiveLocations_WindowAndOrder(t *testing.T) {
	s, clock := newTestStore(t)
	old := addOfficer(s, "alt")
	fresh := addOfficer(s, "frisch")
	silent := addOfficer(s, "still")

	_, err := s.SetLocation(old, models.Location{Lat: 52.50, Lng: 13.38})
	require.NoError(t, err)
	clock.Advance(4 * time.Minute)
	_, err = s.SetLocation(fresh, models.Location{Lat: 52.53, Lng: 13.41})
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	live := s.LiveLocations(0)
	require.Len(t, live, 2, "a fix exactly ten minutes old is still live")
	assert.Equal(t, fresh, live[0].OfficerID)
	assert.Equal(t, old, live[1].OfficerID)

	clock.Advance(time.Second)
	live = s.LiveLocations(DefaultLocationWindow)
	require.Len(t, live, 1)
	assert.Equal(t, fresh, live[0].OfficerID)

	for _, l := range live {
		assert.NotEqual(t, silent, l.OfficerID)
	}
}

func TestUpsert_KeepsNewerLocation(t *testing.T) {
	s, clock := newTestStore(t)
	id := addOfficer(s, "weber")
	_, err := s.SetLocation(id, models.Location{Lat: 52.52, Lng: 13.40})
	require.NoError(t, err)

	stale := clock.Now().Add(-time.Hour)
	clock.Advance(time.Minute)
	s.Upsert(models.Officer{ID: id, Username: "weber", Location: &models.Location{Lat: 48.1, Lng: 11.5}, LocatedAt: &stale})

	officer, ok := s.Get(id)
	require.True(t, ok)
	require.NotNil(t, officer.Location)
	assert.Equal(t, 52.52, officer.Location.Lat)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(t)
	ids := make([]uuid.UUID, 20)
	for i := range ids {
		ids[i] = addOfficer(s, "officer")
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			status := models.OfficerStatuses[i%len(models.OfficerStatuses)]
			_, _ = s.SetStatus(id, status)
			s.Touch(id)
			_ = s.GroupByStatus()
		}(i)
	}
	wg.Wait()

	total := 0
	for _, group := range s.GroupByStatus() {
		total += len(group)
	}
	assert.Equal(t, len(ids), total)
}
