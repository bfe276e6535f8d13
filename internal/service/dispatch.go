package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/shenikar/field_dispatch/internal/incident"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/presence"
	"github.com/shenikar/field_dispatch/internal/scope"
	"github.com/shenikar/field_dispatch/internal/webhook"
	"github.com/sirupsen/logrus"
)

const (
	maxChannelNameLength = 64
	maxMessageLength     = 4000
	maxNearbyRadius      = 50000.0
)

// DispatchService определяет контракт координационного шлюза:
// все команды клиентов и запросы на ресинхронизацию
type DispatchService interface {
	LoadPresence(ctx context.Context) error

	ReportIncident(ctx context.Context, actor models.Actor, payload incident.Payload) (*models.Incident, error)
	ClaimIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
	CompleteIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	ListNearbyIncidents(ctx context.Context, center models.Location, radiusMeters float64) ([]models.NearbyIncident, error)

	SetOfficerStatus(ctx context.Context, actor models.Actor, status models.OfficerStatus) (models.OfficerPresence, error)
	Heartbeat(ctx context.Context, actor models.Actor) (models.OfficerPresence, error)
	Logout(ctx context.Context, actor models.Actor) error
	ListOfficersByStatus(ctx context.Context) (map[models.OfficerStatus][]models.OfficerPresence, error)
	ListOnlineOfficers(ctx context.Context) ([]models.OnlineOfficer, error)
	ListOfficers(ctx context.Context, actor models.Actor) ([]models.OfficerPresence, error)
	UpdateOfficerProfile(ctx context.Context, actor models.Actor, officerID uuid.UUID, update models.ProfileUpdate) (*models.Officer, error)
	UpdateLocation(ctx context.Context, actor models.Actor, location models.Location) (models.OfficerLocation, error)
	ListLiveLocations(ctx context.Context) ([]models.OfficerLocation, error)

	PostMessage(ctx context.Context, actor models.Actor, channel, body string) (*models.Message, error)
	ListMessages(ctx context.Context, channel string, limit int) ([]*models.Message, error)

	GetStats(ctx context.Context, actor models.Actor) (models.IncidentStats, error)
}

// Deps - зависимости шлюза
type Deps struct {
	Incidents IncidentRepository
	Officers  OfficerRepository
	Messages  MessageRepository
	Presence  *presence.Store
	Events    EventPublisher
	Sessions  SessionCounter
	Webhooks  webhook.WebhookPublisher
	Logger    *logrus.Logger
	Config    *config.Config
	Now       func() time.Time
}

type dispatchService struct {
	incidents IncidentRepository
	officers  OfficerRepository
	messages  MessageRepository
	presence  *presence.Store
	events    EventPublisher
	sessions  SessionCounter
	webhooks  webhook.WebhookPublisher
	scopes    *scope.Keyed
	logger    *logrus.Logger
	cfg       *config.Config
	now       func() time.Time
}

func NewDispatchService(d Deps) DispatchService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &dispatchService{
		incidents: d.Incidents,
		officers:  d.Officers,
		messages:  d.Messages,
		presence:  d.Presence,
		events:    d.Events,
		sessions:  d.Sessions,
		webhooks:  d.Webhooks,
		scopes:    scope.NewKeyed(),
		logger:    d.Logger,
		cfg:       d.Config,
		now:       now,
	}
}

func incidentKey(id uuid.UUID) string { return "incident:" + id.String() }
func officerKey(id uuid.UUID) string  { return "officer:" + id.String() }
func channelKey(name string) string   { return "channel:" + name }

// withScope выполняет fn под ключом сущности. Ожидание ключа и сама операция
// ограничены OperationTimeout. Отмена запроса клиентом не прерывает уже
// начатую запись: fn получает контекст без отмены, но с тем же дедлайном.
func (s *dispatchService) withScope(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	release, err := s.scopes.Acquire(waitCtx, key)
	if err != nil {
		// Отмена запроса клиентом - не таймаут сервера
		if errors.Is(err, context.Canceled) {
			return apperrors.Wrap(apperrors.KindCanceled, op, fmt.Errorf("waiting for %s: %w", key, err))
		}
		return apperrors.Wrap(apperrors.KindTimeout, op, fmt.Errorf("waiting for %s: %w", key, err))
	}
	defer release()

	deadline, _ := waitCtx.Deadline()
	runCtx, runCancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer runCancel()

	return fn(runCtx)
}

// storageError классифицирует ошибку хранилища
func storageError(ctx context.Context, op string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind == apperrors.KindNotFound {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return apperrors.Wrap(apperrors.KindCanceled, op, err)
	}
	return apperrors.Wrap(apperrors.KindPersistenceFailure, op, err)
}

func (s *dispatchService) log(method string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"service": "dispatch",
		"method":  method,
	})
}

// logOutcome пишет отказ по бизнес-правилу как Warn, инфраструктурный сбой как Error
func logOutcome(log *logrus.Entry, err error, msg string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindPersistenceFailure, apperrors.KindTimeout, apperrors.KindUnknown:
		log.WithError(err).Error(msg)
	default:
		log.WithError(err).Warn(msg)
	}
}

// LoadPresence заполняет хранилище присутствия сотрудниками из бд
func (s *dispatchService) LoadPresence(ctx context.Context) error {
	officers, err := s.officers.ListOfficers(ctx)
	if err != nil {
		return fmt.Errorf("service: could not load officers: %w", err)
	}
	s.presence.Load(officers)
	s.log("LoadPresence").WithField("count", len(officers)).Info("Presence store seeded")
	return nil
}

// ReportIncident создает инцидент в статусе open
func (s *dispatchService) ReportIncident(ctx context.Context, actor models.Actor, payload incident.Payload) (*models.Incident, error) {
	const op = "service.ReportIncident"
	log := s.log("ReportIncident").WithField("officer_id", actor.OfficerID)
	log.Info("Attempting to report a new incident")

	inc, err := incident.New(payload, actor, s.now())
	if err != nil {
		logOutcome(log, err, "Incident rejected")
		return nil, err
	}
	log = log.WithField("incident_id", inc.ID)

	err = s.withScope(ctx, op, incidentKey(inc.ID), func(ctx context.Context) error {
		if err := s.incidents.CreateIncident(ctx, inc); err != nil {
			return storageError(ctx, op, err)
		}
		s.publishIncident(models.EventIncidentCreated, inc)
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to report incident")
		return nil, fmt.Errorf("service: could not report incident: %w", err)
	}

	s.presence.Touch(actor.OfficerID)
	s.notifyWebhook(ctx, models.EventIncidentCreated, inc, actor)
	log.Info("Incident reported successfully")
	return inc.Clone(), nil
}

// ClaimIncident назначает инцидент инициатору; из конкурентных попыток
// успешна только первая
func (s *dispatchService) ClaimIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	const op = "service.ClaimIncident"
	log := s.log("ClaimIncident").WithFields(logrus.Fields{"incident_id": id, "officer_id": actor.OfficerID})
	log.Info("Attempting to claim incident")

	actor = s.withName(actor)
	next, err := s.transition(ctx, op, id, func(inc *models.Incident) error {
		return incident.Claim(inc, actor, s.now())
	}, models.EventIncidentAssigned)
	if err != nil {
		logOutcome(log, err, "Failed to claim incident")
		return nil, fmt.Errorf("service: could not claim incident: %w", err)
	}

	s.presence.Touch(actor.OfficerID)
	s.notifyWebhook(ctx, models.EventIncidentAssigned, next, actor)
	log.Info("Incident claimed successfully")
	return next, nil
}

// CompleteIncident завершает инцидент исполнителем или администратором
func (s *dispatchService) CompleteIncident(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	const op = "service.CompleteIncident"
	log := s.log("CompleteIncident").WithFields(logrus.Fields{"incident_id": id, "officer_id": actor.OfficerID})
	log.Info("Attempting to complete incident")

	next, err := s.transition(ctx, op, id, func(inc *models.Incident) error {
		return incident.Complete(inc, actor, s.now())
	}, models.EventIncidentCompleted)
	if err != nil {
		logOutcome(log, err, "Failed to complete incident")
		return nil, fmt.Errorf("service: could not complete incident: %w", err)
	}

	s.presence.Touch(actor.OfficerID)
	s.notifyWebhook(ctx, models.EventIncidentCompleted, next, actor)
	log.Info("Incident completed successfully")
	return next, nil
}

// transition: чтение -> переход на копии -> запись -> событие, все под ключом инцидента
func (s *dispatchService) transition(ctx context.Context, op string, id uuid.UUID, apply func(*models.Incident) error, evType models.EventType) (*models.Incident, error) {
	var result *models.Incident
	err := s.withScope(ctx, op, incidentKey(id), func(ctx context.Context) error {
		current, err := s.incidents.GetIncident(ctx, id)
		if err != nil {
			return storageError(ctx, op, err)
		}

		next := current.Clone()
		if err := apply(next); err != nil {
			return err
		}
		if err := s.incidents.UpdateIncident(ctx, next); err != nil {
			return storageError(ctx, op, err)
		}
		s.refreshIncidentCache(ctx, next)

		s.publishIncident(evType, next)
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result.Clone(), nil
}

// refreshIncidentCache кладет в кеш зафиксированную запись. Вызывается под
// ключом инцидента; если запись не удалась, ключ удаляется.
func (s *dispatchService) refreshIncidentCache(ctx context.Context, inc *models.Incident) {
	log := s.log("refreshIncidentCache").WithField("incident_id", inc.ID)
	err := s.incidents.SetIncidentCache(ctx, inc)
	if err == nil {
		return
	}
	log.WithError(err).Warn("Failed to cache incident")
	if err := s.incidents.InvalidateIncidentCache(ctx, inc.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

func (s *dispatchService) publishIncident(evType models.EventType, inc *models.Incident) {
	s.events.Publish(models.Event{
		Channel:    models.ChannelIncidents,
		Type:       evType,
		OccurredAt: inc.UpdatedAt,
		Payload:    inc.Clone(),
	})
}

func (s *dispatchService) publishPresence(p models.OfficerPresence) {
	s.events.Publish(models.Event{
		Channel:    models.ChannelPresence,
		Type:       models.EventPresenceChanged,
		OccurredAt: s.now(),
		Payload:    p,
	})
}

// notifyWebhook ставит событие в очередь вебхуков; ошибка только логируется
func (s *dispatchService) notifyWebhook(ctx context.Context, evType models.EventType, inc *models.Incident, actor models.Actor) {
	if s.webhooks == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WebhookTimeout)
	defer cancel()

	event := webhook.WebhookEvent{
		Type:       string(evType),
		IncidentID: inc.ID,
		ActorID:    actor.OfficerID,
		Incident:   inc.Clone(),
		Timestamp:  s.now(),
	}
	if err := s.webhooks.Publish(ctx, event); err != nil {
		s.log("notifyWebhook").WithError(err).WithField("incident_id", inc.ID).Warn("Failed to enqueue webhook event")
	}
}

// withName подставляет имя из хранилища присутствия, если токен его не содержит
func (s *dispatchService) withName(actor models.Actor) models.Actor {
	if actor.Name != "" {
		return actor
	}
	if o, ok := s.presence.Get(actor.OfficerID); ok {
		actor.Name = o.Username
	}
	return actor
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *dispatchService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	const op = "service.GetIncident"
	log := s.log("GetIncident").WithField("incident_id", id)

	cached, err := s.incidents.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		return cached, nil
	}

	// Промах кеша заполняется под ключом инцидента, иначе запись, прочитанная
	// до параллельного перехода, могла бы затереть в кеше новую
	var inc *models.Incident
	err = s.withScope(ctx, op, incidentKey(id), func(ctx context.Context) error {
		stored, err := s.incidents.GetIncident(ctx, id)
		if err != nil {
			return storageError(ctx, op, err)
		}
		if err := s.incidents.SetIncidentCache(ctx, stored); err != nil {
			log.WithError(err).Warn("Failed to cache incident")
		}
		inc = stored
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to get incident")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return inc, nil
}

// ListIncidents возвращает полный список для ресинхронизации клиента
func (s *dispatchService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	incidents, err := s.incidents.ListIncidents(ctx)
	if err != nil {
		err = storageError(ctx, "service.ListIncidents", err)
		s.log("ListIncidents").WithError(err).Error("Failed to list incidents")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// ListNearbyIncidents возвращает открытые инциденты в радиусе от точки, ближние первыми
func (s *dispatchService) ListNearbyIncidents(ctx context.Context, center models.Location, radiusMeters float64) ([]models.NearbyIncident, error) {
	const op = "service.ListNearbyIncidents"
	if center.Lat < -90 || center.Lat > 90 || center.Lng < -180 || center.Lng > 180 {
		return nil, apperrors.New(apperrors.KindValidation, op, "coordinates out of range")
	}
	if radiusMeters <= 0 || radiusMeters > maxNearbyRadius {
		return nil, apperrors.New(apperrors.KindValidation, op, "radius must be in (0, %.0f] meters", maxNearbyRadius)
	}

	incidents, err := s.ListIncidents(ctx)
	if err != nil {
		return nil, err
	}

	point := center.Point()
	nearby := make([]models.NearbyIncident, 0)
	for _, inc := range incidents {
		if inc.Status != models.IncidentOpen {
			continue
		}
		d := geo.Distance(point, inc.Location.Point())
		if d <= radiusMeters {
			nearby = append(nearby, models.NearbyIncident{Incident: inc, DistanceMeters: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceMeters < nearby[j].DistanceMeters })

	s.log("ListNearbyIncidents").WithFields(logrus.Fields{
		"radius_m": radiusMeters,
		"count":    len(nearby),
	}).Info("Nearby incidents listed")
	return nearby, nil
}

// ensureOfficer возвращает запись сотрудника, создавая ее при первом обращении.
// Вызывается под ключом сотрудника.
func (s *dispatchService) ensureOfficer(ctx context.Context, op string, actor models.Actor) (models.Officer, error) {
	if o, ok := s.presence.Get(actor.OfficerID); ok {
		return o, nil
	}

	stored, err := s.officers.GetOfficer(ctx, actor.OfficerID)
	if err == nil {
		s.presence.Upsert(*stored)
		o, _ := s.presence.Get(actor.OfficerID)
		return o, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return models.Officer{}, storageError(ctx, op, err)
	}

	role := actor.Role
	if role == "" {
		role = models.RoleOfficer
	}
	username := actor.Name
	if username == "" {
		username = actor.OfficerID.String()
	}
	officer := models.Officer{
		ID:       actor.OfficerID,
		Username: username,
		Role:     role,
		Status:   models.StatusOnDuty,
	}
	if err := s.officers.CreateOfficer(ctx, &officer); err != nil {
		return models.Officer{}, storageError(ctx, op, err)
	}
	s.presence.Upsert(officer)
	return officer, nil
}

// SetOfficerStatus выставляет рабочий статус инициатора
func (s *dispatchService) SetOfficerStatus(ctx context.Context, actor models.Actor, status models.OfficerStatus) (models.OfficerPresence, error) {
	const op = "service.SetOfficerStatus"
	log := s.log("SetOfficerStatus").WithFields(logrus.Fields{"officer_id": actor.OfficerID, "status": status})
	log.Info("Attempting to set officer status")

	if err := presence.ValidateStatus(status); err != nil {
		log.WithError(err).Warn("Status rejected")
		return models.OfficerPresence{}, err
	}

	var result models.OfficerPresence
	err := s.withScope(ctx, op, officerKey(actor.OfficerID), func(ctx context.Context) error {
		if _, err := s.ensureOfficer(ctx, op, actor); err != nil {
			return err
		}
		if err := s.officers.UpdateOfficerPresence(ctx, actor.OfficerID, status, s.now()); err != nil {
			return storageError(ctx, op, err)
		}
		if _, err := s.presence.SetStatus(actor.OfficerID, status); err != nil {
			return err
		}
		result, _ = s.presence.Presence(actor.OfficerID)
		s.publishPresence(result)
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to set officer status")
		return models.OfficerPresence{}, fmt.Errorf("service: could not set officer status: %w", err)
	}

	log.Info("Officer status updated successfully")
	return result, nil
}

// Heartbeat отмечает активность инициатора. Событие рассылается только
// если сотрудник вернулся в онлайн.
func (s *dispatchService) Heartbeat(ctx context.Context, actor models.Actor) (models.OfficerPresence, error) {
	const op = "service.Heartbeat"
	log := s.log("Heartbeat").WithField("officer_id", actor.OfficerID)

	var result models.OfficerPresence
	err := s.withScope(ctx, op, officerKey(actor.OfficerID), func(ctx context.Context) error {
		officer, err := s.ensureOfficer(ctx, op, actor)
		if err != nil {
			return err
		}
		before, _ := s.presence.Presence(actor.OfficerID)

		if err := s.officers.UpdateOfficerPresence(ctx, actor.OfficerID, officer.Status, s.now()); err != nil {
			return storageError(ctx, op, err)
		}
		s.presence.Touch(actor.OfficerID)

		result, _ = s.presence.Presence(actor.OfficerID)
		if !before.IsOnline {
			s.publishPresence(result)
		}
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to record heartbeat")
		return models.OfficerPresence{}, fmt.Errorf("service: could not record heartbeat: %w", err)
	}

	log.Debug("Heartbeat recorded")
	return result, nil
}

// Logout снимает сотрудника из списка онлайн; группировка по статусу
// по-прежнему подчиняется TTL
func (s *dispatchService) Logout(ctx context.Context, actor models.Actor) error {
	const op = "service.Logout"
	log := s.log("Logout").WithField("officer_id", actor.OfficerID)

	err := s.withScope(ctx, op, officerKey(actor.OfficerID), func(ctx context.Context) error {
		if _, ok := s.presence.MarkOffline(actor.OfficerID); !ok {
			return apperrors.New(apperrors.KindNotFound, op, "officer %s is unknown", actor.OfficerID)
		}
		p, _ := s.presence.Presence(actor.OfficerID)
		s.publishPresence(p)
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to log out")
		return fmt.Errorf("service: could not log out: %w", err)
	}

	log.Info("Officer logged out")
	return nil
}

// ListOfficersByStatus возвращает активных сотрудников по статусам
func (s *dispatchService) ListOfficersByStatus(_ context.Context) (map[models.OfficerStatus][]models.OfficerPresence, error) {
	return s.presence.GroupByStatus(), nil
}

// ListOnlineOfficers возвращает сотрудников, активных в пределах порога онлайна
func (s *dispatchService) ListOnlineOfficers(_ context.Context) ([]models.OnlineOfficer, error) {
	return s.presence.Online(), nil
}

// ListOfficers возвращает всех сотрудников из хранилища с признаками присутствия; только администратор
func (s *dispatchService) ListOfficers(ctx context.Context, actor models.Actor) ([]models.OfficerPresence, error) {
	const op = "service.ListOfficers"
	if !actor.Can(models.CapListOfficers) {
		return nil, apperrors.New(apperrors.KindForbidden, op, "officer %s may not list officers", actor.OfficerID)
	}

	officers, err := s.officers.ListOfficers(ctx)
	if err != nil {
		err = storageError(ctx, op, err)
		s.log("ListOfficers").WithError(err).Error("Failed to list officers")
		return nil, fmt.Errorf("service: could not list officers: %w", err)
	}

	out := make([]models.OfficerPresence, 0, len(officers))
	for _, o := range officers {
		if p, ok := s.presence.Presence(o.ID); ok {
			out = append(out, p)
			continue
		}
		out = append(out, models.OfficerPresence{Officer: *o, OnlineStatus: "Offline"})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// UpdateLocation сохраняет позицию инициатора и рассылает ее в канал присутствия
func (s *dispatchService) UpdateLocation(ctx context.Context, actor models.Actor, loc models.Location) (models.OfficerLocation, error) {
	const op = "service.UpdateLocation"
	log := s.log("UpdateLocation").WithField("officer_id", actor.OfficerID)

	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		err := apperrors.New(apperrors.KindValidation, op, "coordinates out of range")
		log.WithError(err).Warn("Location rejected")
		return models.OfficerLocation{}, err
	}

	var fix models.OfficerLocation
	err := s.withScope(ctx, op, officerKey(actor.OfficerID), func(ctx context.Context) error {
		if _, err := s.ensureOfficer(ctx, op, actor); err != nil {
			return err
		}
		if err := s.officers.UpdateOfficerLocation(ctx, actor.OfficerID, loc, s.now()); err != nil {
			return storageError(ctx, op, err)
		}
		stored, err := s.presence.SetLocation(actor.OfficerID, loc)
		if err != nil {
			return err
		}
		fix = stored
		s.events.Publish(models.Event{
			Channel:    models.ChannelPresence,
			Type:       models.EventLocationUpdated,
			OccurredAt: fix.RecordedAt,
			Payload:    fix,
		})
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to update location")
		return models.OfficerLocation{}, fmt.Errorf("service: could not update location: %w", err)
	}

	log.Debug("Location updated")
	return fix, nil
}

// ListLiveLocations возвращает последние позиции сотрудников в окне LocationWindow
func (s *dispatchService) ListLiveLocations(_ context.Context) ([]models.OfficerLocation, error) {
	return s.presence.LiveLocations(s.cfg.LocationWindow), nil
}

// UpdateOfficerProfile меняет идентификационные поля сотрудника; только администратор
func (s *dispatchService) UpdateOfficerProfile(ctx context.Context, actor models.Actor, officerID uuid.UUID, update models.ProfileUpdate) (*models.Officer, error) {
	const op = "service.UpdateOfficerProfile"
	log := s.log("UpdateOfficerProfile").WithFields(logrus.Fields{"officer_id": officerID, "actor_id": actor.OfficerID})
	log.Info("Attempting to update officer profile")

	if !actor.Can(models.CapEditProfiles) {
		err := apperrors.New(apperrors.KindForbidden, op, "officer %s may not edit profiles", actor.OfficerID)
		log.WithError(err).Warn("Profile update rejected")
		return nil, err
	}

	var result *models.Officer
	err := s.withScope(ctx, op, officerKey(officerID), func(ctx context.Context) error {
		stored, err := s.officers.GetOfficer(ctx, officerID)
		if err != nil {
			return storageError(ctx, op, err)
		}

		next := *stored
		if update.BadgeNumber != nil {
			next.BadgeNumber = strings.TrimSpace(*update.BadgeNumber)
		}
		if update.Department != nil {
			next.Department = strings.TrimSpace(*update.Department)
		}
		if update.Rank != nil {
			next.Rank = strings.TrimSpace(*update.Rank)
		}

		if err := s.officers.UpdateOfficerProfile(ctx, &next); err != nil {
			return storageError(ctx, op, err)
		}
		s.presence.Upsert(next)
		if p, ok := s.presence.Presence(officerID); ok {
			s.publishPresence(p)
		}
		result = &next
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to update officer profile")
		return nil, fmt.Errorf("service: could not update officer profile: %w", err)
	}

	log.Info("Officer profile updated successfully")
	return result, nil
}

// normalizeChannel подставляет канал по умолчанию и отклоняет системные каналы
func normalizeChannel(op, channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return models.DefaultChannel, nil
	}
	if len(channel) > maxChannelNameLength {
		return "", apperrors.New(apperrors.KindValidation, op, "channel name is too long")
	}
	if channel == models.ChannelIncidents || channel == models.ChannelPresence {
		return "", apperrors.New(apperrors.KindValidation, op, "channel %q is reserved", channel)
	}
	return channel, nil
}

// PostMessage сохраняет сообщение и рассылает его подписчикам канала.
// Порядок сообщений в канале задается порядком захвата ключа канала.
func (s *dispatchService) PostMessage(ctx context.Context, actor models.Actor, channel, body string) (*models.Message, error) {
	const op = "service.PostMessage"
	log := s.log("PostMessage").WithFields(logrus.Fields{"officer_id": actor.OfficerID, "channel": channel})

	channel, err := normalizeChannel(op, channel)
	if err != nil {
		log.WithError(err).Warn("Message rejected")
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxMessageLength {
		err := apperrors.New(apperrors.KindValidation, op, "message body must be 1..%d characters", maxMessageLength)
		log.WithError(err).Warn("Message rejected")
		return nil, err
	}

	actor = s.withName(actor)
	var msg *models.Message
	err = s.withScope(ctx, op, channelKey(channel), func(ctx context.Context) error {
		m := &models.Message{
			Channel:    channel,
			AuthorID:   actor.OfficerID,
			AuthorName: actor.Name,
			Body:       body,
			CreatedAt:  s.now(),
		}
		if err := s.messages.CreateMessage(ctx, m); err != nil {
			return storageError(ctx, op, err)
		}
		s.events.Publish(models.Event{
			Channel:    channel,
			Type:       models.EventMessagePosted,
			OccurredAt: m.CreatedAt,
			Payload:    *m,
		})
		msg = m
		return nil
	})
	if err != nil {
		logOutcome(log, err, "Failed to post message")
		return nil, fmt.Errorf("service: could not post message: %w", err)
	}

	s.presence.Touch(actor.OfficerID)
	log.WithField("message_id", msg.ID).Info("Message posted successfully")
	return msg, nil
}

// ListMessages возвращает последние сообщения канала в порядке возрастания ID
func (s *dispatchService) ListMessages(ctx context.Context, channel string, limit int) ([]*models.Message, error) {
	const op = "service.ListMessages"
	channel, err := normalizeChannel(op, channel)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.MessageHistoryLimit {
		limit = s.cfg.MessageHistoryLimit
	}

	messages, err := s.messages.ListMessages(ctx, channel, limit)
	if err != nil {
		err = storageError(ctx, op, err)
		s.log("ListMessages").WithError(err).Error("Failed to list messages")
		return nil, fmt.Errorf("service: could not list messages: %w", err)
	}
	return messages, nil
}

// GetStats возвращает счетчики для панели администратора
func (s *dispatchService) GetStats(ctx context.Context, actor models.Actor) (models.IncidentStats, error) {
	const op = "service.GetStats"
	if !actor.Can(models.CapViewStats) {
		return models.IncidentStats{}, apperrors.New(apperrors.KindForbidden, op, "officer %s may not view statistics", actor.OfficerID)
	}

	total, open, err := s.incidents.CountIncidents(ctx)
	if err != nil {
		return models.IncidentStats{}, fmt.Errorf("service: could not count incidents: %w", storageError(ctx, op, err))
	}
	messages, err := s.messages.CountMessages(ctx)
	if err != nil {
		return models.IncidentStats{}, fmt.Errorf("service: could not count messages: %w", storageError(ctx, op, err))
	}

	stats := models.IncidentStats{
		Officers:      s.presence.Count(),
		Incidents:     total,
		OpenIncidents: open,
		Messages:      messages,
	}
	if s.sessions != nil {
		stats.ActiveSessions = s.sessions.Count()
	}
	return stats, nil
}
