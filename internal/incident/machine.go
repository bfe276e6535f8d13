// Package incident owns the incident lifecycle: open -> in_progress -> completed.
//
// Transitions are pure functions over a record; callers are expected to run
// them on a clone while holding the incident's serialization scope, and to
// persist the result before publishing it.
package incident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
)

// Payload - данные нового сообщения о происшествии
type Payload struct {
	Title       string
	Description string
	Priority    models.Priority
	Location    models.Location
	Address     string
}

// New создает инцидент в статусе open без исполнителя
func New(p Payload, reporter models.Actor, now time.Time) (*models.Incident, error) {
	const op = "incident.New"

	title := strings.TrimSpace(p.Title)
	description := strings.TrimSpace(p.Description)
	if title == "" {
		return nil, apperrors.New(apperrors.KindValidation, op, "title must not be empty")
	}
	if description == "" {
		return nil, apperrors.New(apperrors.KindValidation, op, "description must not be empty")
	}
	if !p.Priority.Valid() {
		return nil, apperrors.New(apperrors.KindValidation, op, "unknown priority %q", p.Priority)
	}

	return &models.Incident{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Priority:    p.Priority,
		Status:      models.IncidentOpen,
		Location:    p.Location,
		Address:     strings.TrimSpace(p.Address),
		CreatedBy:   reporter.OfficerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Claim назначает открытый инцидент сотруднику. Побеждает только первый.
func Claim(inc *models.Incident, actor models.Actor, now time.Time) error {
	const op = "incident.Claim"

	if inc.Status != models.IncidentOpen || inc.AssignedTo != nil {
		return apperrors.New(apperrors.KindAlreadyAssigned, op, "incident %s is already assigned", inc.ID)
	}

	officerID := actor.OfficerID
	inc.Status = models.IncidentInProgress
	inc.AssignedTo = &officerID
	inc.AssignedToName = actor.Name
	inc.AssignedAt = &now
	inc.UpdatedAt = now
	return nil
}

// Complete завершает инцидент. Проверка исполнителя выполняется до проверки
// статуса: чужой инцидент всегда дает NotAssignee.
func Complete(inc *models.Incident, actor models.Actor, now time.Time) error {
	const op = "incident.Complete"

	holds := inc.AssignedTo != nil && *inc.AssignedTo == actor.OfficerID
	if !holds && !actor.Can(models.CapCompleteAny) {
		return apperrors.New(apperrors.KindNotAssignee, op, "officer %s does not hold incident %s", actor.OfficerID, inc.ID)
	}
	if inc.Status != models.IncidentInProgress {
		return apperrors.New(apperrors.KindInvalidTransition, op, "cannot complete incident %s in status %s", inc.ID, inc.Status)
	}

	officerID := actor.OfficerID
	inc.Status = models.IncidentCompleted
	inc.CompletedAt = &now
	inc.CompletedBy = &officerID
	inc.UpdatedAt = now
	return nil
}

// CheckInvariant проверяет: исполнитель задан тогда и только тогда,
// когда статус in_progress или completed
func CheckInvariant(inc *models.Incident) error {
	const op = "incident.CheckInvariant"

	switch inc.Status {
	case models.IncidentOpen:
		if inc.AssignedTo != nil {
			return apperrors.New(apperrors.KindInvalidTransition, op, "open incident %s has an assignee", inc.ID)
		}
	case models.IncidentInProgress, models.IncidentCompleted:
		if inc.AssignedTo == nil {
			return apperrors.New(apperrors.KindInvalidTransition, op, "incident %s in status %s has no assignee", inc.ID, inc.Status)
		}
		if inc.Status == models.IncidentCompleted && inc.CompletedAt == nil {
			return apperrors.New(apperrors.KindInvalidTransition, op, "completed incident %s has no completion time", inc.ID)
		}
	default:
		return apperrors.New(apperrors.KindInvalidTransition, op, "incident %s has unknown status %q", inc.ID, inc.Status)
	}
	return nil
}
