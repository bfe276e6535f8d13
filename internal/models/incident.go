package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Priority - приоритет инцидента
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// IncidentStatus - состояние жизненного цикла инцидента
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "open"
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentCompleted  IncidentStatus = "completed"
)

// Location - координаты места происшествия
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point возвращает координаты в порядке orb (lng, lat)
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

type Incident struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Priority       Priority       `json:"priority"`
	Status         IncidentStatus `json:"status"`
	Location       Location       `json:"location"`
	Address        string         `json:"address"`
	CreatedBy      uuid.UUID      `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	AssignedTo     *uuid.UUID     `json:"assigned_to,omitempty"`
	AssignedToName string         `json:"assigned_to_name,omitempty"`
	AssignedAt     *time.Time     `json:"assigned_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CompletedBy    *uuid.UUID     `json:"completed_by,omitempty"`
}

// Clone возвращает глубокую копию, чтобы переход состояния не менял исходную запись
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	c := *i
	if i.AssignedTo != nil {
		v := *i.AssignedTo
		c.AssignedTo = &v
	}
	if i.AssignedAt != nil {
		v := *i.AssignedAt
		c.AssignedAt = &v
	}
	if i.CompletedAt != nil {
		v := *i.CompletedAt
		c.CompletedAt = &v
	}
	if i.CompletedBy != nil {
		v := *i.CompletedBy
		c.CompletedBy = &v
	}
	return &c
}

// NearbyIncident - инцидент с расстоянием до точки запроса
type NearbyIncident struct {
	Incident       *Incident `json:"incident"`
	DistanceMeters float64   `json:"distance_meters"`
}

// IncidentStats - агрегированные счетчики для панели администратора
type IncidentStats struct {
	Officers       int `json:"total_officers"`
	Incidents      int `json:"total_incidents"`
	OpenIncidents  int `json:"open_incidents"`
	Messages       int `json:"total_messages"`
	ActiveSessions int `json:"active_sessions"`
}
