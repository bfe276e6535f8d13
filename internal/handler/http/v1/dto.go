package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/models"
)

// ErrorResponse DTO для ответа с ошибкой
// @Description DTO для ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// LocationDTO координаты места
type LocationDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// CreateIncidentRequest DTO для сообщения о происшествии
// @Description DTO для сообщения о происшествии
type CreateIncidentRequest struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"required,max=4000"`
	Priority    string      `json:"priority" validate:"required,oneof=low medium high"`
	Location    LocationDTO `json:"location"`
	Address     string      `json:"address,omitempty" validate:"max=500"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Priority       string      `json:"priority"`
	Status         string      `json:"status"`
	Location       LocationDTO `json:"location"`
	Address        string      `json:"address,omitempty"`
	CreatedBy      uuid.UUID   `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	AssignedTo     *uuid.UUID  `json:"assigned_to,omitempty"`
	AssignedToName string      `json:"assigned_to_name,omitempty"`
	AssignedAt     *time.Time  `json:"assigned_at,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	CompletedBy    *uuid.UUID  `json:"completed_by,omitempty"`
}

// NearbyIncidentResponse DTO инцидента рядом с точкой
// @Description DTO инцидента рядом с точкой
type NearbyIncidentResponse struct {
	Incident       *IncidentResponse `json:"incident"`
	DistanceMeters float64           `json:"distance_meters"`
}

// SetStatusRequest DTO для смены статуса
// @Description DTO для смены статуса
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OfficerResponse DTO сотрудника с признаками присутствия
// @Description DTO сотрудника с признаками присутствия
type OfficerResponse struct {
	ID           uuid.UUID    `json:"id"`
	Username     string       `json:"username"`
	Role         string       `json:"role"`
	Status       string       `json:"status"`
	BadgeNumber  string       `json:"badge_number,omitempty"`
	Department   string       `json:"department,omitempty"`
	Rank         string       `json:"rank,omitempty"`
	LastSeenAt   time.Time    `json:"last_seen_at"`
	Location     *LocationDTO `json:"location,omitempty"`
	LocatedAt    *time.Time   `json:"located_at,omitempty"`
	Connected    bool         `json:"connected"`
	IsOnline     bool         `json:"is_online"`
	OnlineStatus string       `json:"online_status,omitempty"`
}

// UpdateLocationRequest DTO с позицией сотрудника
// @Description DTO с позицией сотрудника
type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// OfficerLocationResponse DTO последней позиции сотрудника
// @Description DTO последней позиции сотрудника
type OfficerLocationResponse struct {
	OfficerID  uuid.UUID   `json:"user_id"`
	Username   string      `json:"username"`
	Status     string      `json:"status"`
	Location   LocationDTO `json:"location"`
	RecordedAt time.Time   `json:"timestamp"`
}

// UpdateProfileRequest DTO для изменения профиля администратором
// @Description DTO для изменения профиля администратором
type UpdateProfileRequest struct {
	BadgeNumber *string `json:"badge_number,omitempty" validate:"omitempty,max=50"`
	Department  *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Rank        *string `json:"rank,omitempty" validate:"omitempty,max=50"`
}

// PostMessageRequest DTO для отправки сообщения
// @Description DTO для отправки сообщения
type PostMessageRequest struct {
	Channel string `json:"channel,omitempty" validate:"max=64"`
	Body    string `json:"body" validate:"required,max=4000"`
}

// HealthResponse DTO для health-check
// @Description DTO для health-check
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse = models.IncidentStats
