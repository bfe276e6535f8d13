package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

// OfficerStatus - рабочий статус сотрудника, выставляется им самим
type OfficerStatus string

const (
	StatusOnDuty      OfficerStatus = "Im Dienst"
	StatusBreak       OfficerStatus = "Pause"
	StatusDeployed    OfficerStatus = "Einsatz"
	StatusPatrol      OfficerStatus = "Streife"
	StatusUnavailable OfficerStatus = "Nicht verfügbar"
)

// OfficerStatuses перечисляет допустимые статусы в порядке отображения
var OfficerStatuses = []OfficerStatus{
	StatusOnDuty,
	StatusBreak,
	StatusDeployed,
	StatusPatrol,
	StatusUnavailable,
}

func (s OfficerStatus) Valid() bool {
	for _, v := range OfficerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Officer struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	Role        Role          `json:"role"`
	Status      OfficerStatus `json:"status"`
	BadgeNumber string        `json:"badge_number,omitempty"`
	Department  string        `json:"department,omitempty"`
	Rank        string        `json:"rank,omitempty"`
	LastSeenAt  time.Time     `json:"last_seen_at"`
	// Последняя присланная сотрудником позиция
	Location  *Location  `json:"location,omitempty"`
	LocatedAt *time.Time `json:"located_at,omitempty"`
}

// OfficerPresence - проекция сотрудника для группировки по статусу
type OfficerPresence struct {
	Officer
	Connected    bool   `json:"connected"`
	IsOnline     bool   `json:"is_online"`
	OnlineStatus string `json:"online_status"`
}

// OnlineOfficer - элемент списка сотрудников онлайн
type OnlineOfficer struct {
	OfficerID  uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen"`
	MinutesAgo int       `json:"minutes_ago"`
}

// OfficerLocation - последняя позиция сотрудника для карты
type OfficerLocation struct {
	OfficerID  uuid.UUID     `json:"user_id"`
	Username   string        `json:"username"`
	Status     OfficerStatus `json:"status"`
	Location   Location      `json:"location"`
	RecordedAt time.Time     `json:"timestamp"`
}

// ProfileUpdate - изменение идентификационных полей, доступное только администратору
type ProfileUpdate struct {
	BadgeNumber *string
	Department  *string
	Rank        *string
}

// Capability - право, которое дает роль
type Capability uint8

const (
	CapCompleteAny Capability = 1 << iota
	CapEditProfiles
	CapViewStats
	CapListOfficers
)

// CapabilitiesFor возвращает набор прав для роли
func CapabilitiesFor(role Role) Capability {
	if role == RoleAdmin {
		return CapCompleteAny | CapEditProfiles | CapViewStats | CapListOfficers
	}
	return 0
}

// Actor - аутентифицированный инициатор команды
type Actor struct {
	OfficerID    uuid.UUID
	Name         string
	Role         Role
	Capabilities Capability
}

// NewActor строит Actor с правами, вытекающими из роли
func NewActor(id uuid.UUID, name string, role Role) Actor {
	return Actor{OfficerID: id, Name: name, Role: role, Capabilities: CapabilitiesFor(role)}
}

func (a Actor) Can(c Capability) bool {
	return a.Capabilities&c == c
}
