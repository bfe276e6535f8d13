package v1

import (
	"github.com/shenikar/field_dispatch/internal/incident"
	"github.com/shenikar/field_dispatch/internal/models"
)

// DTOToIncidentPayload преобразует DTO создания в данные для конечного автомата
func DTOToIncidentPayload(dto CreateIncidentRequest) incident.Payload {
	return incident.Payload{
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    models.Priority(dto.Priority),
		Location:    models.Location{Lat: dto.Location.Lat, Lng: dto.Location.Lng},
		Address:     dto.Address,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		Priority:       string(model.Priority),
		Status:         string(model.Status),
		Location:       LocationDTO{Lat: model.Location.Lat, Lng: model.Location.Lng},
		Address:        model.Address,
		CreatedBy:      model.CreatedBy,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		AssignedTo:     model.AssignedTo,
		AssignedToName: model.AssignedToName,
		AssignedAt:     model.AssignedAt,
		CompletedAt:    model.CompletedAt,
		CompletedBy:    model.CompletedBy,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func NearbyToResponses(nearby []models.NearbyIncident) []NearbyIncidentResponse {
	responses := make([]NearbyIncidentResponse, len(nearby))
	for i, n := range nearby {
		responses[i] = NearbyIncidentResponse{
			Incident:       ModelToIncidentResponse(n.Incident),
			DistanceMeters: n.DistanceMeters,
		}
	}
	return responses
}

func PresenceToResponse(p models.OfficerPresence) OfficerResponse {
	r := OfficerToResponse(&p.Officer)
	r.Connected = p.Connected
	r.IsOnline = p.IsOnline
	r.OnlineStatus = p.OnlineStatus
	return r
}

func OfficerToResponse(o *models.Officer) OfficerResponse {
	r := OfficerResponse{
		ID:          o.ID,
		Username:    o.Username,
		Role:        string(o.Role),
		Status:      string(o.Status),
		BadgeNumber: o.BadgeNumber,
		Department:  o.Department,
		Rank:        o.Rank,
		LastSeenAt:  o.LastSeenAt,
		LocatedAt:   o.LocatedAt,
	}
	if o.Location != nil {
		r.Location = &LocationDTO{Lat: o.Location.Lat, Lng: o.Location.Lng}
	}
	return r
}

func PresencesToResponses(list []models.OfficerPresence) []OfficerResponse {
	out := make([]OfficerResponse, len(list))
	for i, p := range list {
		out[i] = PresenceToResponse(p)
	}
	return out
}

func LocationToResponse(l models.OfficerLocation) OfficerLocationResponse {
	return OfficerLocationResponse{
		OfficerID:  l.OfficerID,
		Username:   l.Username,
		Status:     string(l.Status),
		Location:   LocationDTO{Lat: l.Location.Lat, Lng: l.Location.Lng},
		RecordedAt: l.RecordedAt,
	}
}

func LocationsToResponses(list []models.OfficerLocation) []OfficerLocationResponse {
	out := make([]OfficerLocationResponse, len(list))
	for i, l := range list {
		out[i] = LocationToResponse(l)
	}
	return out
}

// GroupsToResponse сохраняет все пять статусов в ответе, включая пустые
func GroupsToResponse(groups map[models.OfficerStatus][]models.OfficerPresence) map[string][]OfficerResponse {
	out := make(map[string][]OfficerResponse, len(groups))
	for _, status := range models.OfficerStatuses {
		out[string(status)] = []OfficerResponse{}
	}
	for status, group := range groups {
		out[string(status)] = PresencesToResponses(group)
	}
	return out
}

func UpdateRequestToProfile(dto UpdateProfileRequest) models.ProfileUpdate {
	return models.ProfileUpdate{
		BadgeNumber: dto.BadgeNumber,
		Department:  dto.Department,
		Rank:        dto.Rank,
	}
}
