package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

const defaultNearbyRadius = 1000.0

type Handler struct {
	dispatchService service.DispatchService
	sessions        service.SessionCounter
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(dispatchService service.DispatchService, sessions service.SessionCounter, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		dispatchService: dispatchService,
		sessions:        sessions,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// bind разбирает и валидирует тело запроса; при ошибке отвечает 400
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "ValidationError"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "ValidationError"})
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id", Code: "ValidationError"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Report an incident
// @Description Report a new incident. It starts in status open without an assignee.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident report"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "reportIncident")
	if !h.bind(c, log, &input) {
		return
	}

	actor, _ := ActorFrom(c)
	inc, err := h.dispatchService.ReportIncident(c.Request.Context(), actor, DTOToIncidentPayload(input))
	if err != nil {
		log.WithError(err).Warn("Failed to report incident")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(inc))
}

// @Summary Claim an incident
// @Description Assign an open incident to the caller. Only the first of concurrent claims succeeds.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Already assigned"
// @Failure 504 {object} ErrorResponse "Timeout"
// @Router /incidents/{id}/claim [post]
func (h *Handler) claimIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "claimIncident").WithField("id", id)

	actor, _ := ActorFrom(c)
	inc, err := h.dispatchService.ClaimIncident(c.Request.Context(), actor, id)
	if err != nil {
		log.WithError(err).Warn("Failed to claim incident")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(inc))
}

// @Summary Complete an incident
// @Description Complete an incident held by the caller. Admins may complete any incident in progress.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 403 {object} ErrorResponse "Not the assignee"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /incidents/{id}/complete [post]
func (h *Handler) completeIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "completeIncident").WithField("id", id)

	actor, _ := ActorFrom(c)
	inc, err := h.dispatchService.CompleteIncident(c.Request.Context(), actor, id)
	if err != nil {
		log.WithError(err).Warn("Failed to complete incident")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(inc))
}

// @Summary List incidents
// @Description Full incident list, newest first. Used by clients to resync after reconnect.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.dispatchService.ListIncidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	inc, err := h.dispatchService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(inc))
}

// @Summary Open incidents near a point
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_m query number false "Radius in meters" default(1000)
// @Success 200 {array} NearbyIncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid coordinates"
// @Router /incidents/nearby [get]
func (h *Handler) nearbyIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyIncidents")

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required numbers", Code: "ValidationError"})
		return
	}
	radius := defaultNearbyRadius
	if raw := c.Query("radius_m"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "radius_m must be a number", Code: "ValidationError"})
			return
		}
		radius = r
	}

	nearby, err := h.dispatchService.ListNearbyIncidents(c.Request.Context(), models.Location{Lat: lat, Lng: lng}, radius)
	if err != nil {
		log.WithError(err).Warn("Failed to list nearby incidents")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NearbyToResponses(nearby))
}

// @Summary Set own status
// @Description One of "Im Dienst", "Pause", "Einsatz", "Streife", "Nicht verfügbar".
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status body SetStatusRequest true "New status"
// @Success 200 {object} OfficerResponse
// @Failure 422 {object} ErrorResponse "Invalid status"
// @Router /officers/me/status [post]
func (h *Handler) setStatus(c *gin.Context) {
	var input SetStatusRequest
	log := h.logger.WithField("method", "setStatus")
	if !h.bind(c, log, &input) {
		return
	}

	actor, _ := ActorFrom(c)
	p, err := h.dispatchService.SetOfficerStatus(c.Request.Context(), actor, models.OfficerStatus(input.Status))
	if err != nil {
		log.WithError(err).Warn("Failed to set status")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresenceToResponse(p))
}

// @Summary Heartbeat
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OfficerResponse
// @Router /officers/me/heartbeat [post]
func (h *Handler) heartbeat(c *gin.Context) {
	actor, _ := ActorFrom(c)
	p, err := h.dispatchService.Heartbeat(c.Request.Context(), actor)
	if err != nil {
		h.logger.WithField("method", "heartbeat").WithError(err).Warn("Failed to record heartbeat")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresenceToResponse(p))
}

// @Summary Logout
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /officers/me/logout [post]
func (h *Handler) logout(c *gin.Context) {
	actor, _ := ActorFrom(c)
	if err := h.dispatchService.Logout(c.Request.Context(), actor); err != nil {
		h.logger.WithField("method", "logout").WithError(err).Warn("Failed to log out")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// @Summary Officers grouped by status
// @Description Officers active within the presence TTL, grouped by status. Every status key is present.
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]OfficerResponse
// @Router /officers/by-status [get]
func (h *Handler) officersByStatus(c *gin.Context) {
	groups, err := h.dispatchService.ListOfficersByStatus(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GroupsToResponse(groups))
}

// @Summary Officers online
// @Description Officers seen within the online threshold, most recent first.
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.OnlineOfficer
// @Router /officers/online [get]
func (h *Handler) onlineOfficers(c *gin.Context) {
	online, err := h.dispatchService.ListOnlineOfficers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, online)
}

// @Summary Report own location
// @Description Stores the caller's latest position and broadcasts it on the presence channel.
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body UpdateLocationRequest true "Position"
// @Success 200 {object} OfficerLocationResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /officers/me/location [post]
func (h *Handler) updateLocation(c *gin.Context) {
	var input UpdateLocationRequest
	log := h.logger.WithField("method", "updateLocation")
	if !h.bind(c, log, &input) {
		return
	}

	actor, _ := ActorFrom(c)
	fix, err := h.dispatchService.UpdateLocation(c.Request.Context(), actor, models.Location{Lat: *input.Lat, Lng: *input.Lng})
	if err != nil {
		log.WithError(err).Warn("Failed to update location")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LocationToResponse(fix))
}

// @Summary Live officer locations
// @Description Latest position per officer reported within the location window (10 minutes by default), most recent first.
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OfficerLocationResponse
// @Router /officers/locations [get]
func (h *Handler) liveLocations(c *gin.Context) {
	locations, err := h.dispatchService.ListLiveLocations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LocationsToResponses(locations))
}

// @Summary List officers
// @Description Admin only. Every stored officer with presence flags, ordered by username.
// @Tags Officers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OfficerResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /officers [get]
func (h *Handler) listOfficers(c *gin.Context) {
	actor, _ := ActorFrom(c)
	officers, err := h.dispatchService.ListOfficers(c.Request.Context(), actor)
	if err != nil {
		h.logger.WithField("method", "listOfficers").WithError(err).Warn("Failed to list officers")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresencesToResponses(officers))
}

// @Summary Edit officer profile
// @Description Admin only. Changes badge number, department or rank.
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Officer ID"
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} OfficerResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Officer not found"
// @Router /officers/{id} [put]
func (h *Handler) updateOfficer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input UpdateProfileRequest
	log := h.logger.WithField("method", "updateOfficer").WithField("id", id)
	if !h.bind(c, log, &input) {
		return
	}

	actor, _ := ActorFrom(c)
	officer, err := h.dispatchService.UpdateOfficerProfile(c.Request.Context(), actor, id, UpdateRequestToProfile(input))
	if err != nil {
		log.WithError(err).Warn("Failed to update officer")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, OfficerToResponse(officer))
}

// @Summary Post a chat message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body PostMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /messages [post]
func (h *Handler) postMessage(c *gin.Context) {
	var input PostMessageRequest
	log := h.logger.WithField("method", "postMessage")
	if !h.bind(c, log, &input) {
		return
	}

	actor, _ := ActorFrom(c)
	msg, err := h.dispatchService.PostMessage(c.Request.Context(), actor, input.Channel, input.Body)
	if err != nil {
		log.WithError(err).Warn("Failed to post message")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// @Summary Message history
// @Description Latest messages of a channel in ascending order.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param channel query string false "Channel" default(general)
// @Param limit query int false "Maximum number of messages" default(50)
// @Success 200 {array} models.Message
// @Router /messages [get]
func (h *Handler) listMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.dispatchService.ListMessages(c.Request.Context(), c.Query("channel"), limit)
	if err != nil {
		h.logger.WithField("method", "listMessages").WithError(err).Warn("Failed to list messages")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// @Summary Admin statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	actor, _ := ActorFrom(c)
	stats, err := h.dispatchService.GetStats(c.Request.Context(), actor)
	if err != nil {
		h.logger.WithField("method", "getStats").WithError(err).Warn("Failed to get stats")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Count()
	}
	c.JSON(http.StatusOK, resp)
}
