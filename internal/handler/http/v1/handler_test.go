package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/shenikar/field_dispatch/internal/incident"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-jwt-secret"

type sessionCount int

func (s sessionCount) Count() int { return int(s) }

// newTestHandler создает Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*mocks.MockDispatchService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockDispatchService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{JWTSecret: testSecret}
	handler := NewHandler(mockService, sessionCount(3), logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	return mockService, router
}

func tokenFor(t *testing.T, actor models.Actor) map[string]string {
	t.Helper()
	token, err := NewAccessToken(testSecret, actor.OfficerID, actor.Name, actor.Role, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck_NoAuth(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Sessions: 3}, resp)
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeError(t, w).Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	_, router := newTestHandler(t)
	token, err := NewAccessToken(testSecret, uuid.New(), "alt", models.RoleOfficer, -time.Minute)
	require.NoError(t, err)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_TokenFromQuery(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	token, err := NewAccessToken(testSecret, actor.OfficerID, actor.Name, actor.Role, time.Hour)
	require.NoError(t, err)

	mockService.EXPECT().ListIncidents(gomock.Any()).Return([]*models.Incident{}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?access_token="+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseAccessToken_UnknownRoleFallsBackToOfficer(t *testing.T) {
	id := uuid.New()
	token, err := NewAccessToken(testSecret, id, "x", models.Role("superuser"), time.Hour)
	require.NoError(t, err)

	actor, err := ParseAccessToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, models.NewActor(id, "x", models.RoleOfficer), actor)

	_, err = ParseAccessToken("other-secret", token)
	assert.Error(t, err)
}

func TestReportIncident_Success(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	reqBody := CreateIncidentRequest{
		Title:       "Ruhestörung",
		Description: "Laute Musik",
		Priority:    "medium",
		Location:    LocationDTO{Lat: 52.52, Lng: 13.40},
	}
	created := &models.Incident{
		ID:          uuid.New(),
		Title:       reqBody.Title,
		Description: reqBody.Description,
		Priority:    models.PriorityMedium,
		Status:      models.IncidentOpen,
		Location:    models.Location{Lat: 52.52, Lng: 13.40},
		CreatedBy:   actor.OfficerID,
	}

	mockService.EXPECT().
		ReportIncident(gomock.Any(), actor, incident.Payload{
			Title:       reqBody.Title,
			Description: reqBody.Description,
			Priority:    models.PriorityMedium,
			Location:    models.Location{Lat: 52.52, Lng: 13.40},
		}).
		Return(created, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), tokenFor(t, actor))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "open", resp.Status)
	assert.Nil(t, resp.AssignedTo)
}

func TestReportIncident_ValidationError(t *testing.T) {
	_, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	tests := []struct {
		name string
		body any
	}{
		{"missing title", CreateIncidentRequest{Description: "d", Priority: "low"}},
		{"bad priority", CreateIncidentRequest{Title: "t", Description: "d", Priority: "urgent"}},
		{"bad latitude", CreateIncidentRequest{Title: "t", Description: "d", Priority: "low", Location: LocationDTO{Lat: 95}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/incidents", jsonBody(t, tt.body), tokenFor(t, actor))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "ValidationError", decodeError(t, w).Code)
		})
	}

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString("{"), tokenFor(t, actor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimIncident_ErrorMapping(t *testing.T) {
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	id := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"already assigned", apperrors.New(apperrors.KindAlreadyAssigned, "op", "assigned to bernd"), http.StatusConflict, "AlreadyAssigned"},
		{"not found", apperrors.New(apperrors.KindNotFound, "op", "missing"), http.StatusNotFound, "NotFound"},
		{"timeout", apperrors.New(apperrors.KindTimeout, "op", "busy"), http.StatusGatewayTimeout, "Timeout"},
		{"persistence", apperrors.New(apperrors.KindPersistenceFailure, "op", "db down"), http.StatusServiceUnavailable, "PersistenceFailure"},
		{"canceled", apperrors.Wrap(apperrors.KindCanceled, "op", context.Canceled), 499, "Canceled"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := newTestHandler(t)
			mockService.EXPECT().ClaimIncident(gomock.Any(), actor, id).Return(nil, tt.err)

			w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/claim", nil, tokenFor(t, actor))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "boom")
			}
			if tt.wantStatus == http.StatusGatewayTimeout || tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "1", w.Header().Get("Retry-After"))
			} else {
				assert.Empty(t, w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestClaimIncident_Success(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	id := uuid.New()
	claimed := &models.Incident{ID: id, Status: models.IncidentInProgress, AssignedTo: &actor.OfficerID, AssignedToName: "anna"}

	mockService.EXPECT().ClaimIncident(gomock.Any(), actor, id).Return(claimed, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/claim", nil, tokenFor(t, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, "anna", resp.AssignedToName)
}

func TestCompleteIncident_NotAssignee(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	id := uuid.New()

	mockService.EXPECT().CompleteIncident(gomock.Any(), actor, id).
		Return(nil, apperrors.New(apperrors.KindNotAssignee, "op", "held by bernd"))

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/complete", nil, tokenFor(t, actor))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "NotAssignee", decodeError(t, w).Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil, tokenFor(t, actor))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNearbyIncidents(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	inc := &models.Incident{ID: uuid.New(), Status: models.IncidentOpen}

	mockService.EXPECT().
		ListNearbyIncidents(gomock.Any(), models.Location{Lat: 52.5, Lng: 13.4}, 250.0).
		Return([]models.NearbyIncident{{Incident: inc, DistanceMeters: 120}}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/nearby?lat=52.5&lng=13.4&radius_m=250", nil, tokenFor(t, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []NearbyIncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, inc.ID, resp[0].Incident.ID)
	assert.Equal(t, 120.0, resp[0].DistanceMeters)

	w = makeRequest(router, http.MethodGet, "/api/v1/incidents/nearby?lat=abc&lng=13.4", nil, tokenFor(t, actor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	mockService.EXPECT().SetOfficerStatus(gomock.Any(), actor, models.OfficerStatus("Urlaub")).
		Return(models.OfficerPresence{}, apperrors.New(apperrors.KindInvalidStatus, "op", "status %q is not allowed", "Urlaub"))

	w := makeRequest(router, http.MethodPost, "/api/v1/officers/me/status", jsonBody(t, SetStatusRequest{Status: "Urlaub"}), tokenFor(t, actor))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "InvalidStatus", decodeError(t, w).Code)
}

func TestSetStatus_Success(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	p := models.OfficerPresence{
		Officer:  models.Officer{ID: actor.OfficerID, Username: "anna", Role: models.RoleOfficer, Status: models.StatusPatrol},
		IsOnline: true,
	}

	mockService.EXPECT().SetOfficerStatus(gomock.Any(), actor, models.StatusPatrol).Return(p, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/officers/me/status", jsonBody(t, SetStatusRequest{Status: "Streife"}), tokenFor(t, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp OfficerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Streife", resp.Status)
	assert.True(t, resp.IsOnline)
}

func TestOfficersByStatus_AllKeysPresent(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	mockService.EXPECT().ListOfficersByStatus(gomock.Any()).Return(map[models.OfficerStatus][]models.OfficerPresence{
		models.StatusPatrol: {{Officer: models.Officer{ID: actor.OfficerID, Username: "anna", Status: models.StatusPatrol}}},
	}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/officers/by-status", nil, tokenFor(t, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]OfficerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, len(models.OfficerStatuses))
	assert.Len(t, resp["Streife"], 1)
	assert.NotNil(t, resp["Pause"])
	assert.Empty(t, resp["Pause"])
}

func TestAdminRoutes_ForbiddenForOfficer(t *testing.T) {
	_, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	w := makeRequest(router, http.MethodGet, "/api/v1/admin/stats", nil, tokenFor(t, actor))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeError(t, w).Code)

	rank := "PK"
	w = makeRequest(router, http.MethodPut, "/api/v1/officers/"+uuid.NewString(), jsonBody(t, UpdateProfileRequest{Rank: &rank}), tokenFor(t, actor))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/officers", nil, tokenFor(t, actor))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutes_Admin(t *testing.T) {
	mockService, router := newTestHandler(t)
	admin := models.NewActor(uuid.New(), "chef", models.RoleAdmin)
	officerID := uuid.New()
	rank := "PHK"
	stats := models.IncidentStats{Officers: 4, Incidents: 2, OpenIncidents: 1, Messages: 9, ActiveSessions: 3}

	mockService.EXPECT().GetStats(gomock.Any(), admin).Return(stats, nil)
	mockService.EXPECT().
		UpdateOfficerProfile(gomock.Any(), admin, officerID, models.ProfileUpdate{Rank: &rank}).
		Return(&models.Officer{ID: officerID, Username: "lang", Rank: rank, Status: models.StatusOnDuty}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/admin/stats", nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	var gotStats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gotStats))
	assert.Equal(t, stats, gotStats)

	w = makeRequest(router, http.MethodPut, "/api/v1/officers/"+officerID.String(), jsonBody(t, UpdateProfileRequest{Rank: &rank}), tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	var officer OfficerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &officer))
	assert.Equal(t, "PHK", officer.Rank)
	assert.Equal(t, "Im Dienst", officer.Status)
}

func TestListOfficers_Admin(t *testing.T) {
	mockService, router := newTestHandler(t)
	admin := models.NewActor(uuid.New(), "chef", models.RoleAdmin)
	located := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	list := []models.OfficerPresence{
		{
			Officer: models.Officer{
				ID: uuid.New(), Username: "adler", Status: models.StatusPatrol,
				Location: &models.Location{Lat: 52.52, Lng: 13.40}, LocatedAt: &located,
			},
			IsOnline:     true,
			OnlineStatus: "Online",
		},
		{Officer: models.Officer{ID: uuid.New(), Username: "zander", Status: models.StatusOnDuty}, OnlineStatus: "Offline"},
	}

	mockService.EXPECT().ListOfficers(gomock.Any(), admin).Return(list, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/officers", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
	var got []OfficerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "adler", got[0].Username)
	require.NotNil(t, got[0].Location)
	assert.Equal(t, 13.40, got[0].Location.Lng)
	assert.True(t, got[0].IsOnline)
	assert.Nil(t, got[1].Location)
	assert.Equal(t, "Offline", got[1].OnlineStatus)
}

func TestUpdateLocation(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "weber", models.RoleOfficer)
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	loc := models.Location{Lat: 52.52, Lng: 13.40}

	mockService.EXPECT().UpdateLocation(gomock.Any(), actor, loc).
		Return(models.OfficerLocation{OfficerID: actor.OfficerID, Username: "weber", Status: models.StatusPatrol, Location: loc, RecordedAt: at}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/officers/me/location", jsonBody(t, map[string]float64{"lat": 52.52, "lng": 13.40}), tokenFor(t, actor))
	require.Equal(t, http.StatusOK, w.Code)
	var got OfficerLocationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, actor.OfficerID, got.OfficerID)
	assert.Equal(t, "Streife", got.Status)
	assert.Equal(t, at, got.RecordedAt)
}

func TestUpdateLocation_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing lng", map[string]float64{"lat": 52.52}},
		{"latitude out of range", map[string]float64{"lat": 95, "lng": 13.40}},
		{"longitude out of range", map[string]float64{"lat": 52.52, "lng": -181}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newTestHandler(t)
			actor := models.NewActor(uuid.New(), "weber", models.RoleOfficer)

			w := makeRequest(router, http.MethodPost, "/api/v1/officers/me/location", jsonBody(t, tt.body), tokenFor(t, actor))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "ValidationError", decodeError(t, w).Code)
		})
	}
}

func TestLiveLocations(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	fixes := []models.OfficerLocation{
		{OfficerID: uuid.New(), Username: "weber", Location: models.Location{Lat: 52.52, Lng: 13.40}},
	}

	mockService.EXPECT().ListLiveLocations(gomock.Any()).Return(fixes, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/officers/locations", nil, tokenFor(t, actor))
	require.Equal(t, http.StatusOK, w.Code)
	var got []OfficerLocationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "weber", got[0].Username)
	assert.Equal(t, 52.52, got[0].Location.Lat)
}

func TestPostMessage(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)
	msg := &models.Message{ID: 7, Channel: models.DefaultChannel, AuthorID: actor.OfficerID, AuthorName: "anna", Body: "Bin vor Ort"}

	mockService.EXPECT().PostMessage(gomock.Any(), actor, "", "Bin vor Ort").Return(msg, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/messages", jsonBody(t, PostMessageRequest{Body: "Bin vor Ort"}), tokenFor(t, actor))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = makeRequest(router, http.MethodPost, "/api/v1/messages", jsonBody(t, PostMessageRequest{}), tokenFor(t, actor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMessages_PassesQuery(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	mockService.EXPECT().ListMessages(gomock.Any(), "einsatz-7", 20).Return([]*models.Message{}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/messages?channel=einsatz-7&limit=20", nil, tokenFor(t, actor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLogout(t *testing.T) {
	mockService, router := newTestHandler(t)
	actor := models.NewActor(uuid.New(), "anna", models.RoleOfficer)

	mockService.EXPECT().Logout(gomock.Any(), actor).Return(nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/officers/me/logout", nil, tokenFor(t, actor))
	assert.Equal(t, http.StatusOK, w.Code)
}
