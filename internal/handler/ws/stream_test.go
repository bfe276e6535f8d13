package ws

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/broadcast"
	"github.com/shenikar/field_dispatch/internal/config"
	v1 "github.com/shenikar/field_dispatch/internal/handler/http/v1"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "stream-secret"

type presenceStub struct {
	mu    sync.Mutex
	calls int
}

func (p *presenceStub) Heartbeat(_ context.Context, actor models.Actor) (models.OfficerPresence, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return models.OfficerPresence{Officer: models.Officer{ID: actor.OfficerID}}, nil
}

func (p *presenceStub) MarkConnected(uuid.UUID) {}
func (p *presenceStub) MarkStale(uuid.UUID) {}
func (p *presenceStub) Touch(uuid.UUID) bool { return true }

type streamEnv struct {
	server   *httptest.Server
	hub      *broadcast.Broadcaster
	registry *session.Registry
	presence *presenceStub
}

func newStreamEnv(t *testing.T) *streamEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	hub := broadcast.New(logger)
	stub := &presenceStub{}
	registry := session.NewRegistry(hub, stub, logger, session.Options{QueueSize: 64, Now: time.Now})
	hub.SetEvictionHook(registry.HandleEviction)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	secured := router.Group("/api/v1")
	secured.Use(v1.BearerAuthMiddleware(&config.Config{JWTSecret: testSecret}, logger))
	NewStream(registry, stub, logger, time.Minute).Register(secured)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &streamEnv{server: server, hub: hub, registry: registry, presence: stub}
}

func (e *streamEnv) dial(t *testing.T, officerID uuid.UUID, query string) *websocket.Conn {
	t.Helper()
	token, err := v1.NewAccessToken(testSecret, officerID, "anna", models.RoleOfficer, time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/v1/ws?access_token=" + token + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return len(e.registry.SessionsOf(officerID)) == 1
	}, time.Second, 5*time.Millisecond)
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) replyFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply replyFrame
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestStream_RejectsMissingToken(t *testing.T) {
	e := newStreamEnv(t)

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStream_DeliversSystemChannelEvents(t *testing.T) {
	e := newStreamEnv(t)
	conn := e.dial(t, uuid.New(), "")

	e.hub.Publish(models.Event{Channel: models.ChannelIncidents, Type: models.EventIncidentCreated})
	e.hub.Publish(models.Event{Channel: models.ChannelIncidents, Type: models.EventIncidentAssigned})

	first := readEvent(t, conn)
	second := readEvent(t, conn)
	assert.Equal(t, models.EventIncidentCreated, first.Type)
	assert.Equal(t, models.EventIncidentAssigned, second.Type)
	assert.Less(t, first.Seq, second.Seq)

	e.presence.mu.Lock()
	assert.Equal(t, 1, e.presence.calls)
	e.presence.mu.Unlock()
}

func TestStream_SubscribeFromQueryAndFrames(t *testing.T) {
	e := newStreamEnv(t)
	officerID := uuid.New()
	conn := e.dial(t, officerID, "&channels=einsatz-7")

	reply := readReply(t, conn)
	assert.Equal(t, replyFrame{Type: "subscribed", Channel: "einsatz-7"}, reply)

	require.NoError(t, conn.WriteJSON(clientFrame{Action: "subscribe", Channel: "general"}))
	assert.Equal(t, replyFrame{Type: "subscribed", Channel: "general"}, readReply(t, conn))

	e.hub.Publish(models.Event{Channel: "general", Type: models.EventMessagePosted})
	ev := readEvent(t, conn)
	assert.Equal(t, "general", ev.Channel)

	require.NoError(t, conn.WriteJSON(clientFrame{Action: "unsubscribe", Channel: "general"}))
	assert.Equal(t, replyFrame{Type: "unsubscribed", Channel: "general"}, readReply(t, conn))
	sessions := e.registry.SessionsOf(officerID)
	require.Len(t, sessions, 1)
	assert.NotContains(t, sessions[0].Channels, "general")
	assert.Contains(t, sessions[0].Channels, "einsatz-7")
}

func TestStream_QuerySubscriptionsAllAnswered(t *testing.T) {
	e := newStreamEnv(t)
	officerID := uuid.New()

	channels := make([]string, 0, 2*replyBuffer)
	for i := 0; i < 2*replyBuffer; i++ {
		channels = append(channels, fmt.Sprintf("revier-%02d", i))
	}
	conn := e.dial(t, officerID, "&channels="+strings.Join(channels, ",")+","+strings.Repeat("x", maxChannelLength+1))

	for _, channel := range channels {
		assert.Equal(t, replyFrame{Type: "subscribed", Channel: channel}, readReply(t, conn))
	}
	last := readReply(t, conn)
	assert.Equal(t, "error", last.Type)
	assert.Equal(t, apperrors.KindValidation.String(), last.Code)

	sessions := e.registry.SessionsOf(officerID)
	require.Len(t, sessions, 1)
	for _, channel := range channels {
		assert.Contains(t, sessions[0].Channels, channel)
	}
}

func TestStream_PingAndInvalidFrames(t *testing.T) {
	e := newStreamEnv(t)
	conn := e.dial(t, uuid.New(), "")

	require.NoError(t, conn.WriteJSON(clientFrame{Action: "ping"}))
	assert.Equal(t, "pong", readReply(t, conn).Type)

	require.NoError(t, conn.WriteJSON(clientFrame{Action: "subscribe"}))
	reply := readReply(t, conn)
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, "ValidationError", reply.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "error", readReply(t, conn).Type)

	require.NoError(t, conn.WriteJSON(clientFrame{Action: "dance"}))
	assert.Equal(t, "unknown action", readReply(t, conn).Error)
}

func TestStream_BackpressureClosesWithPolicyViolation(t *testing.T) {
	e := newStreamEnv(t)
	officerID := uuid.New()
	conn := e.dial(t, officerID, "")

	sessions := e.registry.SessionsOf(officerID)
	require.Len(t, sessions, 1)
	e.hub.Detach(sessions[0].ID, apperrors.ErrBackpressureDisconnect)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "BackpressureDisconnect", closeErr.Text)

	assert.Eventually(t, func() bool {
		return e.registry.Count() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestStream_ClientCloseUnregistersSession(t *testing.T) {
	e := newStreamEnv(t)
	conn := e.dial(t, uuid.New(), "")

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Eventually(t, func() bool {
		return e.registry.Count() == 0
	}, time.Second, 5*time.Millisecond)
}
