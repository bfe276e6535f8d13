package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/broadcast"
	v1 "github.com/shenikar/field_dispatch/internal/handler/http/v1"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
	maxFrameSize        = 4096
	maxChannelLength    = 64
	replyBuffer         = 16

	closeReasonIdle = "IdleTimeout"
)

// Registry - реестр сессий, которым пользуется поток
type Registry interface {
	Register(officerID uuid.UUID) (session.Session, *broadcast.Subscriber, error)
	Subscribe(sessionID uuid.UUID, channel string) error
	Unsubscribe(sessionID uuid.UUID, channel string)
	Touch(sessionID uuid.UUID)
	Unregister(sessionID uuid.UUID)
}

// Presence отмечает сотрудника в сети до открытия сессии
type Presence interface {
	Heartbeat(ctx context.Context, actor models.Actor) (models.OfficerPresence, error)
}

// clientFrame - команда клиента
type clientFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel,omitempty"`
}

// replyFrame - ответ на команду клиента
type replyFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Stream отдает упорядоченный поток событий по WebSocket
type Stream struct {
	registry     Registry
	presence     Presence
	logger       *logrus.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

func NewStream(registry Registry, presence Presence, logger *logrus.Logger, pingInterval time.Duration) *Stream {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	return &Stream{
		registry: registry,
		presence: presence,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingInterval: pingInterval,
	}
}

// Register подключает маршрут потока к группе с аутентификацией
func (s *Stream) Register(secured *gin.RouterGroup) {
	secured.GET("/ws", s.Serve)
}

// @Summary Event stream
// @Description WebSocket stream of incident, presence and chat events. Token goes in the access_token query parameter.
// @Tags Stream
// @Security BearerAuth
// @Param channels query string false "Comma separated chat channels"
// @Param access_token query string false "Access token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} v1.ErrorResponse "Unauthorized"
// @Router /ws [get]
func (s *Stream) Serve(c *gin.Context) {
	actor, ok := v1.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, v1.ErrorResponse{Error: "access token required", Code: "Unauthorized"})
		return
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":    "Stream",
		"officer_id": actor.OfficerID,
	})

	if _, err := s.presence.Heartbeat(c.Request.Context(), actor); err != nil {
		log.WithError(err).Warn("Failed to mark officer online")
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade to websocket")
		return
	}
	defer conn.Close()

	sess, sub, err := s.registry.Register(actor.OfficerID)
	if err != nil {
		log.WithError(err).Error("Failed to register session")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "internal error"),
			time.Now().Add(writeWait))
		return
	}
	defer s.registry.Unregister(sess.ID)
	log = log.WithField("session_id", sess.ID)

	// Подписки из запроса. Циклы еще не запущены, поэтому ответы пишутся
	// напрямую и уходят клиенту раньше любых событий.
	for _, channel := range strings.Split(c.Query("channels"), ",") {
		if strings.TrimSpace(channel) == "" {
			continue
		}
		reply := s.apply(sess.ID, clientFrame{Action: "subscribe", Channel: channel})
		if err := s.writeJSON(conn, reply); err != nil {
			log.WithError(err).Debug("Failed to write reply")
			return
		}
	}

	replies := make(chan replyFrame, replyBuffer)
	go s.readLoop(conn, sess.ID, sub, replies, log)
	s.writeLoop(conn, sub, replies, log)
}

// readLoop разбирает команды клиента. При ошибке чтения сессия закрывается,
// что завершает и writeLoop.
func (s *Stream) readLoop(conn *websocket.Conn, sessionID uuid.UUID, sub *broadcast.Subscriber, replies chan<- replyFrame, log *logrus.Entry) {
	defer s.registry.Unregister(sessionID)

	conn.SetReadLimit(maxFrameSize)
	pongWait := 2 * s.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("WebSocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		s.registry.Touch(sessionID)

		reply := replyFrame{Type: "error", Error: "malformed frame", Code: apperrors.KindValidation.String()}
		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err == nil {
			reply = s.apply(sessionID, frame)
		}

		select {
		case replies <- reply:
		case <-sub.Done():
			return
		}
	}
}

func (s *Stream) apply(sessionID uuid.UUID, frame clientFrame) replyFrame {
	channel := strings.TrimSpace(frame.Channel)
	switch frame.Action {
	case "ping":
		return replyFrame{Type: "pong"}
	case "subscribe", "unsubscribe":
		if channel == "" || len(channel) > maxChannelLength {
			return replyFrame{Type: "error", Channel: channel, Error: "channel must be 1..64 characters", Code: apperrors.KindValidation.String()}
		}
		if frame.Action == "unsubscribe" {
			s.registry.Unsubscribe(sessionID, channel)
			return replyFrame{Type: "unsubscribed", Channel: channel}
		}
		if err := s.registry.Subscribe(sessionID, channel); err != nil {
			return replyFrame{Type: "error", Channel: channel, Error: err.Error(), Code: apperrors.KindOf(err).String()}
		}
		return replyFrame{Type: "subscribed", Channel: channel}
	default:
		return replyFrame{Type: "error", Error: "unknown action", Code: apperrors.KindValidation.String()}
	}
}

// writeLoop - единственный писатель в соединение: события, ответы и ping
func (s *Stream) writeLoop(conn *websocket.Conn, sub *broadcast.Subscriber, replies <-chan replyFrame, log *logrus.Entry) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				s.writeClose(conn, sub.Err(), log)
				return
			}
			if err := s.writeJSON(conn, ev); err != nil {
				log.WithError(err).Debug("Failed to write event")
				return
			}
		case reply := <-replies:
			if err := s.writeJSON(conn, reply); err != nil {
				log.WithError(err).Debug("Failed to write reply")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Debug("Ping failed")
				return
			}
		}
	}
}

func (s *Stream) writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// writeClose сообщает клиенту причину отключения
func (s *Stream) writeClose(conn *websocket.Conn, reason error, log *logrus.Entry) {
	code, text := websocket.CloseNormalClosure, ""
	switch {
	case apperrors.KindOf(reason) == apperrors.KindBackpressureDisconnect:
		code, text = websocket.ClosePolicyViolation, apperrors.KindBackpressureDisconnect.String()
	case errors.Is(reason, session.ErrIdle):
		code, text = websocket.CloseGoingAway, closeReasonIdle
	}
	if reason != nil {
		log.WithError(reason).Info("Closing stream")
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}
