package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/config"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	actorContextKey  = "actor"
	tokenIssuer      = "field-dispatch"
	accessTokenParam = "access_token"
)

// Claims - содержимое токена доступа. Subject - id сотрудника.
type Claims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken выпускает токен HS256 для сотрудника
func NewAccessToken(secret string, officerID uuid.UUID, name string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   officerID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken проверяет подпись и срок действия, возвращает инициатора
func ParseAccessToken(secret, tokenString string) (models.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Actor{}, err
	}
	if !token.Valid {
		return models.Actor{}, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	role := claims.Role
	if role != models.RoleAdmin {
		role = models.RoleOfficer
	}
	return models.NewActor(id, claims.Name, role), nil
}

// extractToken берет токен из заголовка Authorization: Bearer,
// а для WebSocket - из параметра access_token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query(accessTokenParam)
}

// BearerAuthMiddleware - middleware для аутентификации по JWT
func BearerAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			log.Warn("Access token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "access token required", Code: "Unauthorized"})
			return
		}

		actor, err := ParseAccessToken(cfg.JWTSecret, tokenString)
		if err != nil {
			log.WithError(err).Warn("Invalid access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid access token", Code: "Unauthorized"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireCapability пропускает только инициаторов с нужным правом
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.Can(capability) {
			writeError(c, apperrors.New(apperrors.KindForbidden, "http.RequireCapability", "insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom возвращает инициатора, установленного BearerAuthMiddleware
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
