package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/field_dispatch/internal/apperrors"
)

// statusClientClosedRequest - клиент закрыл запрос до начала операции (как в nginx)
const statusClientClosedRequest = 499

// statusFor сопоставляет классу ошибки HTTP-статус
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotAssignee, apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAlreadyAssigned, apperrors.KindInvalidTransition:
		return http.StatusConflict
	case apperrors.KindInvalidStatus:
		return http.StatusUnprocessableEntity
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	case apperrors.KindPersistenceFailure:
		return http.StatusServiceUnavailable
	case apperrors.KindCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает телом {"error", "code"}; текст внутренних ошибок не раскрывается
func writeError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	code := kind.String()
	switch status {
	case http.StatusInternalServerError:
		msg, code = "internal server error", "Internal"
	case http.StatusServiceUnavailable:
		msg = "storage is unavailable, retry the operation"
	}
	// Клиенту стоит выполнить resync и повторить команду один раз
	if apperrors.Transient(err) {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}
