package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Step    string   `json:"failed_step,omitempty"`
	Current string   `json:"current_status,omitempty"`
	Allowed []string `json:"allowed_statuses,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps the error taxonomy onto HTTP. Unknown errors become 500.
func Respond(c *gin.Context, err error) {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		it *InvalidTransitionError
		df *DownstreamFailure
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    ve.Code,
			Message: ve.Error(),
			Field:   ve.Field,
		})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, HTTPError{
			Code:    nf.Entity + "_not_found",
			Message: nf.Error(),
		})
	case errors.As(err, &it):
		c.JSON(http.StatusConflict, HTTPError{
			Code:    "invalid_transition",
			Message: it.Error(),
			Current: it.From,
			Allowed: it.Allowed,
		})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, HTTPError{
			Code:    ce.Entity + "_conflict",
			Message: ce.Error(),
		})
	case errors.As(err, &df):
		c.JSON(http.StatusBadGateway, HTTPError{
			Code:    "downstream_failure",
			Message: df.Error(),
			Step:    df.Step,
		})
	default:
		Internal(c, "internal_error", "unexpected error")
	}
}
