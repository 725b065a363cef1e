package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/middleware"
)

const HeaderFailedSteps = "X-Failed-Steps"

func actorOrAbort(c *gin.Context) (jobcard.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_actor", "authentication required")
		return jobcard.Actor{}, false
	}
	return actor, true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", param+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func parseOptionalID(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, httperr.ErrValidation("invalid_id", "technician_id", "technician_id must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// partialFailure é a resposta quando os registros ficaram gravados mas um
// efeito colateral (documento, e-mail) falhou.
type partialFailure struct {
	httperr.HTTPError
	FailedSteps []string `json:"failed_steps"`
	Result      any      `json:"result"`
}

// respondResult escreve o resultado; com falha parcial vira 502 com os passos
// que falharam e o que foi gravado.
func respondResult(c *gin.Context, okStatus int, res any, failedSteps []string, err error) {
	if err == nil {
		c.JSON(okStatus, res)
		return
	}
	if len(failedSteps) == 0 {
		httperr.Respond(c, err)
		return
	}

	c.Header(HeaderFailedSteps, strings.Join(failedSteps, ","))
	c.JSON(http.StatusBadGateway, partialFailure{
		HTTPError: httperr.HTTPError{
			Code:    "downstream_failure",
			Message: err.Error(),
			Step:    failedSteps[0],
		},
		FailedSteps: failedSteps,
		Result:      res,
	})
}
