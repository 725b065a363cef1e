package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
	ucIntake "github.com/BruksfildServices01/repair-jobcards/internal/usecase/intake"
)

// ======================================================
// HANDLER
// ======================================================

type IntakeHandler struct {
	intake *ucIntake.Intake
	create *ucIntake.CreateJobCard
	retry  *ucIntake.RetryIntakeStep
}

func NewIntakeHandler(
	intake *ucIntake.Intake,
	create *ucIntake.CreateJobCard,
	retry *ucIntake.RetryIntakeStep,
) *IntakeHandler {
	return &IntakeHandler{intake: intake, create: create, retry: retry}
}

// ======================================================
// POST /intake
// ======================================================

func (h *IntakeHandler) Intake(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req ucIntake.Input
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.intake.Execute(c.Request.Context(), req, actor)
	if res == nil {
		httperr.Respond(c, err)
		return
	}
	respondResult(c, http.StatusCreated, res, res.FailedSteps, err)
}

// ======================================================
// POST /jobcards (aparelho já cadastrado)
// ======================================================

func (h *IntakeHandler) CreateJobCard(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req ucIntake.CreateJobCardInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.create.Execute(c.Request.Context(), req, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, job)
}

// ======================================================
// POST /jobcards/:id/retry/:step
// ======================================================

func (h *IntakeHandler) RetryStep(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.retry.Execute(c.Request.Context(), id, c.Param("step"), actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}
