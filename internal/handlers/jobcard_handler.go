package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/dto"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
	ucJobCard "github.com/BruksfildServices01/repair-jobcards/internal/usecase/jobcard"
)

// ======================================================
// HANDLER
// ======================================================

type JobCardHandler struct {
	transition *ucJobCard.Transition
	diagnostic *ucJobCard.UpdateDiagnostic
	list       *ucJobCard.ListJobCards
	details    *ucJobCard.GetJobDetails
	summary    *ucJobCard.JobCardSummary
}

func NewJobCardHandler(
	transition *ucJobCard.Transition,
	diagnostic *ucJobCard.UpdateDiagnostic,
	list *ucJobCard.ListJobCards,
	details *ucJobCard.GetJobDetails,
	summary *ucJobCard.JobCardSummary,
) *JobCardHandler {
	return &JobCardHandler{
		transition: transition,
		diagnostic: diagnostic,
		list:       list,
		details:    details,
		summary:    summary,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type TransitionRequest struct {
	To string `json:"to" binding:"required"`
}

type DiagnosticRequest struct {
	Diagnostic string `json:"diagnostic"`
}

// ======================================================
// GET /jobcards?status=&technician_id=
// ======================================================

func (h *JobCardHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var filter domain.ListFilter
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		filter.Status = &status
	}

	techID, err := parseOptionalID(c.Query("technician_id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	filter.TechnicianID = techID

	// técnico sem filtro vê a própria fila
	if actor.Role == domain.RoleTechnician && filter.TechnicianID == nil {
		filter.TechnicianID = &actor.UserID
	}

	jobs, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewJobCardList(jobs))
}

// GET /jobcards/:id
func (h *JobCardHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.details.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, job)
}

// GET /jobcards/summary
func (h *JobCardHandler) Summary(c *gin.Context) {
	summary, err := h.summary.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, summary)
}

// ======================================================
// POST /jobcards/:id/transition
// ======================================================

func (h *JobCardHandler) Transition(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if !bindJSON(c, &req) {
		return
	}
	to, err := domain.ParseStatus(req.To)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	job, err := h.transition.Execute(c.Request.Context(), id, to, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, job)
}

// ======================================================
// PUT /jobcards/:id/diagnostic
// ======================================================

func (h *JobCardHandler) UpdateDiagnostic(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req DiagnosticRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.diagnostic.Execute(c.Request.Context(), id, req.Diagnostic, actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, job)
}
