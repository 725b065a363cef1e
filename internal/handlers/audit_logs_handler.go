package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
	loc   *time.Location
}

func NewAuditLogsHandler(store audit.Store, loc *time.Location) *AuditLogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AuditLogsHandler{store: store, loc: loc}
}

// GET /audit-logs?action=&entity=&entity_id=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	entityID, err := parseOptionalID(c.Query("entity_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "entity_id must be a positive integer")
		return
	}
	f.EntityID = entityID

	// --------------------------------------------------
	// Datas no fuso da oficina; "to" inclui o dia inteiro
	// --------------------------------------------------

	if raw := c.Query("from"); raw != "" {
		if from, err := time.ParseInLocation("2006-01-02", raw, h.loc); err == nil {
			f.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.ParseInLocation("2006-01-02", raw, h.loc); err == nil {
			end := to.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "could not list audit logs")
		return
	}
	httpresp.Page(c, logs, total, page, limit)
}
