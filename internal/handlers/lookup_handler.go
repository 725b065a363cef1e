package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
	ucIntake "github.com/BruksfildServices01/repair-jobcards/internal/usecase/intake"
)

// LookupHandler alimenta o auto-preenchimento do formulário de intake.
type LookupHandler struct {
	resolver *ucIntake.Resolver
}

func NewLookupHandler(resolver *ucIntake.Resolver) *LookupHandler {
	return &LookupHandler{resolver: resolver}
}

type lookupResponse struct {
	Found  bool `json:"found"`
	Record any  `json:"record,omitempty"`
}

// GET /clients/lookup?phone=
func (h *LookupHandler) Client(c *gin.Context) {
	res, err := h.resolver.ResolveClient(c.Request.Context(), c.Query("phone"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	client, found := res.Get()
	if !found {
		httpresp.OK(c, lookupResponse{Found: false})
		return
	}
	httpresp.OK(c, lookupResponse{Found: true, Record: client})
}

// GET /devices/lookup?serial=
func (h *LookupHandler) Device(c *gin.Context) {
	res, err := h.resolver.ResolveDevice(c.Request.Context(), c.Query("serial"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	device, found := res.Get()
	if !found {
		httpresp.OK(c, lookupResponse{Found: false})
		return
	}
	httpresp.OK(c, lookupResponse{Found: true, Record: device})
}
