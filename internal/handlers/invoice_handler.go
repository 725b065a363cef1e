package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/pricing"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
	ucJobCard "github.com/BruksfildServices01/repair-jobcards/internal/usecase/jobcard"
)

// ======================================================
// HANDLER
// ======================================================

type InvoiceHandler struct {
	inv      ucJobCard.Invoicing
	finalize *ucJobCard.FinalizeInvoice
	resend   *ucJobCard.ResendInvoice
}

func NewInvoiceHandler(
	inv ucJobCard.Invoicing,
	finalize *ucJobCard.FinalizeInvoice,
	resend *ucJobCard.ResendInvoice,
) *InvoiceHandler {
	return &InvoiceHandler{inv: inv, finalize: finalize, resend: resend}
}

// ======================================================
// REQUESTS
// ======================================================

type InvoiceRequest struct {
	Items    []pricing.RawLineItem `json:"items"`
	ApplyTax bool                  `json:"apply_tax"`
	TaxRate  *string               `json:"tax_rate"`
}

func (r InvoiceRequest) toInput() (ucJobCard.InvoiceInput, error) {
	items, err := pricing.ParseLineItems(r.Items)
	if err != nil {
		return ucJobCard.InvoiceInput{}, err
	}

	in := ucJobCard.InvoiceInput{Items: items, ApplyTax: r.ApplyTax}
	if r.TaxRate != nil {
		rate, err := decimal.NewFromString(strings.TrimSpace(*r.TaxRate))
		if err != nil {
			return ucJobCard.InvoiceInput{}, httperr.ErrValidation("invalid_tax_rate", "tax_rate", "tax rate must be numeric")
		}
		in.Rate = &rate
	}
	return in, nil
}

func (h *InvoiceHandler) bind(c *gin.Context) (ucJobCard.InvoiceInput, bool) {
	var req InvoiceRequest
	if !bindJSON(c, &req) {
		return ucJobCard.InvoiceInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		httperr.Respond(c, err)
		return ucJobCard.InvoiceInput{}, false
	}
	return in, true
}

// ======================================================
// POST /invoices/quote
// ======================================================

// Quote calcula o total sem gravar nada.
func (h *InvoiceHandler) Quote(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	quote, err := h.inv.Quote(in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, quote)
}

// ======================================================
// POST /jobcards/:id/invoice
// ======================================================

func (h *InvoiceHandler) Finalize(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}

	res, err := h.finalize.Execute(c.Request.Context(), id, in, actor)
	h.write(c, res, err)
}

// POST /jobcards/:id/invoice/resend
func (h *InvoiceHandler) Resend(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}

	res, err := h.resend.Execute(c.Request.Context(), id, in, actor)
	h.write(c, res, err)
}

// write devolve o PDF quando o cliente pede application/pdf. A fatura já
// existe mesmo se o e-mail falhou, então o PDF sai com X-Failed-Steps.
func (h *InvoiceHandler) write(c *gin.Context, res *ucJobCard.InvoiceResult, err error) {
	if res == nil {
		httperr.Respond(c, err)
		return
	}

	if wantsPDF(c) && res.Document != nil {
		if len(res.FailedSteps) > 0 {
			c.Header(HeaderFailedSteps, strings.Join(res.FailedSteps, ","))
		}
		c.Header("Content-Disposition", `attachment; filename="`+res.Document.Name+`"`)
		c.Data(http.StatusOK, document.ContentTypePDF, res.Document.Content)
		return
	}

	respondResult(c, http.StatusOK, res, res.FailedSteps, err)
}

func wantsPDF(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), document.ContentTypePDF)
}
