package jobcard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/pricing"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type InvoiceInput struct {
	Items []pricing.LineItem

	// ApplyTax appends the VAT line before totalling; Rate overrides the default.
	ApplyTax bool
	Rate     *decimal.Decimal
}

type InvoiceResult struct {
	JobCard     *models.JobCard       `json:"job_card"`
	Items       []pricing.LineItem    `json:"items"`
	Total       decimal.Decimal       `json:"total"`
	Currency    string                `json:"currency"`
	Document    *document.Document    `json:"document"`
	Receipt     *notification.Receipt `json:"receipt,omitempty"`
	FailedSteps []string              `json:"failed_steps,omitempty"`
}

// Invoicing holds the collaborators shared by finalize and resend.
type Invoicing struct {
	Calc     *pricing.Calculator
	Docs     document.Generator
	Archive  document.Archive
	Sender   notification.Sender
	Currency string
}

// ======================================================
// Quote (ComputeInvoiceTotal / ApplyTax)
// ======================================================

type Quote struct {
	Items    []pricing.LineItem `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
	Currency string             `json:"currency"`
}

func (inv Invoicing) Quote(in InvoiceInput) (*Quote, error) {
	if len(in.Items) == 0 {
		return nil, httperr.ErrValidation("empty_invoice", "items", "an invoice needs at least one line")
	}

	items := pricing.Normalize(in.Items)
	if in.ApplyTax {
		var err error
		if items, err = inv.Calc.ApplyTax(items, in.Rate); err != nil {
			return nil, err
		}
	}

	total, err := inv.Calc.Total(items)
	if err != nil {
		return nil, err
	}

	subtotal := pricing.Subtotal(items)
	return &Quote{
		Items:    items,
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Total:    total,
		Currency: inv.Currency,
	}, nil
}

func (inv Invoicing) payload(job *models.JobCard, q *Quote, issuedAt time.Time) document.Invoice {
	diagnostic := ""
	if job.Diagnostic != nil {
		diagnostic = *job.Diagnostic
	}
	return document.Invoice{
		JobCardID:  job.ID,
		Client:     job.Device.Client,
		Device:     job.Device,
		Diagnostic: diagnostic,
		Items:      q.Items,
		Subtotal:   q.Subtotal,
		Tax:        q.Tax,
		Total:      q.Total,
		Currency:   q.Currency,
		IssuedAt:   issuedAt,
	}
}

func (inv Invoicing) render(ctx context.Context, job *models.JobCard, q *Quote, issuedAt time.Time) (*document.Document, error) {
	doc, err := inv.Docs.Invoice(ctx, inv.payload(job, q, issuedAt))
	if err != nil {
		return nil, httperr.ErrDownstream(httperr.StepInvoiceDocument, job.ID, err)
	}
	if doc.Name == "" {
		doc.Name = document.InvoiceName(job.ID)
	}
	return doc, nil
}

func (inv Invoicing) email(ctx context.Context, job *models.JobCard, q *Quote, doc *document.Document) (*notification.Receipt, error) {
	msg := notification.InvoiceMessage(job.Device.Client, job.ID, q.Total.StringFixed(2), q.Currency)
	msg.Attachments = []*document.Document{doc}

	receipt, err := inv.Sender.Send(ctx, msg)
	if err != nil {
		return nil, httperr.ErrDownstream(httperr.StepInvoiceNotification, job.ID, err)
	}
	return receipt, nil
}

// ======================================================
// FinalizeInvoice
// ======================================================

type FinalizeInvoice struct {
	deps Deps
	inv  Invoicing
}

func NewFinalizeInvoice(deps Deps, inv Invoicing) *FinalizeInvoice {
	return &FinalizeInvoice{deps: deps.withDefaults(), inv: inv}
}

func (uc *FinalizeInvoice) Execute(
	ctx context.Context,
	id uint,
	in InvoiceInput,
	actor domain.Actor,
) (*InvoiceResult, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	job, err := uc.deps.Repo.GetJobCardDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	// ---------- 1. autorização pricing → completed ----------
	from, err := domain.ParseStatus(job.Status)
	if err != nil {
		return nil, domain.NewInvalidTransition(domain.Status(job.Status), domain.StatusCompleted, actor.Role)
	}
	if err := domain.Authorize(from, domain.StatusCompleted, actor); err != nil {
		return nil, err
	}

	// ---------- 2. itens e total ----------
	quote, err := uc.inv.Quote(in)
	if err != nil {
		return nil, err
	}

	// ---------- 3. documento; falha mantém pricing ----------
	now := uc.deps.Now()
	doc, err := uc.inv.render(ctx, job, quote, now)
	if err != nil {
		uc.deps.Log.Warn("invoice document failed", zap.Uint("job_card_id", id), zap.Error(err))
		return nil, err
	}

	// ---------- 4. pricing → completed com custo ----------
	ok, err := uc.deps.Repo.CompareAndSetStatus(ctx, id, domain.StatusChange{
		From:        from,
		To:          domain.StatusCompleted,
		Cost:        &quote.Total,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, currentStateError(ctx, uc.deps.Repo, id, domain.StatusCompleted, actor.Role)
	}

	updated, err := uc.deps.Repo.GetJobCardDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.deps.invalidate(ctx, id)
	defer uc.deps.reinvalidate(ctx, id)
	uc.deps.audited(ctx, actor, audit.ActionInvoiceFinalized, id, map[string]string{
		"total":    quote.Total.StringFixed(2),
		"currency": quote.Currency,
	})

	res := &InvoiceResult{
		JobCard:  updated,
		Items:    quote.Items,
		Total:    quote.Total,
		Currency: quote.Currency,
		Document: doc,
	}

	// ---------- 5. arquivo (best effort) ----------
	uc.archive(ctx, id, doc)

	// ---------- 6. e-mail ----------
	receipt, err := uc.inv.email(ctx, updated, quote, doc)
	if err != nil {
		res.FailedSteps = httperr.FailedSteps(err)
		uc.deps.Log.Warn("invoice email failed", zap.Uint("job_card_id", id), zap.Error(err))
		return res, err
	}
	res.Receipt = receipt

	return res, nil
}

func (uc *FinalizeInvoice) archive(ctx context.Context, id uint, doc *document.Document) {
	if uc.inv.Archive == nil {
		return
	}
	key, err := uc.inv.Archive.Put(ctx, id, doc)
	if err != nil {
		uc.deps.Log.Warn("invoice archive failed", zap.Uint("job_card_id", id), zap.Error(err))
		return
	}
	doc.ArchiveKey = key
}

// ======================================================
// ResendInvoice
// ======================================================

// ResendInvoice regenerates and re-sends the invoice of a completed job card.
// The items must add up to the stored cost; the job card is not modified.
type ResendInvoice struct {
	deps Deps
	inv  Invoicing
}

func NewResendInvoice(deps Deps, inv Invoicing) *ResendInvoice {
	return &ResendInvoice{deps: deps.withDefaults(), inv: inv}
}

func (uc *ResendInvoice) Execute(
	ctx context.Context,
	id uint,
	in InvoiceInput,
	actor domain.Actor,
) (*InvoiceResult, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if actor.Role != domain.RolePricing && actor.Role != domain.RoleAdmin {
		return nil, httperr.ErrValidation("invoice_forbidden", "role", "role "+string(actor.Role)+" cannot send invoices")
	}

	job, err := uc.deps.Repo.GetJobCardDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != string(domain.StatusCompleted) || !job.Cost.Valid {
		return nil, httperr.ErrValidation("job_not_completed", "status", "only completed job cards have an invoice")
	}

	quote, err := uc.inv.Quote(in)
	if err != nil {
		return nil, err
	}
	if !quote.Total.Equal(job.Cost.Decimal) {
		return nil, httperr.ErrValidation(
			"invoice_total_mismatch",
			"items",
			"items total "+quote.Total.StringFixed(2)+" does not match stored cost "+job.Cost.Decimal.StringFixed(2),
		)
	}

	issuedAt := uc.deps.Now()
	if job.CompletedAt != nil {
		issuedAt = *job.CompletedAt
	}
	doc, err := uc.inv.render(ctx, job, quote, issuedAt)
	if err != nil {
		return nil, err
	}

	res := &InvoiceResult{
		JobCard:  job,
		Items:    quote.Items,
		Total:    quote.Total,
		Currency: quote.Currency,
		Document: doc,
	}

	receipt, err := uc.inv.email(ctx, job, quote, doc)
	uc.deps.audited(ctx, actor, audit.ActionInvoiceResent, id, map[string]any{"ok": err == nil})
	if err != nil {
		res.FailedSteps = httperr.FailedSteps(err)
		return res, err
	}
	res.Receipt = receipt
	return res, nil
}
