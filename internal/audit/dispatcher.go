package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

const (
	ActionJobCardCreated    = "job_card_created"
	ActionStatusChanged     = "job_card_status_changed"
	ActionDiagnosticUpdated = "job_card_diagnostic_updated"
	ActionInvoiceFinalized  = "invoice_finalized"
	ActionInvoiceResent     = "invoice_resent"
	ActionIntakeStepRetried = "intake_step_retried"
	ActionStaffRegistered   = "staff_registered"
	ActionClientCreated     = "client_created"
	ActionDeviceCreated     = "device_created"
)

type Event struct {
	UserID   *uint
	Role     string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher grava o evento na hora. Falha de audit nunca quebra a operação.
type Dispatcher struct {
	store Store
	log   *zap.Logger
}

func NewDispatcher(store Store, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{store: store, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if d == nil || d.store == nil {
		return
	}

	entry := models.AuditLog{
		UserID:   ev.UserID,
		Role:     ev.Role,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: encodeMetadata(ev.Metadata),
	}

	if err := d.store.Save(ctx, &entry); err != nil {
		d.log.Warn("audit write failed",
			zap.String("action", ev.Action),
			zap.String("entity", ev.Entity),
			zap.Error(err),
		)
	}
}
