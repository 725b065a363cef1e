package intake

import (
	"context"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

type StepResult struct {
	Step     string                `json:"step"`
	Document *document.Document    `json:"document,omitempty"`
	Receipt  *notification.Receipt `json:"receipt,omitempty"`
}

// RetryIntakeStep re-runs exactly one intake side effect for an existing job.
type RetryIntakeStep struct {
	jobs    jobcard.Repository
	effects *SideEffects
	audit   *audit.Dispatcher
}

func NewRetryIntakeStep(
	jobs jobcard.Repository,
	effects *SideEffects,
	audit *audit.Dispatcher,
) *RetryIntakeStep {
	return &RetryIntakeStep{jobs: jobs, effects: effects, audit: audit}
}

func (uc *RetryIntakeStep) Execute(
	ctx context.Context,
	jobCardID uint,
	step string,
	actor jobcard.Actor,
) (*StepResult, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if step != httperr.StepDeviceDocument && step != httperr.StepClientNotification {
		return nil, httperr.ErrValidation("invalid_step", "step", "unknown intake step "+step)
	}

	job, err := uc.jobs.GetJobCardDetails(ctx, jobCardID)
	if err != nil {
		return nil, err
	}

	res := &StepResult{Step: step}
	switch step {
	case httperr.StepDeviceDocument:
		res.Document, err = uc.effects.DeviceSheet(ctx, job.Device.Client, job.Device, job)
	case httperr.StepClientNotification:
		// reenvio sem anexo
		res.Receipt, err = uc.effects.NotifyClient(ctx, job.Device.Client, job.Device, job.ID, nil)
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Role:     string(actor.Role),
		Action:   audit.ActionIntakeStepRetried,
		Entity:   "job_card",
		EntityID: &job.ID,
		Metadata: map[string]any{"step": step, "ok": err == nil},
	})

	if err != nil {
		return nil, err
	}
	return res, nil
}
