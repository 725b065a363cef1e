package intake

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Input struct {
	Client             domain.ClientFields `json:"client"`
	Device             domain.DeviceFields `json:"device"`
	ProblemDescription string              `json:"problem_description"`
	TechnicianID       *uint               `json:"technician_id"`
}

type Result struct {
	Client       *models.Client        `json:"client"`
	ClientReused bool                  `json:"client_reused"`
	Device       *models.Device        `json:"device"`
	DeviceReused bool                  `json:"device_reused"`
	JobCard      *models.JobCard       `json:"job_card"`
	Document     *document.Document    `json:"document,omitempty"`
	Receipt      *notification.Receipt `json:"receipt,omitempty"`
	FailedSteps  []string              `json:"failed_steps,omitempty"`
}

// Intake runs client → device → job card, then the device sheet and the
// client notification. Records written before a failing side effect stay.
type Intake struct {
	resolver *Resolver
	create   *CreateJobCard
	effects  *SideEffects
	audit    *audit.Dispatcher
}

func NewIntake(
	resolver *Resolver,
	create *CreateJobCard,
	effects *SideEffects,
	audit *audit.Dispatcher,
) *Intake {
	return &Intake{
		resolver: resolver,
		create:   create,
		effects:  effects,
		audit:    audit,
	}
}

func (uc *Intake) Execute(ctx context.Context, in Input, actor jobcard.Actor) (*Result, error) {
	jobIn := CreateJobCardInput{
		ProblemDescription: in.ProblemDescription,
		TechnicianID:       in.TechnicianID,
	}

	// ---------- validação antes de qualquer escrita ----------
	if err := uc.create.Validate(ctx, jobIn, actor); err != nil {
		return nil, err
	}
	if err := uc.prevalidate(ctx, in); err != nil {
		return nil, err
	}

	// ---------- 1. client ----------
	client, err := uc.resolver.ResolveOrCreateClient(ctx, in.Client)
	if err != nil {
		return nil, err
	}
	if !client.Reused {
		uc.audited(ctx, actor, audit.ActionClientCreated, "client", client.Record.ID)
	}

	// ---------- 2. device ----------
	device, err := uc.resolver.ResolveOrCreateDevice(ctx, in.Device, client.Record.ID)
	if err != nil {
		return nil, err
	}
	if !device.Reused {
		uc.audited(ctx, actor, audit.ActionDeviceCreated, "device", device.Record.ID)
	}

	// ---------- 3. job card ----------
	jobIn.DeviceID = device.Record.ID
	job, err := uc.create.insert(ctx, jobIn, actor)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Client:       client.Record,
		ClientReused: client.Reused,
		Device:       device.Record,
		DeviceReused: device.Reused,
		JobCard:      job,
	}

	// ---------- 4/5. efeitos colaterais, ambos sempre tentados ----------
	var failures []error

	doc, err := uc.effects.DeviceSheet(ctx, *client.Record, *device.Record, job)
	if err != nil {
		failures = append(failures, err)
	}
	res.Document = doc

	receipt, err := uc.effects.NotifyClient(ctx, *client.Record, *device.Record, job.ID, doc)
	if err != nil {
		failures = append(failures, err)
	}
	res.Receipt = receipt

	if len(failures) > 0 {
		joined := errors.Join(failures...)
		res.FailedSteps = httperr.FailedSteps(joined)
		uc.effects.log.Warn("intake side effects failed",
			zap.Uint("job_card_id", job.ID),
			zap.Strings("failed_steps", res.FailedSteps),
			zap.Error(joined),
		)
		return res, joined
	}
	return res, nil
}

// prevalidate checks the submitted fields of whatever is going to be
// created, so a bad device form does not leave a new client behind.
func (uc *Intake) prevalidate(ctx context.Context, in Input) error {
	client, err := uc.resolver.ResolveClient(ctx, in.Client.Phone)
	if err != nil {
		return err
	}
	if !client.IsFound() {
		if err := in.Client.Validate(); err != nil {
			return err
		}
	}

	device, err := uc.resolver.ResolveDevice(ctx, in.Device.SerialNumber)
	if err != nil {
		return err
	}
	if d, ok := device.Get(); ok {
		// um cliente novo nunca é dono de um aparelho já cadastrado
		var ownerID uint
		if c, found := client.Get(); found {
			ownerID = c.ID
		}
		_, err := reuseDevice(d, ownerID)
		return err
	}
	return in.Device.Validate()
}

func (uc *Intake) audited(ctx context.Context, actor jobcard.Actor, action, entity string, id uint) {
	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Role:     string(actor.Role),
		Action:   action,
		Entity:   entity,
		EntityID: &id,
	})
}
