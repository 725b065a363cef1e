package intake

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type CreateJobCardInput struct {
	DeviceID           uint   `json:"device_id"`
	ProblemDescription string `json:"problem_description"`
	TechnicianID       *uint  `json:"technician_id"`
}

type CreateJobCard struct {
	jobs  jobcard.Repository
	staff staff.Repository
	audit *audit.Dispatcher
	cache cache.Store
	log   *zap.Logger
}

// NewCreateJobCard aceita store nil (sem cache).
func NewCreateJobCard(
	jobs jobcard.Repository,
	staff staff.Repository,
	audit *audit.Dispatcher,
	store cache.Store,
	log *zap.Logger,
) *CreateJobCard {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreateJobCard{
		jobs:  jobs,
		staff: staff,
		audit: audit,
		cache: store,
		log:   log,
	}
}

// Validate checks everything that does not depend on the device row, so the
// orchestrator can fail before writing anything.
func (uc *CreateJobCard) Validate(ctx context.Context, in CreateJobCardInput, actor jobcard.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.ProblemDescription) == "" {
		return httperr.ErrRequired("problem_description")
	}
	if in.TechnicianID == nil {
		return nil
	}

	tech, err := uc.staff.GetUser(ctx, *in.TechnicianID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrValidation("invalid_technician", "technician_id", "technician not found")
		}
		return err
	}
	if !staff.IsTechnician(tech) {
		return httperr.ErrValidation("invalid_technician", "technician_id", "user "+tech.Name+" is not a technician")
	}
	return nil
}

func (uc *CreateJobCard) Execute(
	ctx context.Context,
	in CreateJobCardInput,
	actor jobcard.Actor,
) (*models.JobCard, error) {

	if err := uc.Validate(ctx, in, actor); err != nil {
		return nil, err
	}
	if in.DeviceID == 0 {
		return nil, httperr.ErrRequired("device_id")
	}
	return uc.insert(ctx, in, actor)
}

func (uc *CreateJobCard) insert(
	ctx context.Context,
	in CreateJobCardInput,
	actor jobcard.Actor,
) (*models.JobCard, error) {

	job := &models.JobCard{
		DeviceID:             in.DeviceID,
		AssignedTechnicianID: in.TechnicianID,
		ProblemDescription:   strings.TrimSpace(in.ProblemDescription),
		Status:               string(jobcard.InitialStatus(in.TechnicianID)),
	}

	if err := uc.jobs.CreateJobCard(ctx, job); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, cache.SummaryKey()); err != nil {
			uc.log.Warn("cache invalidation failed", zap.Error(err))
		}
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Role:     string(actor.Role),
		Action:   audit.ActionJobCardCreated,
		Entity:   "job_card",
		EntityID: &job.ID,
		Metadata: map[string]any{
			"device_id":     job.DeviceID,
			"status":        job.Status,
			"technician_id": job.AssignedTechnicianID,
		},
	})

	return job, nil
}
