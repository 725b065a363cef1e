package jobcard

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Transition struct {
	deps Deps
}

func NewTransition(deps Deps) *Transition {
	return &Transition{deps: deps.withDefaults()}
}

func (uc *Transition) Execute(
	ctx context.Context,
	id uint,
	to domain.Status,
	actor domain.Actor,
) (*models.JobCard, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	job, err := uc.deps.Repo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}

	from, err := domain.CheckTransition(job, to, actor)
	if err != nil {
		return nil, err
	}

	ok, err := uc.deps.Repo.CompareAndSetStatus(ctx, id, domain.StatusChange{
		From:              from,
		To:                to,
		RequireDiagnostic: domain.RequiresDiagnostic(to),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.lost(ctx, id, from, to, actor)
	}

	updated, err := uc.deps.Repo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, id)
	uc.deps.audited(ctx, actor, audit.ActionStatusChanged, id, map[string]string{
		"from": string(from),
		"to":   string(to),
	})
	uc.deps.Log.Info("job card status changed",
		zap.Uint("job_card_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("role", string(actor.Role)),
	)
	uc.deps.reinvalidate(ctx, id)

	return updated, nil
}

// lost explains a failed conditional write. Status moved → transition error
// from the new state; status unchanged → the diagnostic was cleared meanwhile.
func (uc *Transition) lost(ctx context.Context, id uint, from, to domain.Status, actor domain.Actor) error {
	current, err := uc.deps.Repo.GetJobCard(ctx, id)
	if err != nil {
		return err
	}
	if domain.Status(current.Status) == from {
		if err := domain.CheckPreconditions(current, to); err != nil {
			return err
		}
	}
	return domain.NewInvalidTransition(domain.Status(current.Status), to, actor.Role)
}
