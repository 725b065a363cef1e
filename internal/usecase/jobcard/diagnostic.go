package jobcard

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// UpdateDiagnostic overwrites the diagnostic text. Writing the same text
// twice leaves the same state.
type UpdateDiagnostic struct {
	deps Deps
}

func NewUpdateDiagnostic(deps Deps) *UpdateDiagnostic {
	return &UpdateDiagnostic{deps: deps.withDefaults()}
}

func (uc *UpdateDiagnostic) Execute(
	ctx context.Context,
	id uint,
	text string,
	actor domain.Actor,
) (*models.JobCard, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, httperr.ErrRequired("diagnostic")
	}

	job, err := uc.deps.Repo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEditDiagnostic(domain.Status(job.Status), actor); err != nil {
		return nil, err
	}

	ok, err := uc.deps.Repo.UpdateDiagnostic(ctx, id, &text, domain.DiagnosticEditable())
	if err != nil {
		return nil, err
	}

	updated, err := uc.deps.Repo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		// status saiu dos editáveis entre a leitura e a escrita
		if err := domain.CanEditDiagnostic(domain.Status(updated.Status), actor); err != nil {
			return nil, err
		}
		return nil, httperr.ErrValidation("diagnostic_locked", "diagnostic", "diagnostic changed state concurrently")
	}

	uc.deps.invalidate(ctx, id)
	uc.deps.audited(ctx, actor, audit.ActionDiagnosticUpdated, id, map[string]any{
		"status": updated.Status,
		"length": len(text),
	})
	uc.deps.reinvalidate(ctx, id)

	return updated, nil
}
