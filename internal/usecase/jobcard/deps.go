package jobcard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
)

// Deps is what every job card use case shares.
type Deps struct {
	Repo  domain.Repository
	Audit *audit.Dispatcher
	Cache cache.Store
	Log   *zap.Logger
	Now   func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// invalidate derruba a leitura em cache depois de qualquer escrita.
func (d Deps) invalidate(ctx context.Context, id uint) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, cache.JobCardDetailsKey(id), cache.SummaryKey()); err != nil {
		d.Log.Warn("cache invalidation failed", zap.Uint("job_card_id", id), zap.Error(err))
	}
}

// reinvalidate runs at the end of a write. A reader that loaded the row
// before the update and stored it after the first invalidate loses its
// stale entry here.
func (d Deps) reinvalidate(ctx context.Context, id uint) {
	d.invalidate(ctx, id)
}

func (d Deps) audited(ctx context.Context, actor domain.Actor, action string, id uint, meta any) {
	d.Audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Role:     string(actor.Role),
		Action:   action,
		Entity:   "job_card",
		EntityID: &id,
		Metadata: meta,
	})
}

// currentStateError is what a caller gets after losing a conditional write:
// the transition error built from whatever the row holds now.
func currentStateError(ctx context.Context, repo domain.Repository, id uint, to domain.Status, role domain.Role) error {
	job, err := repo.GetJobCard(ctx, id)
	if err != nil {
		return err
	}
	return domain.NewInvalidTransition(domain.Status(job.Status), to, role)
}
