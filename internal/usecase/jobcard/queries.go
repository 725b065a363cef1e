package jobcard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// ======================================================
// ListJobCards (filas por papel)
// ======================================================

type ListJobCards struct {
	deps Deps
}

func NewListJobCards(deps Deps) *ListJobCards {
	return &ListJobCards{deps: deps.withDefaults()}
}

func (uc *ListJobCards) Execute(ctx context.Context, filter domain.ListFilter) ([]models.JobCard, error) {
	return uc.deps.Repo.ListJobCards(ctx, filter)
}

// ======================================================
// GetJobDetails
// ======================================================

type GetJobDetails struct {
	deps Deps
	ttl  time.Duration
}

func NewGetJobDetails(deps Deps, ttl time.Duration) *GetJobDetails {
	return &GetJobDetails{deps: deps.withDefaults(), ttl: ttl}
}

func (uc *GetJobDetails) Execute(ctx context.Context, id uint) (*models.JobCard, error) {
	key := cache.JobCardDetailsKey(id)

	if uc.deps.Cache != nil {
		var cached models.JobCard
		hit, err := uc.deps.Cache.Get(ctx, key, &cached)
		if err != nil {
			uc.deps.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	job, err := uc.deps.Repo.GetJobCardDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.Set(ctx, key, job, uc.ttl); err != nil {
			uc.deps.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return job, nil
}

// ======================================================
// JobCardSummary (dados do painel de análise)
// ======================================================

type JobCardSummary struct {
	deps Deps
	ttl  time.Duration
}

func NewJobCardSummary(deps Deps, ttl time.Duration) *JobCardSummary {
	return &JobCardSummary{deps: deps.withDefaults(), ttl: ttl}
}

func (uc *JobCardSummary) Execute(ctx context.Context) (*domain.Summary, error) {
	key := cache.SummaryKey()

	if uc.deps.Cache != nil {
		var cached domain.Summary
		hit, err := uc.deps.Cache.Get(ctx, key, &cached)
		if err != nil {
			uc.deps.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	s, err := uc.deps.Repo.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.Set(ctx, key, s, uc.ttl); err != nil {
			uc.deps.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return s, nil
}
