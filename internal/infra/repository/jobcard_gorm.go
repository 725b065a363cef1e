package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type JobCardGormRepository struct {
	db *gorm.DB
}

func NewJobCardGormRepository(db *gorm.DB) *JobCardGormRepository {
	return &JobCardGormRepository{db: db}
}

// --------------------------------------------------
// Create
// --------------------------------------------------

func (r *JobCardGormRepository) CreateJobCard(
	ctx context.Context,
	job *models.JobCard,
) error {
	return translateWrite(
		r.db.WithContext(ctx).Omit("Device").Create(job).Error,
		"job_card", "",
	)
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *JobCardGormRepository) GetJobCard(
	ctx context.Context,
	id uint,
) (*models.JobCard, error) {

	var job models.JobCard
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translateRead(err, "job_card", strconv.FormatUint(uint64(id), 10))
	}
	return &job, nil
}

func (r *JobCardGormRepository) GetJobCardDetails(
	ctx context.Context,
	id uint,
) (*models.JobCard, error) {

	var job models.JobCard
	if err := r.db.WithContext(ctx).
		Preload("Device.Client").
		First(&job, id).Error; err != nil {
		return nil, translateRead(err, "job_card", strconv.FormatUint(uint64(id), 10))
	}
	return &job, nil
}

func (r *JobCardGormRepository) ListJobCards(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.JobCard, error) {

	q := r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Preload("Device.Client")

	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.TechnicianID != nil {
		q = q.Where("assigned_technician_id = ?", *filter.TechnicianID)
	}

	var jobs []models.JobCard
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list job cards: %w", err)
	}
	return jobs, nil
}

type groupCount struct {
	Key   string
	Count int64
}

func (r *JobCardGormRepository) Summarize(
	ctx context.Context,
) (*domain.Summary, error) {

	var byStatus []groupCount
	if err := r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("summarize by status: %w", err)
	}

	var byBrand []groupCount
	if err := r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Select("devices.brand AS key, COUNT(*) AS count").
		Joins("JOIN devices ON devices.id = job_cards.device_id").
		Group("devices.brand").
		Scan(&byBrand).Error; err != nil {
		return nil, fmt.Errorf("summarize by brand: %w", err)
	}

	return buildSummary(byStatus, byBrand), nil
}

func buildSummary(byStatus, byBrand []groupCount) *domain.Summary {
	s := &domain.Summary{
		ByStatus: make(map[string]int64, len(byStatus)),
		ByBrand:  make(map[string]int64, len(byBrand)),
	}
	for _, g := range byStatus {
		s.ByStatus[g.Key] += g.Count
		s.Total += g.Count
	}
	for _, g := range byBrand {
		s.ByBrand[g.Key] += g.Count
	}
	return s
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *JobCardGormRepository) CompareAndSetStatus(
	ctx context.Context,
	id uint,
	change domain.StatusChange,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Where("id = ? AND status = ?", id, string(change.From))

	if change.RequireDiagnostic {
		q = q.Where("diagnostic IS NOT NULL AND btrim(diagnostic) <> ''")
	}

	updates := map[string]any{
		"status":     string(change.To),
		"updated_at": time.Now(),
	}
	if change.Cost != nil {
		updates["cost"] = *change.Cost
	}
	if change.CompletedAt != nil {
		updates["completed_at"] = *change.CompletedAt
	}

	res := q.Updates(updates)
	if res.Error != nil {
		if isNumericOutOfRange(res.Error) {
			return false, translateWrite(res.Error, "job_card", strconv.FormatUint(uint64(id), 10))
		}
		return false, fmt.Errorf("job card status update: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *JobCardGormRepository) UpdateDiagnostic(
	ctx context.Context,
	id uint,
	diagnostic *string,
	editable []domain.Status,
) (bool, error) {

	statuses := make([]string, 0, len(editable))
	for _, s := range editable {
		statuses = append(statuses, string(s))
	}

	res := r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(map[string]any{
			"diagnostic": diagnostic,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("job card diagnostic update: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

var _ domain.Repository = (*JobCardGormRepository)(nil)
