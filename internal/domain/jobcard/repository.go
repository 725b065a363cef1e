package jobcard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// StatusChange is a conditional write applied only while the row still holds From.
type StatusChange struct {
	From Status
	To   Status

	// RequireDiagnostic also guards the write on a non-empty diagnostic.
	RequireDiagnostic bool

	// Set together when To is completed.
	Cost        *decimal.Decimal
	CompletedAt *time.Time
}

type ListFilter struct {
	Status       *Status
	TechnicianID *uint
}

type Summary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByBrand  map[string]int64 `json:"by_brand"`
}

type Repository interface {
	// -------- Create --------
	CreateJobCard(
		ctx context.Context,
		job *models.JobCard,
	) error

	// -------- Read --------

	// GetJobCard returns httperr.NotFoundError on a miss.
	GetJobCard(
		ctx context.Context,
		id uint,
	) (*models.JobCard, error)

	// GetJobCardDetails preloads Device and Device.Client.
	GetJobCardDetails(
		ctx context.Context,
		id uint,
	) (*models.JobCard, error)

	ListJobCards(
		ctx context.Context,
		filter ListFilter,
	) ([]models.JobCard, error)

	Summarize(
		ctx context.Context,
	) (*Summary, error)

	// -------- State change --------

	// CompareAndSetStatus reports false when the row no longer matches change.From.
	CompareAndSetStatus(
		ctx context.Context,
		id uint,
		change StatusChange,
	) (bool, error)

	// UpdateDiagnostic overwrites the diagnostic only while the status is one
	// of editable; false means the status moved or the job is gone.
	UpdateDiagnostic(
		ctx context.Context,
		id uint,
		diagnostic *string,
		editable []Status,
	) (bool, error)
}
