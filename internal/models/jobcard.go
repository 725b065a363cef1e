package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type JobCard struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DeviceID uint   `gorm:"not null;index" json:"device_id"`
	Device   Device `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"device"`

	AssignedTechnicianID *uint `gorm:"index" json:"assigned_technician_id"`

	ProblemDescription string  `gorm:"type:text;not null" json:"problem_description"`
	Diagnostic         *string `gorm:"type:text" json:"diagnostic"`

	Status string              `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Cost   decimal.NullDecimal `gorm:"type:numeric(12,2);check:chk_job_cards_cost_completed,(status = 'completed') = (cost IS NOT NULL)" json:"cost"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (j *JobCard) HasDiagnostic() bool {
	return j.Diagnostic != nil && strings.TrimSpace(*j.Diagnostic) != ""
}
