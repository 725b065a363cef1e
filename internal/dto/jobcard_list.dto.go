package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// JobCardListDTO é a linha das filas (recepção, técnico, precificação).
type JobCardListDTO struct {
	ID                   uint                `json:"id"`
	Status               string              `json:"status"`
	ProblemDescription   string              `json:"problem_description"`
	AssignedTechnicianID *uint               `json:"assigned_technician_id"`
	DeviceSerial         string              `json:"device_serial"`
	DeviceBrand          string              `json:"device_brand"`
	DeviceModel          string              `json:"device_model"`
	ClientName           string              `json:"client_name"`
	ClientPhone          string              `json:"client_phone"`
	Cost                 decimal.NullDecimal `json:"cost"`
	CreatedAt            time.Time           `json:"created_at"`
}

func NewJobCardListDTO(j models.JobCard) JobCardListDTO {
	return JobCardListDTO{
		ID:                   j.ID,
		Status:               j.Status,
		ProblemDescription:   j.ProblemDescription,
		AssignedTechnicianID: j.AssignedTechnicianID,
		DeviceSerial:         j.Device.SerialNumber,
		DeviceBrand:          j.Device.Brand,
		DeviceModel:          j.Device.Model,
		ClientName:           j.Device.Client.Name,
		ClientPhone:          j.Device.Client.Phone,
		Cost:                 j.Cost,
		CreatedAt:            j.CreatedAt,
	}
}

func NewJobCardList(jobs []models.JobCard) []JobCardListDTO {
	out := make([]JobCardListDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobCardListDTO(j))
	}
	return out
}
