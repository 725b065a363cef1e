package jobcard

import (
	"strings"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

// ===============================
// Job Card Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPricing   Status = "pricing"
	StatusCompleted Status = "completed"
)

var allStatuses = []Status{
	StatusPending,
	StatusAssigned,
	StatusApproved,
	StatusRejected,
	StatusPricing,
	StatusCompleted,
}

// ParseStatus aceita qualquer caixa ("Pending", "PENDING", "pending").
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range allStatuses {
		if s == known {
			return s, nil
		}
	}
	return "", httperr.ErrValidation("invalid_status", "status", "unknown job card status "+raw)
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// InitialStatus depende do caminho de entrada: com técnico já escolhido
// o job nasce em assigned.
func InitialStatus(technicianID *uint) Status {
	if technicianID != nil {
		return StatusAssigned
	}
	return StatusPending
}

// DiagnosticEditable lists the states in which the diagnostic text may be overwritten.
func DiagnosticEditable() []Status {
	return []Status{StatusAssigned, StatusPending, StatusApproved}
}

func (s Status) DiagnosticEditable() bool {
	for _, e := range DiagnosticEditable() {
		if s == e {
			return true
		}
	}
	return false
}

func statusStrings(in []Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
