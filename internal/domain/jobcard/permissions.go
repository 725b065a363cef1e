package jobcard

import (
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// ===============================
// Permission table
// ===============================

type permissionKey struct {
	from Status
	role Role
}

// Tudo que não está aqui é proibido. Estados terminais não têm entradas.
var permissions = map[permissionKey][]Status{
	{StatusAssigned, RoleTechnician}: {StatusPending},

	{StatusPending, RoleAdmin}:        {StatusApproved, StatusRejected},
	{StatusPending, RoleReceptionist}: {StatusApproved, StatusRejected},

	{StatusApproved, RoleTechnician}: {StatusPricing},

	{StatusPricing, RolePricing}: {StatusCompleted},
	{StatusPricing, RoleAdmin}:   {StatusCompleted},
}

// AllowedTargets returns the states the role may move a job to from the given state.
func AllowedTargets(from Status, role Role) []Status {
	targets := permissions[permissionKey{from, role}]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

func CanTransition(from, to Status, role Role) bool {
	for _, t := range permissions[permissionKey{from, role}] {
		if t == to {
			return true
		}
	}
	return false
}

// ===============================
// Preconditions
// ===============================

type precondition func(job *models.JobCard) error

var preconditions = map[Status]precondition{
	StatusPending:   requireDiagnostic,
	StatusPricing:   requireDiagnostic,
	StatusCompleted: requireCost,
}

func requireDiagnostic(job *models.JobCard) error {
	if !job.HasDiagnostic() {
		return httperr.ErrValidation(
			"diagnostic_required",
			"diagnostic",
			"a diagnostic is required before this transition",
		)
	}
	return nil
}

// O custo só existe depois que a fatura foi gerada (FinalizeInvoice).
func requireCost(job *models.JobCard) error {
	if !job.Cost.Valid {
		return httperr.ErrValidation(
			"invoice_required",
			"cost",
			"a job card is completed only by finalizing its invoice",
		)
	}
	return nil
}

// RequiresDiagnostic reports whether moving into the target needs a diagnostic.
func RequiresDiagnostic(to Status) bool {
	return to == StatusPending || to == StatusPricing
}
