package jobcard

import (
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// ===============================
// Validations
// ===============================

// Authorize checks the permission table for (from, actor.Role) → to.
func Authorize(from, to Status, actor Actor) error {
	if CanTransition(from, to, actor.Role) {
		return nil
	}
	return NewInvalidTransition(from, to, actor.Role)
}

func NewInvalidTransition(from, to Status, role Role) error {
	return &httperr.InvalidTransitionError{
		From:    string(from),
		To:      string(to),
		Allowed: statusStrings(AllowedTargets(from, role)),
	}
}

// CheckPreconditions validates the required fields of the target state
// against the job as it would look after the move.
func CheckPreconditions(job *models.JobCard, to Status) error {
	if check, ok := preconditions[to]; ok {
		return check(job)
	}
	return nil
}

// CheckTransition is the whole rule for one move: current status must be
// known, the role must be allowed and the target preconditions must hold.
func CheckTransition(job *models.JobCard, to Status, actor Actor) (Status, error) {
	from, err := ParseStatus(job.Status)
	if err != nil {
		return "", &httperr.InvalidTransitionError{From: job.Status, To: string(to)}
	}

	if err := Authorize(from, to, actor); err != nil {
		return from, err
	}

	if err := CheckPreconditions(job, to); err != nil {
		return from, err
	}

	return from, nil
}

// CanEditDiagnostic checks the state and the role of a diagnostic overwrite.
func CanEditDiagnostic(current Status, actor Actor) error {
	switch actor.Role {
	case RoleTechnician, RoleAdmin, RoleReceptionist:
	default:
		return httperr.ErrValidation(
			"diagnostic_forbidden",
			"role",
			"role "+string(actor.Role)+" cannot edit diagnostics",
		)
	}

	if !current.DiagnosticEditable() {
		return httperr.ErrValidation(
			"diagnostic_locked",
			"diagnostic",
			"diagnostic cannot be edited while the job card is "+string(current),
		)
	}
	return nil
}
