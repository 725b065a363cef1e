package staff

import (
	"strings"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
	"github.com/BruksfildServices01/repair-jobcards/internal/validators"
)

const MinPasswordLength = 8

// CanRegister: só admin cadastra funcionários.
func CanRegister(actor jobcard.Actor) error {
	if actor.Role != jobcard.RoleAdmin {
		return httperr.ErrValidation("staff_forbidden", "role", "only admin can register staff")
	}
	return nil
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r Registration) Validate() (jobcard.Role, error) {
	if strings.TrimSpace(r.Name) == "" {
		return "", httperr.ErrRequired("name")
	}
	if !validators.IsEmailValid(strings.ToLower(strings.TrimSpace(r.Email))) {
		return "", httperr.ErrValidation("invalid_email", "email", "invalid email")
	}
	if len(r.Password) < MinPasswordLength {
		return "", httperr.ErrValidation("weak_password", "password", "password must have at least 8 characters")
	}
	return jobcard.ParseRole(r.Role)
}

// IsTechnician is the check CreateJobCard runs on a pre-selected technician.
func IsTechnician(u *models.User) bool {
	return u != nil && jobcard.Role(u.Role) == jobcard.RoleTechnician
}
