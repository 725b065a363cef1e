package jobcard

import (
	"strings"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

type Role string

const (
	RoleReceptionist Role = "receptionist"
	RoleTechnician   Role = "technician"
	RoleAdmin        Role = "admin"
	RolePricing      Role = "pricing"
)

func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleReceptionist, RoleTechnician, RoleAdmin, RolePricing:
		return r, nil
	}
	return "", httperr.ErrValidation("invalid_role", "role", "unknown staff role "+raw)
}

// Actor identifies who is calling the workflow. It is built from the
// authenticated request and passed explicitly into every operation.
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) Validate() error {
	if a.UserID == 0 {
		return httperr.ErrRequired("actor")
	}
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}
