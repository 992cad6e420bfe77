package kernel

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Role is the platform role an identity acts under. Identities are issued
// elsewhere; the coordinator only reads the role from verified tokens.
type Role string

const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
)

// ParseRole accepts the lower-case role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleClient, RoleCourier:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   UUID
	Role Role
}

func (a Actor) IsCourier() bool {
	return a.Role == RoleCourier
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

func (a Actor) String() string {
	return string(a.Role) + ":" + a.ID.String()
}
