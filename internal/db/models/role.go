package models

import "fmt"

// Role is the collaboration role a user acts under. Every permission
// decision dispatches on this type rather than comparing raw strings.
type Role string

const (
	RoleLawyer     Role = "lawyer"
	RoleClient     Role = "client"
	RoleGovernment Role = "government"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleLawyer, RoleClient, RoleGovernment:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
