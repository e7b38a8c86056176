package model

import "fmt"

// Role is the closed set of user roles. Every switch over Role must handle all four values.
type Role string

const (
	RoleStudent        Role = "ESTUDIANTE"
	RoleProfessor      Role = "PROFESOR"
	RoleCoordinator    Role = "COORDINADOR"
	RoleAdministrative Role = "ADMINISTRATIVO"
)

// Landing pages per role.
const (
	StudentQueuePath     = "/justificaciones"
	ProfessorQueuePath   = "/justificaciones/profesor"
	CoordinatorQueuePath = "/justificaciones/coordinador"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleProfessor, RoleCoordinator, RoleAdministrative}

// ParseRole converts a stored or user-supplied value into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleProfessor, RoleCoordinator, RoleAdministrative:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Label is the human readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Estudiante"
	case RoleProfessor:
		return "Profesor"
	case RoleCoordinator:
		return "Coordinador"
	case RoleAdministrative:
		return "Administrativo"
	default:
		return string(r)
	}
}

// LandingPath is where a user of this role is sent after login or after a denied request.
func (r Role) LandingPath() string {
	switch r {
	case RoleCoordinator:
		return CoordinatorQueuePath
	case RoleProfessor:
		return ProfessorQueuePath
	case RoleStudent, RoleAdministrative:
		return StudentQueuePath
	default:
		return StudentQueuePath
	}
}

// CanSubmit reports whether the role may file justifications through the app.
func (r Role) CanSubmit() bool {
	switch r {
	case RoleStudent, RoleAdministrative:
		return true
	case RoleProfessor, RoleCoordinator:
		return false
	default:
		return false
	}
}

// CanReview reports whether the role may approve or reject justifications.
func (r Role) CanReview() bool {
	switch r {
	case RoleCoordinator:
		return true
	case RoleStudent, RoleProfessor, RoleAdministrative:
		return false
	default:
		return false
	}
}

// SeesAll reports whether the role may browse every justification, not only its own.
func (r Role) SeesAll() bool {
	switch r {
	case RoleCoordinator, RoleProfessor:
		return true
	case RoleStudent, RoleAdministrative:
		return false
	default:
		return false
	}
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}
