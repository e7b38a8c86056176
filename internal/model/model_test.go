package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("ALUMNO")
	assert.Error(t, err)
}

func TestRole_LandingPath(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleCoordinator, "/justificaciones/coordinador"},
		{RoleProfessor, "/justificaciones/profesor"},
		{RoleStudent, "/justificaciones"},
		{RoleAdministrative, "/justificaciones"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.LandingPath())
		})
	}
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleStudent.CanSubmit())
	assert.True(t, RoleAdministrative.CanSubmit())
	assert.False(t, RoleCoordinator.CanSubmit())
	assert.False(t, RoleProfessor.CanSubmit())

	assert.True(t, RoleCoordinator.CanReview())
	assert.False(t, RoleProfessor.CanReview())

	assert.True(t, RoleProfessor.SeesAll())
	assert.True(t, RoleCoordinator.SeesAll())
	assert.False(t, RoleAdministrative.SeesAll())

	assert.True(t, RoleStudent.In(RoleStudent, RoleAdministrative))
	assert.False(t, RoleProfessor.In(RoleStudent, RoleAdministrative))
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
}

func TestJustification_Decide(t *testing.T) {
	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	j := &Justification{ID: 1, Status: StatusPending}

	require.NoError(t, j.Decide(StatusApproved, "OK", now))
	assert.Equal(t, StatusApproved, j.Status)
	assert.Equal(t, "OK", j.CoordinatorComment)
	assert.Equal(t, now, j.UpdatedAt)

	err := j.Decide(StatusRejected, "NO", now.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusApproved, j.Status)
	assert.Equal(t, "OK", j.CoordinatorComment)
}

func TestJustification_VisibleTo(t *testing.T) {
	j := &Justification{StudentID: 7}

	assert.True(t, j.VisibleTo(&User{ID: 7, Role: RoleStudent}))
	assert.False(t, j.VisibleTo(&User{ID: 8, Role: RoleStudent}))
	assert.False(t, j.VisibleTo(&User{ID: 8, Role: RoleAdministrative}))
	assert.True(t, j.VisibleTo(&User{ID: 8, Role: RoleAdministrative, IsSuperuser: true}))
	assert.True(t, j.VisibleTo(&User{ID: 9, Role: RoleProfessor}))
	assert.True(t, j.VisibleTo(&User{ID: 10, Role: RoleCoordinator}))
	assert.False(t, j.VisibleTo(nil))
}

func TestJustification_String(t *testing.T) {
	j := &Justification{ID: 3, StudentID: 4, Status: StatusPending}
	assert.Equal(t, "Justificación #3 - 4 - PENDIENTE", j.String())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Pendiente", StatusPending.Label())
	assert.Equal(t, "Aprobada", StatusApproved.Label())
	assert.Equal(t, "Rechazada", StatusRejected.Label())
}

func TestDocument_Validate(t *testing.T) {
	now := time.Now()

	legible := &Document{}
	legible.Validate(9, now)
	assert.True(t, legible.Legible)
	require.NotNil(t, legible.ValidatedAt)
	assert.Equal(t, now, *legible.ValidatedAt)

	empty := &Document{Legible: true}
	empty.Validate(0, now)
	assert.False(t, empty.Legible)
	assert.NotNil(t, empty.ValidatedAt)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Pérez", (&User{Username: "ana", FirstName: "Ana", LastName: "Pérez"}).DisplayName())
	assert.Equal(t, "alumno", (&User{Username: "alumno"}).DisplayName())
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("archivo", MsgFormatNotAllow)
	v.Add("archivo", "otro")
	v.Add("motivo", MsgRequired)

	err := v.OrNil()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgFormatNotAllow, ve.Fields["archivo"])
	assert.Equal(t, "validation failed: archivo: Formato no permitido; motivo: Este campo es obligatorio.", err.Error())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/01/2025")
	assert.Error(t, err)
}
