package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// MaxReasonLength bounds Justification.Reason.
const MaxReasonLength = 255

// Status is the lifecycle state of a justification.
type Status string

const (
	StatusPending  Status = "PENDIENTE"
	StatusApproved Status = "APROBADA"
	StatusRejected Status = "RECHAZADA"
)

// Label is the localized display value.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusApproved:
		return "Aprobada"
	case StatusRejected:
		return "Rechazada"
	default:
		return string(s)
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo allows only Pending -> Approved and Pending -> Rejected.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// Source identifies the channel a justification was filed through.
type Source string

const (
	SourceApp      Source = "app"
	SourceWhatsApp Source = "whatsapp"
)

// Justification is a request to excuse an absence.
type Justification struct {
	ID                 int64      `json:"id"`
	StudentID          int64      `json:"estudiante_id"`
	StudentUsername    string     `json:"estudiante,omitempty"`
	StartDate          time.Time  `json:"fecha_inicio"`
	EndDate            *time.Time `json:"fecha_fin,omitempty"`
	Reason             string     `json:"motivo"`
	Description        string     `json:"descripcion"`
	Status             Status     `json:"estado"`
	CoordinatorComment string     `json:"comentarios_coordinador"`
	Source             Source     `json:"fuente"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Documents          []Document `json:"documentos,omitempty"`
}

// Decide applies a coordinator verdict. It fails with ErrInvalidTransition unless the
// justification is pending and next is a terminal status.
func (j *Justification) Decide(next Status, comment string, now time.Time) error {
	if !j.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, next)
	}
	j.Status = next
	j.CoordinatorComment = comment
	j.UpdatedAt = now
	return nil
}

// VisibleTo reports whether u may read this justification.
func (j *Justification) VisibleTo(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role.SeesAll() || j.StudentID == u.ID
}

func (j *Justification) String() string {
	return fmt.Sprintf("Justificación #%d - %d - %s", j.ID, j.StudentID, j.Status)
}

// ParseDate parses a YYYY-MM-DD value in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
