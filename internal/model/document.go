package model

import "time"

// Document is a file attached to a Justification. FilePath is the object name in storage.
type Document struct {
	ID              int64      `json:"id"`
	JustificationID int64      `json:"justificacion_id"`
	FilePath        string     `json:"archivo"`
	URL             string     `json:"url,omitempty"`
	Legible         bool       `json:"legible"`
	ValidatedAt     *time.Time `json:"validado_en"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Validate is the stub legibility check: any stored upload of at least one byte is legible.
// Legible and ValidatedAt are always set together.
func (d *Document) Validate(storedSize int64, now time.Time) {
	d.Legible = storedSize >= 1
	d.ValidatedAt = &now
}
