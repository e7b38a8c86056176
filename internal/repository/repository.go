// Package repository contains data access abstractions.
// Implementations live in subpackages (postgres) and hold no business rules.
package repository

import (
	"context"
	"time"

	"justifacil/internal/model"
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

// UserRepository reads and writes accounts. Role views are filtered queries on the same table.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	// FindByID and FindByUsername return model.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}

// JustificationFilter narrows List queries. Zero values mean "no filter".
type JustificationFilter struct {
	StudentID int64
	Status    model.Status
	// UsernameContains matches the owner's username case-insensitively.
	UsernameContains string
	// OldestFirst orders by created_at ascending instead of newest first.
	OldestFirst bool
}

// JustificationRepository persists justifications.
type JustificationRepository interface {
	Create(ctx context.Context, j *model.Justification) (*model.Justification, error)
	FindByID(ctx context.Context, id int64) (*model.Justification, error)
	List(ctx context.Context, f JustificationFilter, pq PageQuery) (*PageResult[model.Justification], error)
	// UpdateStatus moves a pending justification to status. It returns
	// model.ErrInvalidTransition when the row is no longer pending and
	// model.ErrNotFound when it does not exist.
	UpdateStatus(ctx context.Context, id int64, status model.Status, comment string, at time.Time) error
	// Delete is only used to undo a failed creation.
	Delete(ctx context.Context, id int64) error
}

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) (*model.Document, error)
	FindByID(ctx context.Context, id int64) (*model.Document, error)
	ListByJustification(ctx context.Context, justificationID int64) ([]model.Document, error)
	// MarkValidated writes legible and validated_at in one statement.
	MarkValidated(ctx context.Context, id int64, legible bool, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository is append-only.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error)
}
