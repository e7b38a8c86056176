package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"justifacil/internal/model"
	tracing "justifacil/internal/otel"
	"justifacil/internal/repository"
	"justifacil/internal/storage"
)

var tracer = tracing.Tracer("justifacil/internal/service")

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// DefaultExternalReason is used when the external channel sends no motivo.
const DefaultExternalReason = "Inasistencia reportada por WhatsApp"

// Upload is an attached file as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateInput holds the raw form values of a new justification.
type CreateInput struct {
	StartDate   string
	EndDate     string
	Reason      string
	Description string
	File        *Upload
}

// ExternalInput is the payload of the external ingestion channel.
type ExternalInput struct {
	Username    string `json:"username"`
	Reason      string `json:"motivo"`
	Description string `json:"descripcion"`
	Date        string `json:"fecha"`
}

// JustificationListResult is the service-level DTO for paginated justifications.
type JustificationListResult struct {
	Items []model.Justification `json:"data"`
	Total int                   `json:"total"`
}

// JustificationService defines the absence-justification workflow.
type JustificationService interface {
	// Create files a justification for actor and stores the optional attachment.
	// A failure after the justification row exists removes what was written.
	Create(ctx context.Context, actor *model.User, in CreateInput) (*model.Justification, error)
	// ExternalCreate files a justification on behalf of in.Username.
	ExternalCreate(ctx context.Context, in ExternalInput) (*model.Justification, error)
	Approve(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error)
	Reject(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error)
	// Get returns a justification with its documents if actor may see it.
	Get(ctx context.Context, actor *model.User, id int64) (*model.Justification, error)
	ListOwn(ctx context.Context, actor *model.User) ([]model.Justification, error)
	ListVisible(ctx context.Context, actor *model.User, limit, offset int) (*JustificationListResult, error)
	ListPending(ctx context.Context, actor *model.User) ([]model.Justification, error)
	ListForProfessor(ctx context.Context, actor *model.User, q string) ([]model.Justification, error)
	OpenDocument(ctx context.Context, actor *model.User, documentID int64) (io.ReadCloser, *model.Document, error)
}

// JustificationDeps wires a JustificationService.
type JustificationDeps struct {
	Justifications repository.JustificationRepository
	Documents      repository.DocumentRepository
	Users          repository.UserRepository
	Store          storage.Storage
	Notifier       *Notifier
	Metrics        *Metrics
	Logger         *slog.Logger
	// Prefix is the folder every document is stored under.
	Prefix string
	// MaxNameLength bounds stored object names.
	MaxNameLength int
}

type justificationService struct {
	JustificationDeps
	now func() time.Time
}

// NewJustificationService constructs a new JustificationService.
func NewJustificationService(d JustificationDeps) JustificationService {
	if d.Logger == nil {
		d.Logger = discardLogger()
	}
	d.Prefix = strings.Trim(d.Prefix, "/")
	return &justificationService{JustificationDeps: d, now: time.Now}
}

var allowedExtensions = map[string]bool{".pdf": true, ".png": true}

func validateUpload(f *Upload, v *model.ValidationError) {
	if f == nil {
		return
	}
	if !allowedExtensions[strings.ToLower(path.Ext(f.Filename))] {
		v.Add("archivo", model.MsgFormatNotAllow)
		return
	}
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if ct != "" && ct != "application/pdf" && !strings.HasPrefix(ct, "image/") {
		v.Add("archivo", model.MsgFormatNotAllow)
	}
}

func validateReason(reason string, v *model.ValidationError) {
	switch {
	case reason == "":
		v.Add("motivo", model.MsgRequired)
	case utf8.RuneCountInString(reason) > model.MaxReasonLength:
		v.Add("motivo", model.MsgReasonTooLong)
	}
}

func parseCreateInput(in CreateInput) (*model.Justification, error) {
	v := model.NewValidationError()
	j := &model.Justification{
		Reason:      strings.TrimSpace(in.Reason),
		Description: strings.TrimSpace(in.Description),
	}

	if strings.TrimSpace(in.StartDate) == "" {
		v.Add("fecha_inicio", model.MsgRequired)
	} else if d, err := model.ParseDate(in.StartDate); err != nil {
		v.Add("fecha_inicio", model.MsgInvalidDate)
	} else {
		j.StartDate = d
	}

	if strings.TrimSpace(in.EndDate) != "" {
		d, err := model.ParseDate(in.EndDate)
		switch {
		case err != nil:
			v.Add("fecha_fin", model.MsgInvalidDate)
		case !j.StartDate.IsZero() && d.Before(j.StartDate):
			v.Add("fecha_fin", model.MsgEndBeforeStart)
		default:
			j.EndDate = &d
		}
	}

	validateReason(j.Reason, v)
	validateUpload(in.File, v)

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return j, nil
}

var unsafeNameChars = regexp.MustCompile(`[^-\p{L}\p{N}_.]`)

// storedName turns an uploaded filename into a key under prefix.
func (s *justificationService) storedName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	base = unsafeNameChars.ReplaceAllString(base, "")
	if base == "" || strings.HasPrefix(base, ".") {
		base = "archivo" + base
	}
	if s.Prefix == "" {
		return base
	}
	return s.Prefix + "/" + base
}

func (s *justificationService) Create(ctx context.Context, actor *model.User, in CreateInput) (j *model.Justification, err error) {
	ctx, span := tracer.Start(ctx, "justification.create",
		trace.WithAttributes(attribute.Bool("justification.has_file", in.File != nil)))
	defer func() { endSpan(span, err) }()

	if actor == nil || !actor.Role.CanSubmit() {
		return nil, model.ErrForbidden
	}
	draft, err := parseCreateInput(in)
	if err != nil {
		return nil, err
	}
	draft.StudentID = actor.ID
	draft.Status = model.StatusPending
	draft.Source = model.SourceApp

	j, err = s.Justifications.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create justification: %w", err)
	}
	j.StudentUsername = actor.Username
	span.SetAttributes(attribute.Int64("justification.id", j.ID))

	if in.File != nil {
		doc, err := s.attach(ctx, j, in.File)
		if err != nil {
			return nil, err
		}
		j.Documents = []model.Document{*doc}
	}

	s.Metrics.justificationCreated(j.Source)
	s.Logger.InfoContext(ctx, "justification created",
		slog.Int64("justification_id", j.ID),
		slog.Int64("student_id", j.StudentID),
		slog.String("source", string(j.Source)),
		slog.Int("documents", len(j.Documents)),
	)
	return j, nil
}

// attach stores f, records it and validates it. On failure it deletes the stored
// object (when there is one) and the justification.
func (s *justificationService) attach(ctx context.Context, j *model.Justification, f *Upload) (*model.Document, error) {
	name := s.Store.AvailableName(ctx, s.storedName(f.Filename), s.MaxNameLength)
	stored, err := s.Store.Save(ctx, name, f.Body, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: f.ContentType,
		Metadata:    map[string]string{"original-filename": f.Filename},
	})
	if err != nil {
		s.rollback(ctx, j.ID, "")
		return nil, &StorageError{Op: "save", Err: err}
	}

	doc, err := s.Documents.Create(ctx, &model.Document{JustificationID: j.ID, FilePath: stored})
	if err != nil {
		s.rollback(ctx, j.ID, stored)
		return nil, fmt.Errorf("create document: %w", err)
	}

	doc.Validate(s.Store.Size(ctx, stored), s.now().UTC())
	if err := s.Documents.MarkValidated(ctx, doc.ID, doc.Legible, *doc.ValidatedAt); err != nil {
		s.rollback(ctx, j.ID, stored)
		return nil, fmt.Errorf("validate document: %w", err)
	}
	doc.URL = s.Store.URL(stored)
	return doc, nil
}

func (s *justificationService) rollback(ctx context.Context, justificationID int64, object string) {
	if object != "" {
		if err := s.Store.Delete(ctx, object); err != nil {
			s.Logger.ErrorContext(ctx, "rollback: delete object failed",
				slog.String("object", object), slog.String("error", err.Error()))
		}
	}
	if err := s.Justifications.Delete(ctx, justificationID); err != nil {
		s.Logger.ErrorContext(ctx, "rollback: delete justification failed",
			slog.Int64("justification_id", justificationID), slog.String("error", err.Error()))
	}
}

func (s *justificationService) ExternalCreate(ctx context.Context, in ExternalInput) (*model.Justification, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("username: %w", model.ErrNotFound)
	}
	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	v := model.NewValidationError()
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = DefaultExternalReason
	}
	validateReason(reason, v)
	var start time.Time
	if strings.TrimSpace(in.Date) == "" {
		v.Add("fecha", model.MsgRequired)
	} else if start, err = model.ParseDate(in.Date); err != nil {
		v.Add("fecha", model.MsgInvalidDate)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	j, err := s.Justifications.Create(ctx, &model.Justification{
		StudentID:   user.ID,
		StartDate:   start,
		Reason:      reason,
		Description: in.Description,
		Status:      model.StatusPending,
		Source:      model.SourceWhatsApp,
	})
	if err != nil {
		return nil, fmt.Errorf("create justification: %w", err)
	}
	j.StudentUsername = user.Username

	s.Metrics.justificationCreated(j.Source)
	s.Logger.InfoContext(ctx, "justification received",
		slog.Int64("justification_id", j.ID),
		slog.String("username", user.Username),
		slog.String("source", string(j.Source)),
	)
	return j, nil
}

func (s *justificationService) Approve(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error) {
	return s.decide(ctx, actor, id, model.StatusApproved, comment)
}

func (s *justificationService) Reject(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error) {
	return s.decide(ctx, actor, id, model.StatusRejected, comment)
}

func (s *justificationService) decide(ctx context.Context, actor *model.User, id int64, next model.Status, comment string) (_ *model.Justification, err error) {
	ctx, span := tracer.Start(ctx, "justification.decide", trace.WithAttributes(
		attribute.Int64("justification.id", id),
		attribute.String("justification.status", string(next)),
	))
	defer func() { endSpan(span, err) }()

	if actor == nil || !actor.Role.CanReview() {
		return nil, model.ErrForbidden
	}
	j, err := s.Justifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := j.Decide(next, comment, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.Justifications.UpdateStatus(ctx, j.ID, j.Status, j.CoordinatorComment, j.UpdatedAt); err != nil {
		return nil, err
	}
	s.Metrics.transitioned(j.Status)
	s.Logger.InfoContext(ctx, "justification decided",
		slog.Int64("justification_id", j.ID),
		slog.String("status", string(j.Status)),
		slog.Int64("coordinator_id", actor.ID),
	)

	owner, err := s.Users.FindByID(ctx, j.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if _, err := s.Notifier.StatusChanged(ctx, j, owner); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *justificationService) Get(ctx context.Context, actor *model.User, id int64) (*model.Justification, error) {
	j, err := s.Justifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !j.VisibleTo(actor) {
		return nil, model.ErrForbidden
	}
	docs, err := s.Documents.ListByJustification(ctx, j.ID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for i := range docs {
		docs[i].URL = s.Store.URL(docs[i].FilePath)
	}
	j.Documents = docs
	return j, nil
}

func (s *justificationService) list(ctx context.Context, f repository.JustificationFilter) ([]model.Justification, error) {
	res, err := s.Justifications.List(ctx, f, repository.PageQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// ListOwn returns actor's justifications, newest first.
func (s *justificationService) ListOwn(ctx context.Context, actor *model.User) ([]model.Justification, error) {
	if actor == nil {
		return nil, model.ErrForbidden
	}
	return s.list(ctx, repository.JustificationFilter{StudentID: actor.ID})
}

// ListVisible pages through every justification for reviewers and through the
// actor's own for everyone else.
func (s *justificationService) ListVisible(ctx context.Context, actor *model.User, limit, offset int) (*JustificationListResult, error) {
	if actor == nil {
		return nil, model.ErrForbidden
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	var f repository.JustificationFilter
	if !actor.Role.SeesAll() {
		f.StudentID = actor.ID
	}
	res, err := s.Justifications.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &JustificationListResult{Items: res.Items, Total: res.Total}, nil
}

// ListPending is the coordinator queue, oldest first.
func (s *justificationService) ListPending(ctx context.Context, actor *model.User) ([]model.Justification, error) {
	if actor == nil || !actor.Role.CanReview() {
		return nil, model.ErrForbidden
	}
	return s.list(ctx, repository.JustificationFilter{Status: model.StatusPending, OldestFirst: true})
}

// ListForProfessor returns every justification, optionally filtered by a username substring.
func (s *justificationService) ListForProfessor(ctx context.Context, actor *model.User, q string) ([]model.Justification, error) {
	if actor == nil || actor.Role != model.RoleProfessor {
		return nil, model.ErrForbidden
	}
	return s.list(ctx, repository.JustificationFilter{UsernameContains: strings.TrimSpace(q)})
}

func (s *justificationService) OpenDocument(ctx context.Context, actor *model.User, documentID int64) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	j, err := s.Justifications.FindByID(ctx, doc.JustificationID)
	if err != nil {
		return nil, nil, err
	}
	if !j.VisibleTo(actor) {
		return nil, nil, model.ErrForbidden
	}
	rc, err := s.Store.Open(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("document file %q: %w", doc.FilePath, model.ErrNotFound)
		}
		return nil, nil, &StorageError{Op: "open", Err: err}
	}
	doc.URL = s.Store.URL(doc.FilePath)
	return rc, doc, nil
}
