// Package seed creates the initial accounts and optional demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"justifacil/internal/auth"
	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// Account is a user created on first start.
type Account struct {
	Username  string
	Email     string
	FirstName string
	Role      model.Role
	Superuser bool
	Password  string
}

// InitialAccounts are the accounts every fresh installation gets.
var InitialAccounts = []Account{
	{Username: "admin", Email: "admin@example.com", FirstName: "Admin", Role: model.RoleAdministrative, Superuser: true, Password: "adminpass123"},
	{Username: "coordinador", Email: "coord@example.com", FirstName: "Coord", Role: model.RoleCoordinator, Password: "coordpass123"},
	{Username: "profesor1", Email: "prof1@example.com", FirstName: "Profesor", Role: model.RoleProfessor, Password: "profpass123"},
	{Username: "estudiante1", Email: "est1@example.com", FirstName: "Estudiante", Role: model.RoleStudent, Password: "estpass123"},
}

// DemoPassword is the password of every generated student.
const DemoPassword = "password123"

// Options sizes the demo data set.
type Options struct {
	Students       int
	PerStudent     int
	MaxDaysBack    int
	RandSeed       int64
	DecideEveryNth int
}

var reasons = []string{
	"Enfermedad",
	"Control médico",
	"Trámite familiar",
	"Duelo",
	"Actividad deportiva",
	"Problema de transporte",
}

// Seeder writes seed data through the repositories.
type Seeder struct {
	users          repository.UserRepository
	justifications repository.JustificationRepository
	logger         *slog.Logger
	hash           func(string) (string, error)
	now            func() time.Time
}

// NewSeeder returns a Seeder. logger may be nil.
func NewSeeder(users repository.UserRepository, justifications repository.JustificationRepository, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:          users,
		justifications: justifications,
		logger:         logger,
		hash:           auth.HashPassword,
		now:            time.Now,
	}
}

// EnsureAccounts creates the accounts that do not exist yet and returns how many it created.
func (s *Seeder) EnsureAccounts(ctx context.Context, accounts []Account) (int, error) {
	created := 0
	for _, a := range accounts {
		_, err := s.users.FindByUsername(ctx, a.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return created, fmt.Errorf("lookup %s: %w", a.Username, err)
		}

		hash, err := s.hash(a.Password)
		if err != nil {
			return created, err
		}
		if _, err := s.users.Create(ctx, &model.User{
			Username:     a.Username,
			Email:        a.Email,
			FirstName:    a.FirstName,
			PasswordHash: hash,
			Role:         a.Role,
			IsSuperuser:  a.Superuser,
			IsActive:     true,
		}); err != nil {
			return created, fmt.Errorf("create %s: %w", a.Username, err)
		}
		created++
		s.logger.InfoContext(ctx, "account created", slog.String("username", a.Username), slog.String("role", string(a.Role)))
	}
	return created, nil
}

// Demo generates fake students with justifications. Every DecideEveryNth
// justification is approved or rejected by alternation.
func (s *Seeder) Demo(ctx context.Context, opts Options) ([]model.Justification, error) {
	if opts.MaxDaysBack <= 0 {
		opts.MaxDaysBack = 60
	}
	faker := gofakeit.New(opts.RandSeed)

	hash, err := s.hash(DemoPassword)
	if err != nil {
		return nil, err
	}

	var out []model.Justification
	n := 0
	for i := 0; i < opts.Students; i++ {
		first, last := faker.FirstName(), faker.LastName()
		u, err := s.users.Create(ctx, &model.User{
			Username:     fmt.Sprintf("%s%d", faker.Username(), faker.Number(100, 999)),
			Email:        faker.Email(),
			FirstName:    first,
			LastName:     last,
			PasswordHash: hash,
			Role:         model.RoleStudent,
			IsActive:     true,
		})
		if err != nil {
			return out, fmt.Errorf("create student: %w", err)
		}

		for k := 0; k < opts.PerStudent; k++ {
			start := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -faker.Number(1, opts.MaxDaysBack))
			end := start.AddDate(0, 0, faker.Number(0, 3))
			source := model.SourceApp
			if faker.Bool() {
				source = model.SourceWhatsApp
			}

			j, err := s.justifications.Create(ctx, &model.Justification{
				StudentID:   u.ID,
				StartDate:   start,
				EndDate:     &end,
				Reason:      faker.RandomString(reasons),
				Description: faker.Sentence(12),
				Status:      model.StatusPending,
				Source:      source,
			})
			if err != nil {
				return out, fmt.Errorf("create justification: %w", err)
			}
			n++

			if opts.DecideEveryNth > 0 && n%opts.DecideEveryNth == 0 {
				next := model.StatusApproved
				if (n/opts.DecideEveryNth)%2 == 0 {
					next = model.StatusRejected
				}
				if err := j.Decide(next, faker.Sentence(6), s.now().UTC()); err != nil {
					return out, err
				}
				if err := s.justifications.UpdateStatus(ctx, j.ID, j.Status, j.CoordinatorComment, j.UpdatedAt); err != nil {
					return out, fmt.Errorf("decide justification: %w", err)
				}
			}
			out = append(out, *j)
		}
	}
	s.logger.InfoContext(ctx, "demo data created", slog.Int("students", opts.Students), slog.Int("justifications", len(out)))
	return out, nil
}
