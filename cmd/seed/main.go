// Command seed creates the initial accounts and, optionally, demo justifications.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"justifacil/internal/config"
	"justifacil/internal/database"
	"justifacil/internal/database/migration"
	"justifacil/internal/repository/postgres"
	"justifacil/internal/seed"
	"justifacil/internal/service"
)

func main() {
	students := flag.Int("students", 0, "Number of fake students to generate (0 = initial accounts only)")
	perStudent := flag.Int("per-student", 3, "Justifications per fake student")
	daysBack := flag.Int("days-back", 60, "Spread generated absences over this many past days")
	decideEvery := flag.Int("decide-every", 3, "Approve or reject every Nth generated justification (0 = leave all pending)")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated data")
	flag.Parse()

	cfg := config.Load()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	s := seed.NewSeeder(postgres.NewUserPostgres(db), postgres.NewJustificationPostgres(db), service.NewLogger(os.Stdout))

	if _, err := s.EnsureAccounts(ctx, seed.InitialAccounts); err != nil {
		log.Fatalf("initial accounts: %v", err)
	}
	if *students > 0 {
		if _, err := s.Demo(ctx, seed.Options{
			Students:       *students,
			PerStudent:     *perStudent,
			MaxDaysBack:    *daysBack,
			RandSeed:       *randSeed,
			DecideEveryNth: *decideEvery,
		}); err != nil {
			log.Fatalf("demo data: %v", err)
		}
	}
}
