package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// sentinelTable is created last among the tables; its presence means the schema is complete.
const sentinelTable = "public.notifications"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL   PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  email         TEXT        NOT NULL DEFAULT '',
  first_name    TEXT        NOT NULL DEFAULT '',
  last_name     TEXT        NOT NULL DEFAULT '',
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'ESTUDIANTE'
                CHECK (role IN ('ESTUDIANTE', 'PROFESOR', 'COORDINADOR', 'ADMINISTRATIVO')),
  is_superuser  BOOLEAN     NOT NULL DEFAULT false,
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_justifications",
		SQL: `CREATE TABLE IF NOT EXISTS justifications (
  id                  BIGSERIAL    PRIMARY KEY,
  student_id          BIGINT       NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  start_date          DATE         NOT NULL,
  end_date            DATE         NULL CHECK (end_date IS NULL OR end_date >= start_date),
  reason              VARCHAR(255) NOT NULL,
  description         TEXT         NOT NULL DEFAULT '',
  status              TEXT         NOT NULL DEFAULT 'PENDIENTE'
                      CHECK (status IN ('PENDIENTE', 'APROBADA', 'RECHAZADA')),
  coordinator_comment TEXT         NOT NULL DEFAULT '',
  source              TEXT         NOT NULL DEFAULT 'app' CHECK (source IN ('app', 'whatsapp')),
  created_at          TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_justifications_student_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_justifications_student_id ON justifications (student_id);`,
	},
	{
		Name: "create_index_justifications_status_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_justifications_status_created_at ON justifications (status, created_at);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id               BIGSERIAL   PRIMARY KEY,
  justification_id BIGINT      NOT NULL REFERENCES justifications (id) ON DELETE CASCADE,
  file_path        TEXT        NOT NULL,
  legible          BOOLEAN     NOT NULL DEFAULT false,
  validated_at     TIMESTAMPTZ NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_justification_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_justification_id ON documents (justification_id);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id           BIGSERIAL   PRIMARY KEY,
  recipient_id BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  message      TEXT        NOT NULL,
  channel      TEXT        NOT NULL DEFAULT 'email' CHECK (channel IN ('email', 'app', 'sms')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notifications_recipient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications (recipient_id, created_at DESC);`,
	},
}

// EnsureMigrated runs every step unless the sentinel table already exists.
// Steps are idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('" + sentinelTable + "') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
