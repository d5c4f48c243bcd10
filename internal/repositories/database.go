package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/junimomarket/junimo-market/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB *sql.DB
}

// New opens the journal database with tracing instrumentation on every
// statement.
func New(cfg *config.Config) (*Repository, *JournalRepository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	postgresInstance := &Repository{DB: db}
	journalRepo := NewJournalRepository(db)

	return postgresInstance, journalRepo, nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
