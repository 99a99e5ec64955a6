package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"endicode-workers/internal/common/database"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrDatabaseConnection = errors.New("DATABASE_CONNECTION_FAILED")
	ErrDatabaseInsert     = errors.New("DATABASE_INSERT_FAILED")
	ErrQueryExecution     = errors.New("QUERY_EXECUTION_FAILED")
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		company    TEXT,
		website    TEXT,
		budget     TEXT,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at DESC)`,
}

const (
	insertContactQuery = `INSERT INTO contacts (name, email, company, website, budget, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	listContactsQuery = `SELECT id, name, email, company, website, budget, message, created_at, updated_at
		FROM contacts
		ORDER BY created_at DESC, id DESC`
)

// contactRow is the scan target for listContactsQuery.
type contactRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Company   sql.NullString `db:"company"`
	Website   sql.NullString `db:"website"`
	Budget    sql.NullString `db:"budget"`
	Message   string         `db:"message"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r contactRow) contact() Contact {
	return Contact{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   fromNull(r.Company),
		Website:   fromNull(r.Website),
		Budget:    fromNull(r.Budget),
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Store persists contacts in Postgres.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

// EnsureSchema creates the contacts table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := database.Migrate(ctx, s.db.DB, schemaStatements...); err != nil {
		return classify(ErrDatabaseInsert, err)
	}
	return nil
}

// Create inserts sub, which must already be validated.
func (s *Store) Create(ctx context.Context, sub Submission) (*Contact, error) {
	c := &Contact{
		Name:    sub.Name,
		Email:   sub.Email,
		Company: nullable(sub.Company),
		Website: nullable(sub.Website),
		Budget:  nullable(sub.Budget),
		Message: sub.Message,
	}
	err := s.db.QueryRowContext(ctx, insertContactQuery,
		c.Name, c.Email, c.Company, c.Website, c.Budget, c.Message,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, classify(ErrDatabaseInsert, err)
	}
	return c, nil
}

// List returns every contact, newest first.
func (s *Store) List(ctx context.Context) ([]Contact, error) {
	var rows []contactRow
	if err := s.db.SelectContext(ctx, &rows, listContactsQuery); err != nil {
		return nil, classify(ErrQueryExecution, err)
	}

	contacts := make([]Contact, 0, len(rows))
	for _, r := range rows {
		contacts = append(contacts, r.contact())
	}
	return contacts, nil
}

// classify reports Postgres connection-class failures (SQLSTATE 08xxx) and a
// closed pool as connection errors; everything else keeps fallback.
func classify(fallback, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
