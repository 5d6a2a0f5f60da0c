package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"promptdeck/internal/domain"
)

// SQLiteSelectionLog implements domain.SelectionRecorder using SQLite.
type SQLiteSelectionLog struct {
	db *sql.DB
}

// NewSQLiteSelectionLog opens (or creates) a SQLite database at dbPath
// and runs the schema migration.
func NewSQLiteSelectionLog(dbPath string) (*SQLiteSelectionLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &SQLiteSelectionLog{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS selections (
			id               TEXT PRIMARY KEY,
			agent_id         TEXT NOT NULL,
			requested_budget INTEGER NOT NULL,
			tier             TEXT NOT NULL,
			tokens           INTEGER NOT NULL,
			reduction        REAL NOT NULL,
			created_at       TEXT NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteSelectionLog) Close() error {
	return s.db.Close()
}

// Record inserts one resolution audit entry.
func (s *SQLiteSelectionLog) Record(ctx context.Context, rec domain.SelectionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO selections (id, agent_id, requested_budget, tier, tokens, reduction, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.AgentID, rec.RequestedBudget, string(rec.Tier), rec.Tokens, rec.Reduction,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.NewDomainError("Audit.Record", domain.ErrAuditWrite, err.Error())
	}
	return nil
}

// Recent returns up to limit records, most recent first.
func (s *SQLiteSelectionLog) Recent(ctx context.Context, limit int) ([]domain.SelectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, agent_id, requested_budget, tier, tokens, reduction, created_at FROM selections ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var recs []domain.SelectionRecord
	for rows.Next() {
		var rec domain.SelectionRecord
		var tier, createdAt string
		if err := rows.Scan(&rec.ID, &rec.AgentID, &rec.RequestedBudget, &tier, &rec.Tokens, &rec.Reduction, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		rec.Tier = domain.Tier(tier)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
