package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// SQLiteSink is a SQLite-backed append-only history store. Each result
// is one row; the full record is kept as JSON alongside indexed columns
// for the fields the statistics queries need.
type SQLiteSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteSink opens (creating if needed) the history database at
// dbPath.
func NewSQLiteSink(dbPath string, logger *zap.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT,
			analyzed_at TIMESTAMP,
			sender TEXT,
			label TEXT,
			level TEXT,
			action TEXT,
			confidence REAL,
			model_used TEXT,
			record TEXT
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_label ON analysis_history(label)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history index: %w", err)
	}

	return &SQLiteSink{db: db, logger: logger}, nil
}

// Append records a fully assembled result as one row.
func (s *SQLiteSink) Append(ctx context.Context, result *core.AnalysisResult) error {
	record, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_history
			(source, analyzed_at, sender, label, level, action, confidence, model_used, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Source,
		result.AnalyzedAt,
		result.Message.Sender,
		string(result.Classification.Label),
		string(result.Classification.Level),
		string(result.Classification.Action),
		result.Confidence,
		result.ModelUsed,
		string(record),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history row: %w", err)
	}
	return nil
}

// LoadAll returns every recorded result in append order.
func (s *SQLiteSink) LoadAll(ctx context.Context) ([]*core.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM analysis_history ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []*core.AnalysisResult
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var result core.AnalysisResult
		if err := json.Unmarshal([]byte(record), &result); err != nil {
			s.logger.Warn("Skipping undecodable history record", zap.Error(err))
			continue
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
