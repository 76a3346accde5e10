package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// MySQLSink is a MySQL-backed append-only history store for deployments
// sharing history across multiple analyzer instances.
type MySQLSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLSink connects to MySQL using the given DSN and ensures the
// history table exists.
func NewMySQLSink(dsn string, logger *zap.Logger) (*MySQLSink, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			source VARCHAR(512),
			analyzed_at DATETIME,
			sender VARCHAR(512),
			label VARCHAR(32),
			level VARCHAR(32),
			action VARCHAR(32),
			confidence DOUBLE,
			model_used VARCHAR(32),
			record MEDIUMTEXT,
			INDEX idx_history_label (label)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &MySQLSink{db: db, logger: logger}, nil
}

// Append records a fully assembled result as one row.
func (s *MySQLSink) Append(ctx context.Context, result *core.AnalysisResult) error {
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
func (s *MySQLSink) LoadAll(ctx context.Context) ([]*core.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM analysis_history ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []*core.AnalysisResult
	for rows.Next() {
		var record sql.RawBytes
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var result core.AnalysisResult
		if err := json.Unmarshal(record, &result); err != nil {
			s.logger.Warn("Skipping undecodable history record", zap.Error(err))
			continue
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// Close closes the database connection.
func (s *MySQLSink) Close() error {
	return s.db.Close()
}
