package themes

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/indicators"
)

// HistoryRepository persists reconstructed theme value series for display
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a new theme history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "theme_history").Logger(),
	}
}

// ReplaceSeries replaces the stored series for a theme
func (r *HistoryRepository) ReplaceSeries(theme indicators.Theme, series []float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM theme_history WHERE theme = ?`, string(theme)); err != nil {
		return fmt.Errorf("failed to clear theme history: %w", err)
	}

	for i, v := range series {
		if _, err := tx.Exec(`
			INSERT INTO theme_history (theme, position, value)
			VALUES (?, ?, ?)`, string(theme), i, v); err != nil {
			return fmt.Errorf("failed to insert theme history: %w", err)
		}
	}

	return tx.Commit()
}

// GetSeries returns the stored series for a theme, oldest first
func (r *HistoryRepository) GetSeries(theme indicators.Theme) ([]float64, error) {
	rows, err := r.db.Query(`
		SELECT value FROM theme_history WHERE theme = ? ORDER BY position`, string(theme))
	if err != nil {
		return nil, fmt.Errorf("failed to query theme history: %w", err)
	}
	defer rows.Close()

	var series []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan theme history: %w", err)
		}
		series = append(series, v)
	}
	return series, rows.Err()
}
