package indicators

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles indicator database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new indicator repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "indicators").Logger(),
	}
}

// GetSnapshot loads the full indicator universe with histories
func (r *Repository) GetSnapshot() (Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT key, name, theme, temporal, weight, inverted,
		       current_value, pct_min, pct_33, pct_67, pct_max
		FROM indicators ORDER BY theme, key`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query indicators: %w", err)
	}
	defer rows.Close()

	var snapshot Snapshot
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan indicator: %w", err)
		}
		snapshot.Indicators = append(snapshot.Indicators, ind)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("indicator rows: %w", err)
	}

	for i := range snapshot.Indicators {
		history, err := r.getHistory(snapshot.Indicators[i].Key)
		if err != nil {
			return Snapshot{}, err
		}
		snapshot.Indicators[i].History = history
	}

	return snapshot, nil
}

// GetByKey returns a single indicator with history, or nil if not found
func (r *Repository) GetByKey(key string) (*Indicator, error) {
	rows, err := r.db.Query(`
		SELECT key, name, theme, temporal, weight, inverted,
		       current_value, pct_min, pct_33, pct_67, pct_max
		FROM indicators WHERE key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicator: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	ind, err := scanIndicator(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan indicator: %w", err)
	}

	// Release the connection before getHistory queries again; with the
	// single-connection in-memory database an open cursor would deadlock
	rows.Close()

	history, err := r.getHistory(key)
	if err != nil {
		return nil, err
	}
	ind.History = history

	return &ind, nil
}

// Upsert inserts or replaces an indicator definition and its history
func (r *Repository) Upsert(ind Indicator) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentValue interface{}
	if ind.CurrentValue != nil {
		currentValue = *ind.CurrentValue
	}

	var pMin, p33, p67, pMax interface{}
	if ind.Percentiles != nil {
		pMin = ind.Percentiles.Min
		p33 = ind.Percentiles.P33
		p67 = ind.Percentiles.P67
		pMax = ind.Percentiles.Max
	}

	_, err = tx.Exec(`
		INSERT INTO indicators (key, name, theme, temporal, weight, inverted,
			current_value, pct_min, pct_33, pct_67, pct_max, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			theme = excluded.theme,
			temporal = excluded.temporal,
			weight = excluded.weight,
			inverted = excluded.inverted,
			current_value = excluded.current_value,
			pct_min = excluded.pct_min,
			pct_33 = excluded.pct_33,
			pct_67 = excluded.pct_67,
			pct_max = excluded.pct_max,
			updated_at = excluded.updated_at`,
		ind.Key, ind.Name, string(ind.Theme), string(ind.Temporal), ind.Weight,
		boolToInt(ind.Inverted), currentValue, pMin, p33, p67, pMax,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert indicator %s: %w", ind.Key, err)
	}

	if _, err := tx.Exec(`DELETE FROM indicator_history WHERE indicator_key = ?`, ind.Key); err != nil {
		return fmt.Errorf("failed to clear history for %s: %w", ind.Key, err)
	}
	for i, v := range ind.History {
		if _, err := tx.Exec(`
			INSERT INTO indicator_history (indicator_key, position, value)
			VALUES (?, ?, ?)`, ind.Key, i, v); err != nil {
			return fmt.Errorf("failed to insert history for %s: %w", ind.Key, err)
		}
	}

	return tx.Commit()
}

// UpdateValue sets an indicator's current value, optionally appending it to
// the history series
func (r *Repository) UpdateValue(key string, value float64, appendToHistory bool) error {
	result, err := r.db.Exec(`
		UPDATE indicators SET current_value = ?, updated_at = ? WHERE key = ?`,
		value, time.Now().UTC().Format(time.RFC3339), key)
	if err != nil {
		return fmt.Errorf("failed to update value for %s: %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("indicator %s not found", key)
	}

	if appendToHistory {
		_, err = r.db.Exec(`
			INSERT INTO indicator_history (indicator_key, position, value)
			SELECT ?, COALESCE(MAX(position), -1) + 1, ?
			FROM indicator_history WHERE indicator_key = ?`, key, value, key)
		if err != nil {
			return fmt.Errorf("failed to append history for %s: %w", key, err)
		}
	}

	return nil
}

// Count returns the number of stored indicators
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM indicators`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count indicators: %w", err)
	}
	return count, nil
}

func (r *Repository) getHistory(key string) ([]float64, error) {
	rows, err := r.db.Query(`
		SELECT value FROM indicator_history
		WHERE indicator_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", key, err)
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan history for %s: %w", key, err)
		}
		history = append(history, v)
	}
	return history, rows.Err()
}

func scanIndicator(rows *sql.Rows) (Indicator, error) {
	var (
		ind          Indicator
		theme        string
		temporal     string
		inverted     int
		currentValue sql.NullFloat64
		pMin, p33    sql.NullFloat64
		p67, pMax    sql.NullFloat64
	)

	err := rows.Scan(&ind.Key, &ind.Name, &theme, &temporal, &ind.Weight,
		&inverted, &currentValue, &pMin, &p33, &p67, &pMax)
	if err != nil {
		return Indicator{}, err
	}

	ind.Theme = Theme(theme)
	ind.Temporal = Temporal(temporal)
	ind.Inverted = inverted != 0
	if currentValue.Valid {
		v := currentValue.Float64
		ind.CurrentValue = &v
	}
	if pMin.Valid && p33.Valid && p67.Valid && pMax.Valid {
		ind.Percentiles = &Percentiles{
			Min: pMin.Float64,
			P33: p33.Float64,
			P67: p67.Float64,
			Max: pMax.Float64,
		}
	}

	return ind, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
