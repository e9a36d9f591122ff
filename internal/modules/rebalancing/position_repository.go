package rebalancing

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PositionRepository handles held-position database operations
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "positions").Logger(),
	}
}

// GetAll returns all held positions
func (r *PositionRepository) GetAll() ([]Position, error) {
	rows, err := r.db.Query(`SELECT symbol, quantity, value FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Upsert inserts or updates a position
func (r *PositionRepository) Upsert(p Position) error {
	_, err := r.db.Exec(`
		INSERT INTO positions (symbol, quantity, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			quantity = excluded.quantity,
			value = excluded.value,
			updated_at = excluded.updated_at`,
		p.Symbol, p.Quantity, p.Value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", p.Symbol, err)
	}
	return nil
}

// Delete removes a position
func (r *PositionRepository) Delete(symbol string) error {
	_, err := r.db.Exec(`DELETE FROM positions WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", symbol, err)
	}
	return nil
}
