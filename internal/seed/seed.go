// Package seed populates the calc_constants table with the default
// calibration set on startup, without overwriting operator-tuned rows.
package seed

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/gridform/quotecore/internal/constants"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: every default constant
// missing from the store is inserted; existing rows are left untouched so
// tuned values survive restarts.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	if err := ensureConstants(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

func ensureConstants(tx *sql.Tx, stats *Stats) error {
	rows := constants.Defaults().Rows()

	// Stable order keeps the inserts deterministic across runs.
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res, err := tx.Exec(`
			INSERT INTO calc_constants (name, value)
			VALUES (?, ?)
			ON CONFLICT(name) DO NOTHING
		`, name, rows[name])
		if err != nil {
			return fmt.Errorf("insert constant %s: %w", name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("count constant insert %s: %w", name, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}
