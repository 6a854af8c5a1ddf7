package constants

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// StoreProvider reads the calc_constants table and overlays the rows onto the
// default set. Any store failure falls back to the last successfully loaded
// set, or to Defaults when nothing has loaded yet; the error is returned
// alongside the fallback so the caller can decide whether to log it.
type StoreProvider struct {
	db *sql.DB

	mu   sync.Mutex
	last *Constants
}

// NewStoreProvider wraps db as a constants source.
func NewStoreProvider(db *sql.DB) *StoreProvider {
	return &StoreProvider{db: db}
}

// Constants loads the current calibration set. The returned Constants is
// always usable, even when err is non-nil.
func (p *StoreProvider) Constants(ctx context.Context) (Constants, error) {
	c := Defaults()

	rows, err := p.db.QueryContext(ctx, `SELECT name, value FROM calc_constants`)
	if err != nil {
		return p.fallback(), fmt.Errorf("query calc_constants: %w", err)
	}
	defer rows.Close()

	index := c.fieldIndex()
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return p.fallback(), fmt.Errorf("scan calc_constants row: %w", err)
		}
		if field, ok := index[name]; ok {
			*field = value
		}
	}
	if err := rows.Err(); err != nil {
		return p.fallback(), fmt.Errorf("iterate calc_constants: %w", err)
	}

	p.mu.Lock()
	p.last = &c
	p.mu.Unlock()

	return c, nil
}

func (p *StoreProvider) fallback() Constants {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last != nil {
		return *p.last
	}
	return Defaults()
}

// Static is a fixed constants source, handy for tests and for running the
// core without a store.
type Static Constants

// Constants returns the fixed set.
func (s Static) Constants(context.Context) (Constants, error) {
	return Constants(s), nil
}
