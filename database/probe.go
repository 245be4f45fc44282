package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Probe reports database reachability for health checks.
type Probe struct {
	db *sql.DB
}

func NewProbe(db *sql.DB) *Probe {
	return &Probe{db: db}
}

// Check pings the database and returns the applied schema version.
func (p *Probe) Check(ctx context.Context) (int64, error) {
	if err := p.db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping database: %w", err)
	}
	return SchemaVersion(ctx, p.db)
}
