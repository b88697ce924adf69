package database

import (
	"context"
	"fmt"

	"serwer-cytatow/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool sized from cfg and pings it once.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("parse db source: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
