package main

import (
	"context"
	"fmt"
	"time"

	"riepilogo/internal/backend"
)

const defaultTimeout = 15 * time.Second

// openStore builds the configured backend. The caller closes the result.
func (a *app) openStore(ctx context.Context) (*backend.BackendResult, error) {
	cfg := backend.Config{
		Type:             backend.BackendType(a.v.GetString("backend")),
		SQLiteDBPath:     a.v.GetString("sqlite-path"),
		StoreBaseURL:     a.v.GetString("store-url"),
		StoreAccessToken: a.v.GetString("store-token"),
		SeedFile:         a.v.GetString("seed-file"),
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Type, err)
	}
	return res, nil
}

func (a *app) timeout() time.Duration {
	if d := a.v.GetDuration("timeout"); d > 0 {
		return d
	}
	return defaultTimeout
}

// withStore opens the backend, runs fn under the command timeout and closes
// the backend afterwards.
func (a *app) withStore(ctx context.Context, fn func(context.Context, backend.Backend) error) error {
	res, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			a.logger.Warn("Failed to close backend", "error", cerr.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()
	return fn(ctx, res.Backend)
}
