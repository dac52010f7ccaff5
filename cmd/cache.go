package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheClear drops every cached directory response.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openCache()
	if err != nil {
		return err
	}

	n, err := store.Clear()
	if err != nil {
		return err
	}
	r.logger.Info("cache cleared", "path", r.config.Cache.Path, "entries", n)
	r.writePlain("✓ Removed %d cached responses\n", n)
	return nil
}

// CachePrune drops cached responses older than the configured TTL.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openCache()
	if err != nil {
		return err
	}

	n, err := store.Prune()
	if err != nil {
		return err
	}
	r.logger.Info("cache pruned", "path", r.config.Cache.Path, "entries", n)
	r.writePlain("✓ Removed %d expired responses\n", n)
	return nil
}
