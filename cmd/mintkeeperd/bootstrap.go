package main

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"mintkeeper/internal/config"
	"mintkeeper/internal/deploy"
	"mintkeeper/internal/journal"
	"mintkeeper/internal/supervisor"
)

// bootResult carries the artifacts the daemon needs after the deployment
// pipeline has run.
type bootResult struct {
	store  *journal.Store
	runner *supervisor.Runner
}

// validationFailure marks a bootstrap abort caused by settings validation
// rather than an operational error.
type validationFailure struct {
	err error
}

func (v *validationFailure) Error() string { return v.err.Error() }
func (v *validationFailure) Unwrap() error { return v.err }

// bootstrap runs the deployment pipeline and prepares the supervision
// runner.
func bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts deploy.Options) (*bootResult, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("open deployment journal: %w", err)
	}

	result, err := deploy.Run(ctx, cfg, store, logger, opts)
	if err != nil {
		store.Close()
		var validationErr *deploy.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &validationFailure{err: err}
		}
		return nil, err
	}

	return &bootResult{
		store:  store,
		runner: supervisor.NewRunner(result.Descriptor, logger),
	}, nil
}
