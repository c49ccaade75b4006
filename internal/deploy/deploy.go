package deploy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"mintkeeper/internal/config"
	"mintkeeper/internal/envfile"
	"mintkeeper/internal/fileutil"
	"mintkeeper/internal/journal"
	"mintkeeper/internal/logging"
	"mintkeeper/internal/mintconfig"
	"mintkeeper/internal/supervisor"
	"mintkeeper/internal/systemd"
)

// ValidationError aggregates every settings violation found in one pass.
type ValidationError struct {
	Errors []mintconfig.FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, fieldErr := range e.Errors {
		messages = append(messages, fieldErr.Error())
	}
	return fmt.Sprintf("settings validation failed: %s", strings.Join(messages, "; "))
}

// Result describes the artifacts a pipeline run produced.
type Result struct {
	Descriptor     supervisor.Descriptor
	ConfigHash     string
	EnvFileWritten bool
	Changed        bool
}

// Options tweak pipeline behavior.
type Options struct {
	// SkipProvision disables user/group and data directory provisioning,
	// used when the pipeline runs without root (development, tests).
	SkipProvision bool
}

// Run executes the pipeline: validate, render, provision, describe, journal.
// Validation failures abort before any artifact or process work and are
// still recorded in the journal so failed deploys show up in history.
func Run(ctx context.Context, cfg *config.Config, store *journal.Store, logger *slog.Logger, opts Options) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	override := cfg.Mintd.ConfigPath != ""
	if !override {
		if errs := mintconfig.Validate(cfg.Settings); len(errs) > 0 {
			validationErr := &ValidationError{Errors: errs}
			record(ctx, store, logger, journal.Entry{
				ConfigPath: cfg.ResolvedMintConfigPath(),
				Outcome:    journal.OutcomeValidationFailed,
				Message:    validationErr.Error(),
			})
			return nil, validationErr
		}
	}

	configHash, err := renderSettings(cfg, override)
	if err != nil {
		record(ctx, store, logger, journal.Entry{
			ConfigPath: cfg.ResolvedMintConfigPath(),
			Outcome:    journal.OutcomeFailed,
			Message:    err.Error(),
		})
		return nil, err
	}

	envWritten, err := envfile.Write(cfg.EnvFilePath(), cfg.Environment)
	if err != nil {
		record(ctx, store, logger, journal.Entry{
			ConfigPath: cfg.ResolvedMintConfigPath(),
			ConfigHash: configHash,
			Outcome:    journal.OutcomeFailed,
			Message:    err.Error(),
		})
		return nil, err
	}

	if !opts.SkipProvision {
		if err := provision(ctx, cfg); err != nil {
			record(ctx, store, logger, journal.Entry{
				ConfigPath: cfg.ResolvedMintConfigPath(),
				ConfigHash: configHash,
				EnvFile:    envWritten,
				Outcome:    journal.OutcomeFailed,
				Message:    err.Error(),
			})
			return nil, err
		}
	}

	result := &Result{
		Descriptor:     supervisor.NewDescriptor(cfg, envWritten),
		ConfigHash:     configHash,
		EnvFileWritten: envWritten,
	}

	if store != nil {
		previous, err := store.LastDeployedHash(ctx)
		if err != nil {
			logger.Warn("read journal", logging.Error(err))
		}
		result.Changed = previous != configHash
	}

	record(ctx, store, logger, journal.Entry{
		ConfigPath: result.Descriptor.ConfigPath,
		ConfigHash: configHash,
		EnvFile:    envWritten,
		Outcome:    journal.OutcomeDeployed,
	})

	logger.Info("deployment pipeline complete",
		logging.String(logging.FieldPath, result.Descriptor.ConfigPath),
		logging.String("config_hash", configHash),
		logging.Bool("env_file", envWritten),
		logging.Bool("changed", result.Changed),
	)
	return result, nil
}

// renderSettings writes the config artifact and returns its hash. With an
// explicit override the operator maintains the file themselves; its content
// is hashed for the journal but never rewritten.
func renderSettings(cfg *config.Config, override bool) (string, error) {
	if override {
		hash, err := fileutil.HashFile(cfg.Mintd.ConfigPath)
		if err != nil {
			return "", fmt.Errorf("config override: %w", err)
		}
		return hash, nil
	}

	rendered, err := mintconfig.Render(cfg.Settings)
	if err != nil {
		return "", err
	}
	if err := fileutil.WriteFileAtomic(cfg.SettingsArtifactPath(), rendered, 0o640); err != nil {
		return "", fmt.Errorf("write settings artifact: %w", err)
	}
	return fileutil.HashBytes(rendered), nil
}

func provision(ctx context.Context, cfg *config.Config) error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("provisioning user %q and %s requires root", cfg.Mintd.User, cfg.Mintd.DataDir)
	}
	if err := systemd.EnsureIdentity(ctx, cfg.Mintd.User, cfg.Mintd.Group, cfg.Mintd.DataDir); err != nil {
		return err
	}
	if err := systemd.EnsureDataDir(cfg.Mintd.DataDir, cfg.Mintd.User, cfg.Mintd.Group); err != nil {
		return err
	}
	// The unit runs mintkeeperd as the service identity; the directories
	// and artifacts created so far by root must be handed over or the
	// service cannot start.
	return systemd.EnsureServiceAccess(cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Mintd.User, cfg.Mintd.Group)
}

func record(ctx context.Context, store *journal.Store, logger *slog.Logger, entry journal.Entry) {
	if store == nil {
		return
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("record deployment", logging.Error(err))
	}
}
