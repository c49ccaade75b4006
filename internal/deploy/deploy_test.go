package deploy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mintkeeper/internal/config"
	"mintkeeper/internal/deploy"
	"mintkeeper/internal/journal"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Mintd.DataDir = t.TempDir()
	cfg.Settings = map[string]map[string]any{
		"info":     {"listen_port": int64(3338)},
		"ln":       {"ln_backend": "FakeWallet"},
		"database": {"engine": "sqlite"},
	}
	return &cfg
}

func openStore(t *testing.T, cfg *config.Config) *journal.Store {
	t.Helper()
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunRendersArtifactAndRecordsJournal(t *testing.T) {
	cfg := testConfig(t)
	store := openStore(t, cfg)

	result, err := deploy.Run(context.Background(), cfg, store, nil, deploy.Options{SkipProvision: true})
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	artifact, err := os.ReadFile(cfg.SettingsArtifactPath())
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if !strings.Contains(string(artifact), "ln_backend") {
		t.Fatalf("artifact content unexpected:\n%s", artifact)
	}
	if result.Descriptor.ConfigPath != cfg.SettingsArtifactPath() {
		t.Fatalf("descriptor config path: %q", result.Descriptor.ConfigPath)
	}
	if result.EnvFileWritten {
		t.Fatal("no environment entries were configured")
	}
	if result.Descriptor.EnvFile != "" {
		t.Fatal("descriptor should not reference an env file")
	}

	latest, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Outcome != journal.OutcomeDeployed {
		t.Fatalf("unexpected journal entry: %+v", latest)
	}
	if latest.ConfigHash != result.ConfigHash {
		t.Fatalf("hash mismatch: %s vs %s", latest.ConfigHash, result.ConfigHash)
	}
}

func TestRunReportsAllValidationErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Settings = map[string]map[string]any{}
	store := openStore(t, cfg)

	_, err := deploy.Run(context.Background(), cfg, store, nil, deploy.Options{SkipProvision: true})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	var validationErr *deploy.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(validationErr.Errors) != 3 {
		t.Fatalf("expected all 3 violations, got %v", validationErr.Errors)
	}
	for _, field := range []string{"info.listen_port", "ln.ln_backend", "database.engine"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error does not name %s: %v", field, err)
		}
	}

	// No artifact is written for an invalid tree.
	if _, statErr := os.Stat(cfg.SettingsArtifactPath()); !os.IsNotExist(statErr) {
		t.Fatal("artifact should not exist after validation failure")
	}

	latest, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Outcome != journal.OutcomeValidationFailed {
		t.Fatalf("validation failure not journaled: %+v", latest)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	store := openStore(t, cfg)
	ctx := context.Background()

	first, err := deploy.Run(ctx, cfg, store, nil, deploy.Options{SkipProvision: true})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstArtifact, err := os.ReadFile(cfg.SettingsArtifactPath())
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	second, err := deploy.Run(ctx, cfg, store, nil, deploy.Options{SkipProvision: true})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	secondArtifact, err := os.ReadFile(cfg.SettingsArtifactPath())
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	if string(firstArtifact) != string(secondArtifact) {
		t.Fatal("artifact changed between identical runs")
	}
	if first.ConfigHash != second.ConfigHash {
		t.Fatalf("hash changed: %s vs %s", first.ConfigHash, second.ConfigHash)
	}
	if !first.Changed {
		t.Fatal("first run should report a change")
	}
	if second.Changed {
		t.Fatal("second run of identical input should not report a change")
	}
}

func TestRunWritesEnvFileAndReferencesIt(t *testing.T) {
	cfg := testConfig(t)
	cfg.Environment = map[string]string{"B": "2", "A": "1"}

	result, err := deploy.Run(context.Background(), cfg, nil, nil, deploy.Options{SkipProvision: true})
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !result.EnvFileWritten {
		t.Fatal("expected env file")
	}
	if result.Descriptor.EnvFile != cfg.EnvFilePath() {
		t.Fatalf("descriptor env file: %q", result.Descriptor.EnvFile)
	}

	data, err := os.ReadFile(cfg.EnvFilePath())
	if err != nil {
		t.Fatalf("env file missing: %v", err)
	}
	if string(data) != "A=1\nB=2\n" {
		t.Fatalf("unexpected env file content: %q", data)
	}
}

func TestRunHonorsConfigOverride(t *testing.T) {
	cfg := testConfig(t)
	override := filepath.Join(t.TempDir(), "operator.toml")
	if err := os.WriteFile(override, []byte("[info]\nlisten_port = 4000\n"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	cfg.Mintd.ConfigPath = override
	// The tree is not consumed when the operator maintains their own file.
	cfg.Settings = map[string]map[string]any{}

	result, err := deploy.Run(context.Background(), cfg, nil, nil, deploy.Options{SkipProvision: true})
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if result.Descriptor.ConfigPath != override {
		t.Fatalf("expected override path, got %q", result.Descriptor.ConfigPath)
	}
	if _, statErr := os.Stat(cfg.SettingsArtifactPath()); !os.IsNotExist(statErr) {
		t.Fatal("artifact should not be rendered when an override is set")
	}
}
