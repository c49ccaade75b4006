package supervisor

import (
	"time"

	"mintkeeper/internal/config"
)

// DefaultRestartDelay is the fixed pause between daemon exits and restarts.
// No backoff shaping: the daemon is idempotent to restart and operators are
// expected to monitor externally.
const DefaultRestartDelay = 10 * time.Second

// Descriptor is the complete launch specification for the mint daemon.
// Created once per deployment and read-only afterwards.
type Descriptor struct {
	Binary       string
	DataDir      string
	ConfigPath   string
	EnvFile      string
	User         string
	Group        string
	MnemonicFile string
	LogLevel     string
	ExtraArgs    []string
	RestartDelay time.Duration
}

// NewDescriptor builds the launch contract from a deployment config. The
// envFileWritten flag comes from the env file renderer: an empty environment
// map writes no file and the descriptor must not reference one.
func NewDescriptor(cfg *config.Config, envFileWritten bool) Descriptor {
	d := Descriptor{
		Binary:       cfg.Mintd.Binary,
		DataDir:      cfg.Mintd.DataDir,
		ConfigPath:   cfg.ResolvedMintConfigPath(),
		User:         cfg.Mintd.User,
		Group:        cfg.Mintd.Group,
		MnemonicFile: cfg.Mintd.MnemonicFile,
		LogLevel:     cfg.Mintd.LogLevel,
		ExtraArgs:    append([]string(nil), cfg.Mintd.ExtraArgs...),
		RestartDelay: DefaultRestartDelay,
	}
	if envFileWritten {
		d.EnvFile = cfg.EnvFilePath()
	}
	return d
}

// Args assembles the daemon command line: fixed --work-dir and --config
// flags followed by operator-supplied arguments, order preserved.
func (d Descriptor) Args() []string {
	args := []string{"--work-dir", d.DataDir, "--config", d.ConfigPath}
	return append(args, d.ExtraArgs...)
}

func (d Descriptor) restartDelay() time.Duration {
	if d.RestartDelay > 0 {
		return d.RestartDelay
	}
	return DefaultRestartDelay
}
