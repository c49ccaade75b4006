package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mintkeeper/internal/fileutil"
	"mintkeeper/internal/mintconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// Mintd describes how the mint daemon process is launched and confined.
type Mintd struct {
	Binary       string   `toml:"binary"`
	DataDir      string   `toml:"data_dir"`
	User         string   `toml:"user"`
	Group        string   `toml:"group"`
	ConfigPath   string   `toml:"config_path"`
	MnemonicFile string   `toml:"mnemonic_file"`
	LogLevel     string   `toml:"log_level"`
	ExtraArgs    []string `toml:"extra_args"`
}

// Firewall controls host firewall integration for the mint's listen port.
type Firewall struct {
	OpenPort bool   `toml:"open_port"`
	Backend  string `toml:"backend"`
}

// Paths contains mintkeeper's own directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for mintkeeper's own log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for mintkeeper.
//
// Sections by concern:
//   - Mintd: the mint daemon's launch contract (binary, data dir, identity,
//     mnemonic source, log level, extra CLI arguments)
//   - Settings: the tree rendered to the mint's own config file
//   - Environment: secrets injected into the mint's process environment
//   - Firewall: optional listen-port opening on the host
//   - Paths: mintkeeper state and log directories
//   - Logging: mintkeeper's own log level and format
type Config struct {
	Mintd       Mintd             `toml:"mintd"`
	Settings    mintconfig.Tree   `toml:"settings"`
	Environment map[string]string `toml:"environment"`
	Firewall    Firewall          `toml:"firewall"`
	Paths       Paths             `toml:"paths"`
	Logging     Logging           `toml:"logging"`
}

// DefaultConfigPath returns the system-wide deployment file location.
func DefaultConfigPath() string {
	return "/etc/mintkeeper/mintkeeper.toml"
}

// UserConfigPath returns the per-user deployment file location used when the
// system-wide file is absent.
func UserConfigPath() (string, error) {
	return ExpandPath("~/.config/mintkeeper/mintkeeper.toml")
}

// Load locates, parses, and validates a deployment file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open deployment file: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse deployment file: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat deployment file: %w", err)
		}
		return expanded, true, nil
	}

	systemPath := DefaultConfigPath()
	if info, err := os.Stat(systemPath); err == nil && !info.IsDir() {
		return systemPath, true, nil
	}

	userPath, err := UserConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(userPath); err == nil && !info.IsDir() {
		return userPath, true, nil
	}

	return userPath, false, nil
}

// EnsureDirectories creates the state and log directories mintkeeper needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := fileutil.EnsureDir(dir, 0o755, -1, -1); err != nil {
			return err
		}
	}
	return nil
}

// SettingsArtifactPath is where the rendered mint config file lands.
func (c *Config) SettingsArtifactPath() string {
	return filepath.Join(c.Paths.StateDir, "cdk-mintd.toml")
}

// EnvFilePath is where the rendered secret environment file lands.
func (c *Config) EnvFilePath() string {
	return filepath.Join(c.Paths.StateDir, "cdk-mintd.env")
}

// ResolvedMintConfigPath returns the config path handed to the mint daemon:
// the explicit override when set, else the generated artifact.
func (c *Config) ResolvedMintConfigPath() string {
	if c.Mintd.ConfigPath != "" {
		return c.Mintd.ConfigPath
	}
	return c.SettingsArtifactPath()
}

// SocketPath is the daemon control socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "mintkeeperd.sock")
}

// LockPath is the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "mintkeeperd.lock")
}

// JournalPath is the deployment journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// CreateSample writes the embedded sample deployment file to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading tilde and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
