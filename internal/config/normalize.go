package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMintd(); err != nil {
		return err
	}
	c.normalizeFirewall()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMintd() error {
	c.Mintd.Binary = strings.TrimSpace(c.Mintd.Binary)
	c.Mintd.User = strings.TrimSpace(c.Mintd.User)
	c.Mintd.Group = strings.TrimSpace(c.Mintd.Group)
	c.Mintd.LogLevel = strings.ToLower(strings.TrimSpace(c.Mintd.LogLevel))

	var err error
	if c.Mintd.DataDir, err = ExpandPath(c.Mintd.DataDir); err != nil {
		return fmt.Errorf("mintd.data_dir: %w", err)
	}
	if c.Mintd.ConfigPath = strings.TrimSpace(c.Mintd.ConfigPath); c.Mintd.ConfigPath != "" {
		if c.Mintd.ConfigPath, err = ExpandPath(c.Mintd.ConfigPath); err != nil {
			return fmt.Errorf("mintd.config_path: %w", err)
		}
	}
	if c.Mintd.MnemonicFile == "" {
		if value, ok := os.LookupEnv("MINTKEEPER_MNEMONIC_FILE"); ok {
			c.Mintd.MnemonicFile = value
		}
	}
	if c.Mintd.MnemonicFile = strings.TrimSpace(c.Mintd.MnemonicFile); c.Mintd.MnemonicFile != "" {
		if c.Mintd.MnemonicFile, err = ExpandPath(c.Mintd.MnemonicFile); err != nil {
			return fmt.Errorf("mintd.mnemonic_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeFirewall() {
	c.Firewall.Backend = strings.ToLower(strings.TrimSpace(c.Firewall.Backend))
	if c.Firewall.Backend == "" {
		c.Firewall.Backend = "nftables"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
