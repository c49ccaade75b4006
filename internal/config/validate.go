package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the deployment file itself is usable. The mint settings
// tree is deliberately not validated here; mintconfig.Validate reports all
// of its violations in one pass at deploy time.
func (c *Config) Validate() error {
	if err := c.validateMintd(); err != nil {
		return err
	}
	if err := c.validateFirewall(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMintd() error {
	if c.Mintd.Binary == "" {
		return errors.New("mintd.binary must be set")
	}
	if c.Mintd.DataDir == "" {
		return errors.New("mintd.data_dir must be set")
	}
	if c.Mintd.User == "" {
		return errors.New("mintd.user must be set")
	}
	if c.Mintd.Group == "" {
		return errors.New("mintd.group must be set")
	}
	if !slices.Contains(MintLogLevels, c.Mintd.LogLevel) {
		return fmt.Errorf("mintd.log_level must be one of %s", strings.Join(MintLogLevels, ", "))
	}
	return nil
}

func (c *Config) validateFirewall() error {
	if !slices.Contains(FirewallBackends, c.Firewall.Backend) {
		return fmt.Errorf("firewall.backend must be one of %s", strings.Join(FirewallBackends, ", "))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
