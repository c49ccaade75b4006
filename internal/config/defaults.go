package config

const (
	defaultBinary   = "cdk-mintd"
	defaultDataDir  = "/var/lib/cdk-mintd"
	defaultIdentity = "cdk-mintd"
	defaultStateDir = "/var/lib/mintkeeper"
	defaultLogDir   = "/var/log/mintkeeper"
)

// MintLogLevels are the log levels cdk-mintd understands, exported as
// RUST_LOG at launch time.
var MintLogLevels = []string{"error", "warn", "info", "debug", "trace"}

// FirewallBackends are the supported host firewall integrations.
var FirewallBackends = []string{"nftables", "iptables"}

// Default returns the built-in configuration. User files are decoded over
// this value, which is the explicit defaults-then-overrides merge the
// deployment pipeline relies on.
func Default() Config {
	return Config{
		Mintd: Mintd{
			Binary:   defaultBinary,
			DataDir:  defaultDataDir,
			User:     defaultIdentity,
			Group:    defaultIdentity,
			LogLevel: "info",
		},
		Settings:    mintSettingsDefaults(),
		Environment: map[string]string{},
		Firewall: Firewall{
			OpenPort: false,
			Backend:  "nftables",
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

func mintSettingsDefaults() map[string]map[string]any {
	return map[string]map[string]any{
		"info": {
			"listen_host": "127.0.0.1",
			"listen_port": int64(3338),
		},
	}
}
