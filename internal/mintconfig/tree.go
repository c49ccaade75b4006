package mintconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree maps section names to key/value pairs for the daemon's config file.
// Values are scalars or arrays of scalars as decoded from TOML.
type Tree map[string]map[string]any

// DefaultListenPort is the port cdk-mintd binds when none is configured.
const DefaultListenPort = 3338

// Sections returns the section names in sorted order.
func (t Tree) Sections() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value at section.key and whether it exists.
func (t Tree) Lookup(section, key string) (any, bool) {
	sec, ok := t[section]
	if !ok {
		return nil, false
	}
	value, ok := sec[key]
	return value, ok
}

// ListenPort returns info.listen_port as an integer, falling back to the
// daemon default when the field is absent or not numeric.
func (t Tree) ListenPort() int {
	value, ok := t.Lookup("info", "listen_port")
	if !ok {
		return DefaultListenPort
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if port, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return port
		}
	}
	return DefaultListenPort
}

// Clone returns a deep copy of the tree so callers can mutate safely.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for name, section := range t {
		copied := make(map[string]any, len(section))
		for key, value := range section {
			copied[key] = value
		}
		out[name] = copied
	}
	return out
}

// EnvOverrides translates the tree's well-known fields into the CDK_MINTD_*
// environment variables cdk-mintd reads on top of its config file. The info
// and ln sections map directly onto the variable name, database.engine maps
// onto CDK_MINTD_DATABASE, and every other section contributes its name as a
// prefix (e.g. fake_wallet.fee_percent -> CDK_MINTD_FAKE_WALLET_FEE_PERCENT).
func (t Tree) EnvOverrides() map[string]string {
	out := make(map[string]string)
	for name, section := range t {
		for key, value := range section {
			out[envVarName(name, key)] = envVarValue(value)
		}
	}
	return out
}

func envVarName(section, key string) string {
	upperKey := strings.ToUpper(key)
	switch section {
	case "info", "ln":
		return "CDK_MINTD_" + upperKey
	case "database":
		if key == "engine" {
			return "CDK_MINTD_DATABASE"
		}
		return "CDK_MINTD_DATABASE_" + upperKey
	default:
		return "CDK_MINTD_" + strings.ToUpper(section) + "_" + upperKey
	}
}

func envVarValue(value any) string {
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
