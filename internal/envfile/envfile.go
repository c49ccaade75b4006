// Package envfile renders NAME=VALUE environment files consumed by the mint
// daemon's process environment.
package envfile

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"mintkeeper/internal/fileutil"
)

// Render serializes env into NAME=VALUE lines sorted by name. Values are
// written verbatim with no quoting or escaping; values containing a newline
// would corrupt the file and are rejected instead. An empty map renders to
// nil so callers can skip writing the file entirely.
func Render(env map[string]string) ([]byte, error) {
	if len(env) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		value := env[name]
		if strings.ContainsAny(value, "\n\r") {
			return nil, fmt.Errorf("environment variable %s: value contains a newline", name)
		}
		fmt.Fprintf(&buf, "%s=%s\n", name, value)
	}
	return buf.Bytes(), nil
}

// Write renders env to path with secret-appropriate permissions. It reports
// whether a file was written; an empty map writes nothing.
func Write(path string, env map[string]string) (bool, error) {
	data, err := Render(env)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write environment file: %w", err)
	}
	return true, nil
}
