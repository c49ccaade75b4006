package supervisor

import (
	"fmt"
	"os"
	"strings"
)

// MnemonicVar is the environment variable cdk-mintd reads its seed phrase
// from.
const MnemonicVar = "CDK_MINTD_MNEMONIC"

// Environment runs the pre-start hook: it layers the secret env file and the
// RUST_LOG level over base, then reads the mnemonic file when one is
// configured. A configured-but-missing mnemonic file is a hard failure so
// the daemon never starts with an empty seed.
func (d Descriptor) Environment(base []string) ([]string, error) {
	env := append([]string(nil), base...)

	if d.EnvFile != "" {
		fromFile, err := readEnvFile(d.EnvFile)
		if err != nil {
			return nil, err
		}
		env = append(env, fromFile...)
	}

	if d.LogLevel != "" {
		env = append(env, "RUST_LOG="+d.LogLevel)
	}

	if d.MnemonicFile != "" {
		data, err := os.ReadFile(d.MnemonicFile)
		if err != nil {
			return nil, fmt.Errorf("read mnemonic file %s: %w", d.MnemonicFile, err)
		}
		mnemonic := strings.TrimRight(string(data), "\r\n")
		env = append(env, MnemonicVar+"="+mnemonic)
	}

	return env, nil
}

func readEnvFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environment file %s: %w", path, err)
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			return nil, fmt.Errorf("environment file %s: malformed line %q", path, line)
		}
		entries = append(entries, line)
	}
	return entries, nil
}
