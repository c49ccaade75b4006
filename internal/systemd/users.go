package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"os/user"
	"strconv"
	"strings"

	"mintkeeper/internal/fileutil"
)

// EnsureIdentity provisions the system group and user the mint runs as.
// Existing accounts are left untouched.
func EnsureIdentity(ctx context.Context, username, group, homeDir string) error {
	if _, err := user.LookupGroup(group); err != nil {
		if _, ok := err.(user.UnknownGroupError); !ok {
			return fmt.Errorf("lookup group %q: %w", group, err)
		}
		if err := runProvision(ctx, "groupadd", "--system", group); err != nil {
			return err
		}
	}

	if _, err := user.Lookup(username); err != nil {
		if _, ok := err.(user.UnknownUserError); !ok {
			return fmt.Errorf("lookup user %q: %w", username, err)
		}
		args := []string{
			"--system",
			"--gid", group,
			"--home-dir", homeDir,
			"--no-create-home",
			"--shell", "/usr/sbin/nologin",
			username,
		}
		if err := runProvision(ctx, "useradd", args...); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDataDir creates the mint's data directory with owner/group
// read-write and no world access, owned by the configured identity.
func EnsureDataDir(dataDir, username, group string) error {
	uid, gid, err := resolveIDs(username, group)
	if err != nil {
		return err
	}
	return fileutil.EnsureDir(dataDir, 0o750, uid, gid)
}

// EnsureServiceAccess hands the mintkeeper state and log directories, and
// any artifacts already rendered into them, to the service identity. The
// installed unit runs mintkeeperd as that identity, which must append to
// the daemon log and open the settings artifact, env file, journal, lock,
// and socket under the state directory.
func EnsureServiceAccess(stateDir, logDir, username, group string) error {
	uid, gid, err := resolveIDs(username, group)
	if err != nil {
		return err
	}
	for _, dir := range []string{stateDir, logDir} {
		if err := fileutil.EnsureDir(dir, 0o755, uid, gid); err != nil {
			return err
		}
		if err := fileutil.ChownContents(dir, uid, gid); err != nil {
			return err
		}
	}
	return nil
}

func resolveIDs(username, group string) (int, int, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return -1, -1, fmt.Errorf("lookup user %q: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return -1, -1, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return -1, -1, fmt.Errorf("lookup group %q: %w", group, err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return -1, -1, fmt.Errorf("parse gid %q: %w", g.Gid, err)
	}
	return uid, gid, nil
}

func runProvision(ctx context.Context, binary string, args ...string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
		}
		return fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, detail)
	}
	return nil
}
