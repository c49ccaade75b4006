// Package systemd integrates mintkeeper with the host service manager.
//
// It renders the cdk-mintd service unit (restart policy and sandboxing
// directives included), installs it under /etc/systemd/system, wraps the
// systemctl lifecycle verbs, and provisions the daemon's system user, group,
// and data directory.
package systemd
