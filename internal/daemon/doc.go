// Package daemon coordinates the long-running mintkeeper process.
//
// It wires the deployment config, the journal, and the supervisor runner
// into a single lifecycle with flock-based locking to prevent multiple
// instances supervising the same mint. The daemon focuses on startup,
// shutdown, and status reporting; the restart policy itself lives in the
// supervisor package.
package daemon
