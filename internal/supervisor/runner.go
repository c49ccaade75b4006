package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"sync"
	"syscall"
	"time"

	"log/slog"

	"mintkeeper/internal/logging"
)

const stopGrace = 10 * time.Second

// Status is a point-in-time snapshot of the supervised process.
type Status struct {
	Running   bool
	PID       int
	Restarts  int
	StartedAt time.Time
	LastExit  string
}

// Runner supervises the mint daemon process: spawn, wait, restart after the
// fixed delay on any exit, stop on context cancellation. All exits are
// treated identically; the runner does not distinguish failure causes.
type Runner struct {
	desc   Descriptor
	logger *slog.Logger

	mu     sync.Mutex
	status Status
}

// NewRunner builds a runner for the given descriptor.
func NewRunner(desc Descriptor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{desc: desc, logger: logger}
}

// Descriptor returns the launch contract this runner supervises.
func (r *Runner) Descriptor() Descriptor {
	return r.desc
}

// Status returns the current process snapshot.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Run supervises the daemon until ctx is canceled. Pre-start failures (for
// example a configured mnemonic file that does not exist) abort with an
// error before the daemon executable is ever invoked.
func (r *Runner) Run(ctx context.Context) error {
	credential, err := r.credential()
	if err != nil {
		return err
	}

	spawns := 0
	for {
		env, err := r.desc.Environment(os.Environ())
		if err != nil {
			return fmt.Errorf("pre-start: %w", err)
		}

		cmd := exec.Command(r.desc.Binary, r.desc.Args()...)
		cmd.Dir = r.desc.DataDir
		cmd.Env = env
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Credential: credential}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", r.desc.Binary, err)
		}

		spawns++
		r.setRunning(cmd.Process.Pid, spawns > 1)
		r.logger.Info("mint daemon started",
			logging.Int(logging.FieldPID, cmd.Process.Pid),
			logging.String("binary", r.desc.Binary),
			logging.String("config", r.desc.ConfigPath),
		)

		waitErr := r.wait(ctx, cmd)
		r.setStopped(describeExit(waitErr))

		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warn("mint daemon exited; restarting",
			logging.String("exit", describeExit(waitErr)),
			logging.Duration("delay", r.desc.restartDelay()),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.desc.restartDelay()):
		}
	}
}

// wait blocks until the child exits or ctx is canceled; on cancellation the
// child gets SIGTERM and, after the grace period, SIGKILL.
func (r *Runner) wait(ctx context.Context, cmd *exec.Cmd) error {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		r.logger.Warn("signal mint daemon", logging.Error(err))
	}
	select {
	case err := <-done:
		return err
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		return <-done
	}
}

// credential resolves the configured user/group when running as root;
// otherwise the child inherits the supervisor's identity.
func (r *Runner) credential() (*syscall.Credential, error) {
	if r.desc.User == "" || os.Getuid() != 0 {
		return nil, nil
	}

	u, err := user.Lookup(r.desc.User)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", r.desc.User, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return nil, fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}
	if r.desc.Group != "" {
		g, err := user.LookupGroup(r.desc.Group)
		if err != nil {
			return nil, fmt.Errorf("lookup group %q: %w", r.desc.Group, err)
		}
		if gid, err = strconv.Atoi(g.Gid); err != nil {
			return nil, fmt.Errorf("parse gid %q: %w", g.Gid, err)
		}
	}
	return &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid)}, nil
}

func (r *Runner) setRunning(pid int, restarted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = true
	r.status.PID = pid
	r.status.StartedAt = time.Now().UTC()
	if restarted {
		r.status.Restarts++
	}
}

func (r *Runner) setStopped(exit string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
	r.status.PID = 0
	r.status.LastExit = exit
}

func describeExit(err error) string {
	if err == nil {
		return "exit status 0"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.String()
	}
	return err.Error()
}
