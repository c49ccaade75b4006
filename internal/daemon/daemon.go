package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"mintkeeper/internal/config"
	"mintkeeper/internal/journal"
	"mintkeeper/internal/logging"
	"mintkeeper/internal/supervisor"
)

// Daemon supervises the mint process and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *journal.Store
	runner *supervisor.Runner

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	loopErr   error
	startedAt time.Time
}

// Status represents daemon runtime information.
type Status struct {
	Running    bool
	PID        int
	Restarts   int
	Uptime     time.Duration
	LastExit   string
	ConfigPath string
	EnvFile    string
	LockPath   string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *journal.Store, runner *supervisor.Runner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		runner:   runner,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the supervision loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mintkeeper instance is already supervising this mint")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.startedAt = time.Now().UTC()
	d.running.Store(true)

	go func() {
		err := d.runner.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("supervision loop ended", logging.Error(err))
		}
		d.loopErr = err
		close(d.done)
	}()

	d.logger.Info("mintkeeper daemon started", logging.String(logging.FieldPath, d.lockPath))
	return nil
}

// Wait blocks until the supervision loop finishes and returns its error.
// Safe to call from multiple goroutines.
func (d *Daemon) Wait() error {
	if d.done == nil {
		return nil
	}
	<-d.done
	return d.loopErr
}

// Stop cancels supervision and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("mintkeeper daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports the current supervision state.
func (d *Daemon) Status() Status {
	processStatus := d.runner.Status()
	status := Status{
		Running:    d.running.Load() && processStatus.Running,
		PID:        processStatus.PID,
		Restarts:   processStatus.Restarts,
		LastExit:   processStatus.LastExit,
		ConfigPath: d.cfg.ResolvedMintConfigPath(),
		EnvFile:    d.runner.Descriptor().EnvFile,
		LockPath:   d.lockPath,
	}
	if !processStatus.StartedAt.IsZero() && processStatus.Running {
		status.Uptime = time.Since(processStatus.StartedAt)
	}
	return status
}
