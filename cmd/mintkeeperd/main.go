package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"mintkeeper/internal/config"
	"mintkeeper/internal/daemon"
	"mintkeeper/internal/deploy"
	"mintkeeper/internal/ipc"
	"mintkeeper/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to the mintkeeper deployment file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Printf("load deployment file: %v", err)
		return 1
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "mintkeeperd.log")},
	})
	if err != nil {
		log.Printf("init logger: %v", err)
		return 1
	}

	// Provisioning needs root; a development daemon still supervises
	// against user-writable directories.
	opts := deploy.Options{SkipProvision: os.Geteuid() != 0}
	boot, err := bootstrap(ctx, cfg, logger, opts)
	if err != nil {
		var validationErr *validationFailure
		if errors.As(err, &validationErr) {
			logger.Error("deployment aborted", logging.Error(validationErr.err))
		} else {
			logger.Error("bootstrap failed", logging.Error(err))
		}
		return 1
	}
	defer boot.store.Close()

	d, err := daemon.New(cfg, boot.store, boot.runner, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return 1
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, cancel, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		return 1
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return 1
	}

	// The supervision loop ending on its own (for example a pre-start
	// failure) is an error exit; a signal is a clean shutdown.
	loopDone := make(chan error, 1)
	go func() { loopDone <- d.Wait() }()

	select {
	case <-ctx.Done():
		logger.Info("mintkeeperd shutting down")
		return 0
	case err := <-loopDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("supervision ended", logging.Error(err))
			return 1
		}
		logger.Info("mintkeeperd shutting down")
		return 0
	}
}
