package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"mintkeeper/internal/daemon"
	"mintkeeper/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The shutdown
// function is invoked when a client requests Stop.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, shutdown context.CancelFunc, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, shutdown: shutdown, logger: logger}
	if err := rpcServer.RegisterName("Mintkeeper", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String(logging.FieldPath, s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}

			s.wg.Add(1)
			go func(conn net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
			}(conn)
		}
	}()
}

// Close shuts the server down and removes the socket file.
func (s *Server) Close() error {
	s.cancel()
	err := s.listener.Close()
	s.wg.Wait()
	if removeErr := os.Remove(s.path); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = removeErr
	}
	return err
}

type service struct {
	daemon   *daemon.Daemon
	shutdown context.CancelFunc
	logger   *slog.Logger
}

// Status returns the daemon's supervision snapshot.
func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	*resp = StatusResponse{
		Running:       status.Running,
		PID:           status.PID,
		Restarts:      status.Restarts,
		UptimeSeconds: int64(status.Uptime.Seconds()),
		LastExit:      status.LastExit,
		ConfigPath:    status.ConfigPath,
		EnvFile:       status.EnvFile,
		LockPath:      status.LockPath,
	}
	return nil
}

// Stop triggers daemon shutdown.
func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.logger.Info("stop requested over IPC")
	if s.shutdown != nil {
		s.shutdown()
	}
	resp.Stopped = true
	return nil
}
