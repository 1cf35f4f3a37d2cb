package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"cardbox/internal/daemon"
	"cardbox/internal/logging"
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

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
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
	srv := &service{daemon: d, ctx: ctx}
	if err := rpcServer.RegisterName("Cardbox", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logging.NewComponentLogger(logger, "ipc"),
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
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
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("remove socket", logging.String("socket", s.path), logging.Error(err))
	}
}

// service implements the RPC surface.
type service struct {
	daemon *daemon.Daemon
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	*resp = StatusResponse{
		Running:      status.Running,
		SessionID:    status.SessionID,
		DatabasePath: status.DatabasePath,
		LockPath:     status.LockFilePath,
		PID:          os.Getpid(),
	}
	return nil
}

func (s *service) Record(_ RecordRequest, resp *RecordResponse) error {
	resp.Record = s.daemon.Record()
	return nil
}

func (s *service) Reset(_ ResetRequest, resp *ResetResponse) error {
	resp.Cleared = !s.daemon.Record().IsEmpty()
	s.daemon.ResetRecord(s.ctx)
	return nil
}
