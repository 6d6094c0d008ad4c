package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service key reported next to the overall ("") status.
const ServiceName = "pdfstructurer.Pipeline"

// HealthServer exposes the gRPC health protocol and reflection for the watch daemon.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func NewHealthServer(logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	// Reflection for grpcurl
	reflection.Register(gs)

	s := &HealthServer{grpc: gs, health: hs, logger: logger}
	s.SetServing(false)
	return s
}

// SetServing flips both the overall and the pipeline status.
func (s *HealthServer) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	s.logger.Info("server.health.status", "status", st.String())
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *HealthServer) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Error("server.health.listen_failed", "addr", addr, "error", err)
		return err
	}
	return s.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx is done, then reports NOT_SERVING and stops gracefully.
func (s *HealthServer) ServeListener(ctx context.Context, lis net.Listener) error {
	s.logger.Info("server.health.listening", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.SetServing(false)
		s.health.Shutdown()
		s.grpc.GracefulStop()
		<-errCh
		s.logger.Info("server.health.stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("server.health.serve_failed", "error", err)
			return err
		}
		return nil
	}
}
