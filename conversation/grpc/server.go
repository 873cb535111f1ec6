package grpc

import (
	"net"

	"support-chat-dashboard/backend/pkg/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server exposes the standard gRPC health service so sidecar probes and
// load balancers can watch readiness without the HTTP surface.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	log        *logger.Logger
}

func NewServer(log *logger.Logger) *Server {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		log:        log,
	}
}

// SetServing flips the reported status for the whole server.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Serve blocks listening on the given port until Stop is called.
func (s *Server) Serve(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}
	s.log.Info("gRPC health server listening", "port", port)
	return s.grpcServer.Serve(lis)
}

// Stop drains in-flight RPCs and shuts the server down.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
