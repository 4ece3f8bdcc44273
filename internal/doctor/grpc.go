package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const grpcProbeTimeout = 2 * time.Second

// checkGRPCHealth asks a network STT endpoint for its overall health status.
func checkGRPCHealth(ctx context.Context, endpoint string) Check {
	const name = "listen.grpc_health"

	ctx, cancel := context.WithTimeout(ctx, grpcProbeTimeout)
	defer cancel()

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("dial %s: %v", endpoint, err)}
	}
	defer conn.Close()

	conn.Connect()
	if err := waitForReady(ctx, conn); err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("connect %s: %v", endpoint, err)}
	}

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("health check %s: %v", endpoint, err)}
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s reports %s", endpoint, resp.GetStatus())}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("serving at %s", endpoint)}
}

// waitForReady blocks until gRPC connection enters Ready or fails.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state.String())
		}
	}
}
