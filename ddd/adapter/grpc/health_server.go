package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"snipx-service/pkg/logger"
)

// ServiceName is the name reported to health checks besides the overall "" entry.
const ServiceName = "snipx.VideoService"

// Pinger checks one backing dependency.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthReporter 注册 gRPC 健康检查服务，并按周期探测依赖更新状态
type HealthReporter struct {
	server   *health.Server
	pingers  map[string]Pinger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewHealthReporter registers the standard health service on s.
func NewHealthReporter(s *grpc.Server, interval time.Duration, pingers map[string]Pinger) *HealthReporter {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if interval <= 0 {
		interval = 15 * time.Second
	}
	r := &HealthReporter{server: hs, pingers: pingers, interval: interval}
	r.set(healthpb.HealthCheckResponse_SERVING)
	return r
}

func (r *HealthReporter) Name() string { return "grpcHealthReporter" }

func (r *HealthReporter) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Check(ctx)
			}
		}
	}()
	return nil
}

// Check pings every dependency once and publishes the aggregate status.
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, p := range r.pingers {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := p.PingContext(pctx)
		cancel()
		if err != nil {
			logger.Warnf("health check failed dependency=%s error=%v", name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	r.set(status)
	return status
}

func (r *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	r.server.SetServingStatus("", status)
	r.server.SetServingStatus(ServiceName, status)
}

// Stop marks the service NOT_SERVING so clients drain before the listener closes.
func (r *HealthReporter) Stop() error {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
	r.server.Shutdown()
	return nil
}
