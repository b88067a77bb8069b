package health

import (
	"context"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName имя сервиса автомата в протоколе grpc.health.v1
const ServiceName = "reelspin.Machine"

// Server реализует grpc.health.v1; Watch получает каждое изменение статуса
type Server struct {
	grpc_health_v1.UnimplementedHealthServer

	mu       sync.RWMutex
	services map[string]grpc_health_v1.HealthCheckResponse_ServingStatus
	watchers map[string][]chan grpc_health_v1.HealthCheckResponse_ServingStatus
}

func NewServer() *Server {
	return &Server{
		services: map[string]grpc_health_v1.HealthCheckResponse_ServingStatus{
			"": grpc_health_v1.HealthCheckResponse_SERVING,
		},
		watchers: make(map[string][]chan grpc_health_v1.HealthCheckResponse_ServingStatus),
	}
}

func (h *Server) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	servingStatus, exists := h.services[req.GetService()]
	if !exists {
		return nil, status.Error(codes.NotFound, "service not found")
	}

	return &grpc_health_v1.HealthCheckResponse{Status: servingStatus}, nil
}

func (h *Server) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	service := req.GetService()
	updates := make(chan grpc_health_v1.HealthCheckResponse_ServingStatus, 1)

	h.mu.Lock()
	current, exists := h.services[service]
	if !exists {
		current = grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	}
	h.watchers[service] = append(h.watchers[service], updates)
	h.mu.Unlock()

	defer h.removeWatcher(service, updates)

	last := current
	if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: current}); err != nil {
		return err
	}

	for {
		select {
		case next := <-updates:
			if next == last {
				continue
			}
			last = next
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: next}); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// SetServing помечает сервис как готовый
func (h *Server) SetServing(service string) {
	h.setStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
}

// SetNotServing помечает сервис как недоступный
func (h *Server) SetNotServing(service string) {
	h.setStatus(service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Shutdown переводит все сервисы в NOT_SERVING
func (h *Server) Shutdown() {
	h.mu.RLock()
	services := make([]string, 0, len(h.services))
	for service := range h.services {
		services = append(services, service)
	}
	h.mu.RUnlock()

	for _, service := range services {
		h.SetNotServing(service)
	}
}

func (h *Server) setStatus(service string, servingStatus grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.services[service] = servingStatus
	for _, ch := range h.watchers[service] {
		// Медленный наблюдатель получит только последний статус
		select {
		case <-ch:
		default:
		}
		ch <- servingStatus
	}
}

func (h *Server) removeWatcher(service string, ch chan grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers := h.watchers[service]
	for i, w := range watchers {
		if w == ch {
			h.watchers[service] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(h.watchers[service]) == 0 {
		delete(h.watchers, service)
	}
}
