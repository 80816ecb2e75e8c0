// Package api provides the HTTP REST surface for the camwatch gateway.
//
// It exposes the device fleet, detection status, detection toggles,
// annotated snapshot rendering, and a reload trigger to external callers.
// All domain behaviour lives in the engine; this layer routes, decodes and
// serializes.
//
// The server follows the same lifecycle pattern as other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/camwatch/internal/camera"
	"github.com/nerrad567/camwatch/internal/infrastructure/config"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
	"github.com/nerrad567/camwatch/internal/snapshot"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Engine is the camera engine surface the API serves. Satisfied by
// *camera.Engine.
type Engine interface {
	ListDevices() []camera.DeviceState
	GetDeviceStatus(id string) (camera.DetectionStatus, error)
	SetLineDetection(ctx context.Context, id string, enabled bool) error
	SetFieldDetection(ctx context.Context, id string, enabled bool) error
	Reload(ctx context.Context) error
}

// Renderer produces annotated snapshot images. Satisfied by
// *snapshot.Compositor.
type Renderer interface {
	Render(ctx context.Context, id string, width, height int) (*snapshot.Image, error)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Engine   Engine
	Renderer Renderer
	Version  string
}

// Server is the HTTP API server for the gateway.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	engine   Engine
	renderer Renderer
	version  string
	server   *http.Server
}

// New creates an API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("camera engine is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("snapshot renderer is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		engine:   deps.Engine,
		renderer: deps.Renderer,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds for
// in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
