// camwatch - network camera gateway
//
// camwatch discovers a fleet of ISAPI cameras, polls their detection
// configuration on a fixed interval, caches the normalized result, publishes
// change notifications (MQTT or Redis) and serves annotated snapshots over
// HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nerrad567/camwatch/internal/api"
	"github.com/nerrad567/camwatch/internal/camera"
	"github.com/nerrad567/camwatch/internal/events"
	"github.com/nerrad567/camwatch/internal/infrastructure/config"
	"github.com/nerrad567/camwatch/internal/infrastructure/influxdb"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
	"github.com/nerrad567/camwatch/internal/infrastructure/mqtt"
	"github.com/nerrad567/camwatch/internal/infrastructure/redispub"
	"github.com/nerrad567/camwatch/internal/isapi"
	"github.com/nerrad567/camwatch/internal/snapshot"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// A returned error means a fatal condition: failed startup, or loss of the
// notification transport while running.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting camwatch",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "cameras", len(cfg.Cameras))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Notification transport: MQTT (default) or Redis pub/sub
	var publisher events.Publisher
	switch strings.ToLower(cfg.Events.Transport) {
	case config.TransportRedis:
		redisPub, err := redispub.Connect(cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to Redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection")
			if closeErr := redisPub.Close(); closeErr != nil {
				log.Error("error closing Redis", "error", closeErr)
			}
		}()
		log.Info("Redis connected", "addr", cfg.Redis.Addr)
		publisher = events.NewRedisPublisher(redisPub)

	default:
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		publisher = events.NewMQTTPublisher(mqttClient)
	}

	// Detection history sink (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// One protocol client per configured camera
	endpoints := make([]camera.ProtocolClient, 0, len(cfg.Cameras))
	for _, cam := range cfg.Cameras {
		endpoints = append(endpoints, isapi.New(cam.Address, cam.Username, cam.Password, cam.TLS))
	}

	engine := camera.NewEngine(endpoints, log, camera.Options{
		FleetConcurrency: cfg.Refresh.DeviceConcurrency,
	})

	// Wire cache notifications to the transport before discovery runs, so
	// the initial inserts are published.
	notifier := events.NewNotifier(publisher, influxClient, log)
	notifier.Bind(engine)

	// Initial discovery: an unreachable device here is fatal.
	if err := engine.Discover(ctx); err != nil {
		return fmt.Errorf("initial discovery: %w", err)
	}

	refresher := camera.NewRefresher(engine, time.Duration(cfg.Refresh.Interval)*time.Second, log)
	refresher.Start(ctx)
	defer refresher.Stop()

	compositor := snapshot.NewCompositor(engine, cfg.Snapshot.JPEGQuality, log)

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Engine:   engine,
		Renderer: compositor,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
	case err := <-notifier.Fatal():
		log.Error("notification transport lost, shutting down", "error", err)
		return fmt.Errorf("notification transport lost: %w", err)
	}

	log.Info("camwatch stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses CAMWATCH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CAMWATCH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
