package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
cameras:
  - address: "10.0.1.20"
    username: "admin"
    password: "secret"
refresh:
  interval: 5
  device_concurrency: 10
mqtt:
  broker:
    host: "broker.local"
    port: 1883
    client_id: "camwatch-test"
  qos: 1
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Cameras) != 1 {
		t.Fatalf("len(Cameras) = %d, want 1", len(cfg.Cameras))
	}
	if cfg.Cameras[0].Address != "10.0.1.20" {
		t.Errorf("Cameras[0].Address = %q, want %q", cfg.Cameras[0].Address, "10.0.1.20")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	// Defaults fill the sections the file omits.
	if cfg.Events.Transport != "mqtt" {
		t.Errorf("Events.Transport = %q, want %q", cfg.Events.Transport, "mqtt")
	}
	if cfg.Snapshot.JPEGQuality != 90 {
		t.Errorf("Snapshot.JPEGQuality = %d, want 90", cfg.Snapshot.JPEGQuality)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_NoCameras(t *testing.T) {
	_, err := Load(writeConfig(t, "refresh:\n  interval: 5\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CAMWATCH_MQTT_HOST", "override.local")

	content := `
cameras:
  - address: "10.0.1.20"
mqtt:
  broker:
    host: "file.local"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.Broker.Host != "override.local" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Cameras = []CameraConfig{{Address: "10.0.1.20"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}, wantErr: false},
		{name: "camera without address", mutate: func(c *Config) { c.Cameras[0].Address = "" }, wantErr: true},
		{name: "zero refresh interval", mutate: func(c *Config) { c.Refresh.Interval = 0 }, wantErr: true},
		{name: "zero device concurrency", mutate: func(c *Config) { c.Refresh.DeviceConcurrency = 0 }, wantErr: true},
		{name: "jpeg quality out of range", mutate: func(c *Config) { c.Snapshot.JPEGQuality = 101 }, wantErr: true},
		{name: "unknown transport", mutate: func(c *Config) { c.Events.Transport = "nats" }, wantErr: true},
		{name: "redis transport without addr", mutate: func(c *Config) { c.Events.Transport = "redis"; c.Redis.Addr = "" }, wantErr: true},
		{name: "invalid qos", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: true},
		{name: "influx enabled without url", mutate: func(c *Config) { c.InfluxDB.Enabled = true; c.InfluxDB.Bucket = "b" }, wantErr: true},
		{name: "bad api port", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig wrap", err)
			}
		})
	}
}
