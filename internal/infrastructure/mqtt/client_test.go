package mqtt

import (
	"errors"
	"strings"
	"testing"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/camwatch/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "camwatch-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// unconnectedClient returns a Client that was never connected to a broker.
func unconnectedClient() *Client {
	cfg := testConfig()
	opts := buildClientOptions(cfg)
	return &Client{
		cfg:     cfg,
		options: opts,
		client:  pahomqtt.NewClient(opts),
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "user"
	cfg.Auth.Password = "pass"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("len(Servers) = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
	}
	if opts.ClientID != "camwatch-test" {
		t.Errorf("ClientID = %q, want camwatch-test", opts.ClientID)
	}
	if opts.Username != "user" {
		t.Errorf("Username = %q, want user", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("broker scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig is nil, want configured")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "camwatch-test")

	if opts.WillTopic != (Topics{}).SystemStatus() {
		t.Errorf("WillTopic = %q, want system status topic", opts.WillTopic)
	}
	if !strings.Contains(string(opts.WillPayload), `"status":"offline"`) {
		t.Errorf("WillPayload = %q, want offline status", opts.WillPayload)
	}
	if !opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}
}

func TestPublish_EmptyTopic(t *testing.T) {
	c := unconnectedClient()
	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublish_InvalidQoS(t *testing.T) {
	c := unconnectedClient()
	if err := c.Publish("camwatch/test", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublish_OversizedPayload(t *testing.T) {
	c := unconnectedClient()
	payload := make([]byte, maxPayloadSize+1)
	if err := c.Publish("camwatch/test", payload, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestPublish_Disconnected(t *testing.T) {
	c := unconnectedClient()
	if err := c.Publish("camwatch/test", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		got  string
		want string
	}{
		{topics.DeviceInserted("cam-01"), "camwatch/device/cam-01/inserted"},
		{topics.DeviceStatus("cam-01"), "camwatch/device/cam-01/status"},
		{topics.SystemStatus(), "camwatch/system/status"},
		{topics.AllDeviceInserts(), "camwatch/device/+/inserted"},
		{topics.AllDeviceStatuses(), "camwatch/device/+/status"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}
