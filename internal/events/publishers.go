package events

import (
	"github.com/nerrad567/camwatch/internal/infrastructure/mqtt"
	"github.com/nerrad567/camwatch/internal/infrastructure/redispub"
)

// MQTTPublisher routes notifications onto per-device MQTT topics.
type MQTTPublisher struct {
	client *mqtt.Client
	topics mqtt.Topics
}

// NewMQTTPublisher wraps a connected MQTT client.
func NewMQTTPublisher(client *mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

func (p *MQTTPublisher) DeviceInserted(id string, payload []byte) error {
	return p.client.PublishEvent(p.topics.DeviceInserted(id), payload)
}

func (p *MQTTPublisher) StatusUpdated(id string, payload []byte) error {
	return p.client.PublishEvent(p.topics.DeviceStatus(id), payload)
}

// RedisPublisher routes notifications onto shared pub/sub channels; the
// device id travels inside the payload.
type RedisPublisher struct {
	publisher *redispub.Publisher
}

// NewRedisPublisher wraps a connected Redis publisher.
func NewRedisPublisher(publisher *redispub.Publisher) *RedisPublisher {
	return &RedisPublisher{publisher: publisher}
}

func (p *RedisPublisher) DeviceInserted(_ string, payload []byte) error {
	return p.publisher.PublishEvent(redispub.ChannelDeviceInsert, payload)
}

func (p *RedisPublisher) StatusUpdated(_ string, payload []byte) error {
	return p.publisher.PublishEvent(redispub.ChannelDeviceUpdate, payload)
}
