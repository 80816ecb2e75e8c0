package events

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/camwatch/internal/camera"
	"github.com/nerrad567/camwatch/internal/infrastructure/influxdb"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
)

// Publisher delivers one notification per cache write to the configured
// transport. Delivery is fire-and-forget for the writer; a returned error
// means the transport is gone, which the notifier treats as fatal.
type Publisher interface {
	DeviceInserted(id string, payload []byte) error
	StatusUpdated(id string, payload []byte) error
}

// envelope is the wire payload for both notification kinds.
type envelope struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// Notifier bridges the engine's synchronous cache notifications onto the
// event transport, and optionally records detection history.
//
// A publish failure is reported once on the Fatal channel; the run loop
// shuts the process down. Operating with a dead notification channel is
// worse than restarting.
type Notifier struct {
	publisher Publisher
	history   *influxdb.Client
	log       *logging.Logger
	fatal     chan error
}

// NewNotifier creates a notifier over the given transport. history may be
// nil when detection history is disabled.
func NewNotifier(publisher Publisher, history *influxdb.Client, log *logging.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		history:   history,
		log:       log,
		fatal:     make(chan error, 1),
	}
}

// Fatal delivers the first unrecoverable transport failure.
func (n *Notifier) Fatal() <-chan error {
	return n.fatal
}

// Bind subscribes the notifier to the engine's cache events. Call once
// during startup wiring, before discovery runs.
func (n *Notifier) Bind(engine *camera.Engine) {
	engine.OnDeviceInserted(n.onDeviceInserted)
	engine.OnStatusUpdated(n.onStatusUpdated)
}

func (n *Notifier) onDeviceInserted(ev camera.Event[camera.Device]) {
	payload, err := json.Marshal(envelope{ID: ev.ID, Value: ev.Value})
	if err != nil {
		n.log.Error("marshalling device event", "device_id", ev.ID, "error", err)
		return
	}

	if err := n.publisher.DeviceInserted(ev.ID, payload); err != nil {
		n.reportFatal(fmt.Errorf("publishing device-inserted event: %w", err))
		return
	}

	if n.history != nil {
		n.history.WriteDeviceDiscovered(ev.ID, len(ev.Value.Capabilities))
	}
}

func (n *Notifier) onStatusUpdated(ev camera.Event[camera.DetectionStatus]) {
	payload, err := json.Marshal(envelope{ID: ev.ID, Value: ev.Value})
	if err != nil {
		n.log.Error("marshalling status event", "device_id", ev.ID, "error", err)
		return
	}

	if err := n.publisher.StatusUpdated(ev.ID, payload); err != nil {
		n.reportFatal(fmt.Errorf("publishing status-updated event: %w", err))
		return
	}

	if n.history != nil {
		if line := ev.Value.Line; line != nil {
			n.history.WriteDetectionEvent(ev.ID, camera.FeatureKeyLine, line.Enabled, len(line.Lines))
		}
		if field := ev.Value.Field; field != nil {
			n.history.WriteDetectionEvent(ev.ID, camera.FeatureKeyField, field.Enabled, len(field.Regions))
		}
	}
}

// reportFatal hands the first failure to the run loop; later failures are
// logged only, the process is already coming down.
func (n *Notifier) reportFatal(err error) {
	select {
	case n.fatal <- err:
	default:
		n.log.Error("notification transport failure after shutdown started", "error", err)
	}
}
