package camera

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/camwatch/internal/fanout"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
	"github.com/nerrad567/camwatch/internal/isapi"
)

// Fan-out widths. Discovery and refresh spread across devices at
// fleetConcurrency; configuration fetches against one device run strictly in
// sequence because the devices cannot serve concurrent configuration
// requests.
const (
	defaultFleetConcurrency = 10
	deviceConcurrency       = 1
)

// ProtocolClient is the subset of the device protocol client the engine
// drives. One client per configured device.
type ProtocolClient interface {
	Get(ctx context.Context, path string) (*isapi.Response, error)
	Put(ctx context.Context, path string, doc *isapi.Element) (*isapi.Response, error)
	Host() string
}

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	// FleetConcurrency bounds how many devices are worked in parallel during
	// discovery and refresh cycles.
	FleetConcurrency int
}

// Engine owns the device registry and status store and drives every
// multi-device operation: startup discovery, periodic status refresh,
// detection toggles, and snapshot fetches.
//
// The registry is written only by discovery and the status store only by
// refresh cycles; everything else reads.
type Engine struct {
	endpoints []ProtocolClient
	fleet     int
	log       *logging.Logger

	registry *Store[Device]
	statuses *Store[DetectionStatus]

	mu      sync.RWMutex
	clients map[string]ProtocolClient // device ID -> client, set by discovery
}

// NewEngine creates an engine over the configured device endpoints.
func NewEngine(endpoints []ProtocolClient, log *logging.Logger, opts Options) *Engine {
	fleet := opts.FleetConcurrency
	if fleet < 1 {
		fleet = defaultFleetConcurrency
	}
	return &Engine{
		endpoints: endpoints,
		fleet:     fleet,
		log:       log,
		registry:  NewStore[Device](),
		statuses:  NewStore[DetectionStatus](),
		clients:   make(map[string]ProtocolClient),
	}
}

// OnDeviceInserted registers an observer for device-inserted notifications.
func (e *Engine) OnDeviceInserted(fn func(Event[Device])) {
	e.registry.Subscribe(fn)
}

// OnStatusUpdated registers an observer for status-updated notifications.
func (e *Engine) OnStatusUpdated(fn func(Event[DetectionStatus])) {
	e.statuses.Subscribe(fn)
}

// Discover walks every configured endpoint once: fetch identity, insert the
// device into the registry, then fetch the capability manifest. An identity
// failure on any device fails the whole batch; a capability failure leaves
// that device with an empty capability set.
func (e *Engine) Discover(ctx context.Context) error {
	err := fanout.ForEach(ctx, e.endpoints, e.fleet, func(ctx context.Context, client ProtocolClient) error {
		return e.discoverDevice(ctx, client)
	})
	if err != nil {
		return fmt.Errorf("discovering devices: %w", err)
	}

	e.log.Info("discovery complete", "devices", e.registry.Len())
	return nil
}

func (e *Engine) discoverDevice(ctx context.Context, client ProtocolClient) error {
	resp, err := client.Get(ctx, isapi.DeviceInfoPath)
	if err != nil {
		return fmt.Errorf("device %s: identity fetch: %w", client.Host(), err)
	}
	info, err := isapi.ParseDeviceInfo(resp.Document)
	if err != nil {
		return fmt.Errorf("device %s: identity fetch: %w", client.Host(), err)
	}

	dev := Device{
		ID:           info.ID,
		Name:         info.Name,
		Location:     info.Location,
		Type:         DeviceTypeCamera,
		Capabilities: make(map[string]struct{}),
	}

	e.mu.Lock()
	e.clients[dev.ID] = client
	e.mu.Unlock()

	e.registry.Put(dev.ID, dev)

	e.log.Info("device discovered",
		"device_id", dev.ID, "name", dev.Name, "host", client.Host())

	resp, err = client.Get(ctx, isapi.CapabilitiesPath)
	if err != nil {
		e.log.Warn("capability fetch failed, continuing without capabilities",
			"device_id", dev.ID, "error", err)
		return nil
	}
	features, err := isapi.ParseCapabilities(resp.Document)
	if err != nil {
		e.log.Warn("capability manifest unreadable, continuing without capabilities",
			"device_id", dev.ID, "error", err)
		return nil
	}

	// The record already published by Put shares its map with dev, so the
	// capability set goes into a fresh map and replaces it in one write.
	caps := make(map[string]struct{}, len(features))
	for _, feature := range features {
		caps[feature] = struct{}{}
	}
	dev.Capabilities = caps
	// The insert was already announced; completing the record stays quiet.
	e.registry.PutQuiet(dev.ID, dev)

	e.log.Info("device capabilities recorded",
		"device_id", dev.ID, "capabilities", len(dev.Capabilities))
	return nil
}

// Reload re-runs discovery over the configured endpoints, replacing every
// device record. Unlike startup discovery a failure here is returned to the
// caller rather than terminating the process.
func (e *Engine) Reload(ctx context.Context) error {
	e.log.Info("reloading device fleet")
	return e.Discover(ctx)
}

// RefreshAll runs one status refresh cycle over every device with at least
// one capability. Per-device failures are logged and skipped; the cycle
// itself never fails.
func (e *Engine) RefreshAll(ctx context.Context) {
	devices := e.registry.List()

	// Swallowed errors keep one bad device from cancelling the others.
	_ = fanout.ForEach(ctx, devices, e.fleet, func(ctx context.Context, dev Device) error {
		if len(dev.Capabilities) == 0 {
			return nil
		}
		e.refreshDevice(ctx, dev)
		return nil
	})
}

// refreshDevice fetches every capability's settings in sequence, assembles
// the canonical status and replaces the device's entry in one write. A
// failed fetch drops that capability from this cycle; a parse failure skips
// the write entirely so the previous status survives.
func (e *Engine) refreshDevice(ctx context.Context, dev Device) {
	client, ok := e.clientFor(dev.ID)
	if !ok {
		return
	}

	features := make([]string, 0, len(dev.Capabilities))
	for feature := range dev.Capabilities {
		features = append(features, feature)
	}
	sort.Strings(features)

	var docMu sync.Mutex
	docs := make(map[string]*isapi.Element, len(features))

	_ = fanout.ForEach(ctx, features, deviceConcurrency, func(ctx context.Context, feature string) error {
		resp, err := client.Get(ctx, isapi.SettingPath(feature))
		if err != nil {
			e.log.Warn("settings fetch failed, omitting capability this cycle",
				"device_id", dev.ID, "feature", feature, "error", err)
			return nil
		}
		docMu.Lock()
		docs[feature] = resp.Document
		docMu.Unlock()
		return nil
	})

	if len(docs) == 0 {
		e.log.Warn("no capability settings fetched, keeping previous status",
			"device_id", dev.ID)
		return
	}

	status, err := assembleStatus(docs)
	if err != nil {
		e.log.Warn("status assembly failed, keeping previous status",
			"device_id", dev.ID, "error", err)
		return
	}

	e.statuses.Put(dev.ID, status)
}

// ListDevices returns every discovered device with its current status,
// ordered by device ID.
func (e *Engine) ListDevices() []DeviceState {
	devices := e.registry.List()
	out := make([]DeviceState, 0, len(devices))
	for _, dev := range devices {
		status, _ := e.statuses.Get(dev.ID)
		out = append(out, DeviceState{Device: dev, Status: status})
	}
	return out
}

// GetDeviceStatus returns the current detection status for a device. An id
// that was never discovered yields ErrDeviceNotFound; a discovered device
// that has not completed a refresh yet yields an empty status.
func (e *Engine) GetDeviceStatus(id string) (DetectionStatus, error) {
	if _, ok := e.registry.Get(id); !ok {
		return DetectionStatus{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	status, _ := e.statuses.Get(id)
	return status, nil
}

// SetLineDetection toggles line-crossing detection on a device by fetching
// the current settings document, rewriting its enabled flag and writing the
// whole document back.
func (e *Engine) SetLineDetection(ctx context.Context, id string, enabled bool) error {
	return e.setDetection(ctx, id, isapi.FeatureLineDetection, enabled)
}

// SetFieldDetection toggles field-intrusion detection on a device.
func (e *Engine) SetFieldDetection(ctx context.Context, id string, enabled bool) error {
	return e.setDetection(ctx, id, isapi.FeatureFieldDetection, enabled)
}

func (e *Engine) setDetection(ctx context.Context, id, feature string, enabled bool) error {
	client, ok := e.clientFor(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	path := isapi.SettingPath(feature)
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("device %s: fetching %s settings: %w", id, feature, err)
	}
	if err := isapi.SetEnabled(resp.Document, feature, enabled); err != nil {
		return fmt.Errorf("device %s: rewriting %s settings: %w", id, feature, err)
	}
	if _, err := client.Put(ctx, path, resp.Document); err != nil {
		return fmt.Errorf("device %s: writing %s settings: %w", id, feature, err)
	}

	e.log.Info("detection toggled", "device_id", id, "feature", feature, "enabled", enabled)
	return nil
}

// Snapshot fetches the device's current still image.
func (e *Engine) Snapshot(ctx context.Context, id string) (contentType string, data []byte, err error) {
	client, ok := e.clientFor(id)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	resp, err := client.Get(ctx, isapi.SnapshotPath)
	if err != nil {
		return "", nil, fmt.Errorf("device %s: snapshot fetch: %w", id, err)
	}
	if !resp.IsImage() {
		return "", nil, fmt.Errorf("device %s: snapshot fetch: %w: expected image response",
			id, isapi.ErrBadDocument)
	}
	return resp.ContentType, resp.Image, nil
}

// LineStatus returns the cached line-crossing status for a device, if any.
// Read by the image compositor; never mutates the store.
func (e *Engine) LineStatus(id string) (*LineStatus, bool) {
	status, ok := e.statuses.Get(id)
	if !ok || status.Line == nil {
		return nil, false
	}
	return status.Line, true
}

func (e *Engine) clientFor(id string) (ProtocolClient, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	client, ok := e.clients[id]
	return client, ok
}
