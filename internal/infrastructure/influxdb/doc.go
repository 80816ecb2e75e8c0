// Package influxdb provides the optional detection-history sink.
//
// When enabled, every status-store replacement writes one point per feature
// to the configured bucket (measurement "detection", tagged by device and
// feature), and every discovery writes a "discovery" point. Writes are
// batched and asynchronous; a failed batch is reported through the error
// callback and never blocks the refresh loop.
//
// The sink is disabled by default; Connect returns ErrDisabled in that case
// and the gateway runs without history.
package influxdb
