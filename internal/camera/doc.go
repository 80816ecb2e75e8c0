// Package camera holds the gateway's device model and the engine that
// drives it.
//
// The engine owns two keyed caches: the device registry, written only by
// discovery, and the detection status store, written only by refresh cycles.
// Both emit synchronous change notifications that the process wires to its
// event transport at startup.
//
// Discovery runs once at startup (and again on demand via Reload) over the
// configured device endpoints: identity first, then the capability
// manifest. An unreachable device at identity time fails the whole batch;
// the process treats that as fatal rather than operating on a partial
// fleet. Capability failures degrade the device to an empty capability set.
//
// The refresher re-fetches every capability's settings on a fixed interval,
// normalizes the device's pixel geometry into [0,1] bottom-left coordinate
// space and replaces each device's status in one atomic write. Failed
// fetches drop a capability for the cycle; unreadable documents keep the
// previous status.
package camera
