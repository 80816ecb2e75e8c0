// Package snapshot composes annotated still images from device snapshots.
//
// A render fetches the device's current picture, rescales it (aspect ratio
// preserved when only one dimension is requested), overlays the cached
// line-detection geometry as translucent red strokes and re-encodes to the
// snapshot's original format. The compositor only reads the status cache;
// it never writes shared state. Every stage failure rejects the whole
// render.
package snapshot
