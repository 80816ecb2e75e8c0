// Package isapi speaks the vendor's XML-over-HTTP device configuration
// protocol.
//
// One Client exists per device, built from the device's address and
// credentials; all clients share a single keep-alive connection pool and a
// fixed 30-second per-call timeout. Get and Put return either an image
// payload (content type image/*) or a parsed XML document; the document
// model in this package (Element) preserves element order and attributes so
// a fetched settings document can be edited and written back.
//
// The package defines explicit decoders for the message kinds the gateway
// consumes: DeviceInfo, the SmartCap capability manifest, and the
// LineDetection and FieldDetection settings documents. Coordinates stay in
// device pixel space here; normalization is the caller's concern.
//
// No retries happen at this layer. A timeout is indistinguishable from any
// other transport failure.
package isapi
