// Package fanout provides the bounded-concurrency executor used for all
// multi-device operations.
//
// The gateway uses it at two widths: 10 across the camera fleet (devices are
// independent) and 1 across the settings fetches for a single device (the
// devices cannot safely serve concurrent configuration requests).
//
//	err := fanout.ForEach(ctx, cameras, 10, func(ctx context.Context, cam *Camera) error {
//	    // per-device work; return an error to abort the batch,
//	    // or log and return nil to tolerate the failure
//	    return nil
//	})
package fanout
