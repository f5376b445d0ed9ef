// Package resource bounds background work such as snapshot backup and
// restore.
//
//   - Concurrency: a weighted semaphore limits how many jobs run at once
//   - IO: a token bucket limits bytes per second moved by those jobs
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MaxBackgroundWorkers: 4,
//	    IOLimitBytesPerSec:   64 << 20,
//	})
//
//	if err := rc.AcquireBackground(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBackground()
//
//	r := resource.NewRateLimitedReader(ctx, file, rc)
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
