package health

import (
	"context"
	"os"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck returns a liveness CheckFunc that fails when the
// goroutine count exceeds threshold, catching leaks before they take the
// process down.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// DirWritableCheck returns a readiness CheckFunc that verifies dir accepts
// writes by creating and removing a probe file. A store that persists to
// local disk is only ready while its data directory is writable.
func DirWritableCheck(dir string) CheckFunc {
	return func(_ context.Context) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create data dir")
		}
		probe, err := os.CreateTemp(dir, ".probe-*")
		if err != nil {
			return errors.Wrapf(err, "data dir %s is not writable", dir)
		}
		name := probe.Name()
		probe.Close()
		if err := os.Remove(name); err != nil {
			return errors.Wrap(err, "remove probe file")
		}
		return nil
	}
}
