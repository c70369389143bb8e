package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/BWBrook/mewc-table/internal/sanity"
)

// acquireLock takes the single-writer lock guarding the output table. The
// returned release func is safe to call once.
func acquireLock(lockPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, sanity.Wrap(sanity.ErrConflict, "pipeline", "lock",
			fmt.Sprintf("another run holds %s", lockPath), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
