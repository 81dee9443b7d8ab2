package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LockName is the lock directory created in the project root while rule
// files are being written.
const LockName = ".compoder.lock"

const (
	lockPollStep = 120 * time.Millisecond
	lockStaleAge = 10 * time.Minute
)

// AcquireLock takes the project lock in dir, polling until it is free or ctx
// ends. onWait, if set, is called with the time waited so far on each retry.
// A lock older than ten minutes is considered abandoned and removed.
func AcquireLock(ctx context.Context, dir string, onWait func(time.Duration)) (release func() error, err error) {
	path := filepath.Join(dir, LockName)
	var waited time.Duration
	for {
		err := os.Mkdir(path, 0o755)
		if err == nil {
			owner := fmt.Sprintf("pid=%d\nacquired=%s\n", os.Getpid(), time.Now().Format(time.RFC3339Nano))
			_ = os.WriteFile(filepath.Join(path, "owner"), []byte(owner), 0o644)
			return func() error { return os.RemoveAll(path) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("acquire %s: %w", LockName, err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > lockStaleAge {
			_ = os.RemoveAll(path)
			continue
		}
		if onWait != nil {
			onWait(waited)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollStep):
			waited += lockPollStep
		}
	}
}
