// Package retention removes published videos and stale run workspaces
// once their time-to-live has passed.
package retention

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sweep removes entries directly under dir whose name starts with prefix
// and whose modification time is older than now minus ttl. Directories are
// removed recursively. It returns the number of entries removed; per-entry
// failures are logged and skipped so one bad file never blocks the sweep.
func Sweep(dir, prefix string, ttl time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := now.Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("Sweep: stat %s: %v", entry.Name(), err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Printf("Sweep: remove %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}
