// Package cleanup removes files downloaded during a session but never
// actually played. It runs once, at orderly shutdown.
package cleanup

import (
	"os"

	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

// SessionCleanup inspects the files produced during the current process
// session against library play counts.
type SessionCleanup struct {
	lib      *library.Library
	warnings *shared.WarningCollector
}

// New creates a SessionCleanup over the given library.
func New(lib *library.Library, warnings *shared.WarningCollector) *SessionCleanup {
	return &SessionCleanup{lib: lib, warnings: warnings}
}

// Run deletes every session-produced file whose song has a play count of
// zero and returns how many were removed. Files that predate the session
// are never in sessionFiles and are preserved unconditionally, as is any
// file played at least once. Individual deletion errors are logged and
// skipped, never fatal.
func (c *SessionCleanup) Run(sessionFiles []string) int {
	removed := 0
	for _, path := range sessionFiles {
		plays, known := c.lib.PlayCountByPath(path)
		if known && plays > 0 {
			continue
		}
		if !shared.FileExists(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			shared.ColorWarning.Printf("⚠️ Could not remove unplayed file %s: %v\n", path, err)
			if c.warnings != nil {
				c.warnings.AddCleanupWarning(path, err.Error())
			}
			continue
		}
		shared.ColorInfo.Printf("🧹 Removed unplayed download: %s\n", path)
		removed++
	}
	return removed
}
