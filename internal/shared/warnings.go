package shared

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// WarningType represents different types of warnings
type WarningType int

const (
	TagWriteWarning WarningType = iota
	CoverArtWarning
	ListenerWarning
	CleanupWarning
	PlaylistExportWarning
	TrackSkippedWarning
)

func (wt WarningType) String() string {
	switch wt {
	case TagWriteWarning:
		return "Tag write"
	case CoverArtWarning:
		return "Cover art"
	case ListenerWarning:
		return "Listener"
	case CleanupWarning:
		return "Cleanup"
	case PlaylistExportWarning:
		return "Playlist export"
	case TrackSkippedWarning:
		return "Track skipped"
	default:
		return "Unknown"
	}
}

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // song/playlist context
	Details string // underlying error text
}

// WarningCollector collects warnings during download and export operations.
// Download listeners run on worker goroutines, so access is synchronized.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	})
}

// AddTagWriteWarning records a failed tag write on a completed download.
func (wc *WarningCollector) AddTagWriteWarning(artist, title, details string) {
	wc.AddWarning(TagWriteWarning, fmt.Sprintf("%s - %s", artist, title), "Failed to write tags", details)
}

// AddListenerWarning records a download listener that panicked.
func (wc *WarningCollector) AddListenerWarning(event, details string) {
	wc.AddWarning(ListenerWarning, event, "Download listener panicked", details)
}

// AddCleanupWarning records a session file that could not be removed.
func (wc *WarningCollector) AddCleanupWarning(path, details string) {
	wc.AddWarning(CleanupWarning, path, "Failed to remove unplayed file", details)
}

// HasWarnings reports whether any warnings were collected.
func (wc *WarningCollector) HasWarnings() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings) > 0
}

// GetWarningCount returns the number of collected warnings.
func (wc *WarningCollector) GetWarningCount() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings)
}

// DisplaySummary prints all collected warnings grouped by type.
func (wc *WarningCollector) DisplaySummary() {
	wc.mu.Lock()
	sorted := make([]Warning, len(wc.warnings))
	copy(sorted, wc.warnings)
	wc.mu.Unlock()
	if len(sorted) == 0 {
		return
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Type < sorted[j].Type
	})

	ColorWarning.Printf("\n⚠️ %d warning(s) during this session:\n", len(sorted))
	for _, w := range sorted {
		line := fmt.Sprintf("  [%s] %s", w.Type, w.Message)
		if w.Context != "" {
			line += fmt.Sprintf(" (%s)", w.Context)
		}
		if w.Details != "" {
			line += ": " + strings.TrimSpace(w.Details)
		}
		ColorWarning.Println(line)
	}
}
