package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AudioExtensions lists the file extensions the downloads directory scan
// recognizes as playable audio.
var AudioExtensions = []string{".mp3", ".wav", ".m4a", ".flac"}

// IsAudioFile reports whether the path carries a known audio extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range AudioExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// NormalizeQuery canonicalizes a search query for cache and library keys.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ParseArtistTitle extracts artist and title from a downloaded file name of
// the form "Artist - Title.mp3". The split is on the FIRST " - " occurrence;
// titles that themselves contain " - " lose their prefix to the artist field.
// That ambiguity is inherited from how the backend names files.
//
// When the file name has no separator, the original query is split on its
// first whitespace into artist and title. A single-word query falls back to
// "Unknown Artist" with the query as title.
func ParseArtistTitle(fileName, originalQuery string) (artist, title string) {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if idx := strings.Index(base, " - "); idx >= 0 {
		artist = strings.TrimSpace(base[:idx])
		title = strings.TrimSpace(base[idx+3:])
		if artist != "" && title != "" {
			return artist, title
		}
	}

	parts := strings.SplitN(strings.TrimSpace(originalQuery), " ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "Unknown Artist", originalQuery
}

// TruncateString truncates a string to a maximum length, adding "..." if truncated
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatElapsed renders a task duration for console output.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// GetUserInput prompts the user and returns the entered value, or the
// default when the user just presses enter.
func GetUserInput(prompt, defaultValue string) string {
	if defaultValue != "" {
		ColorPrompt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		ColorPrompt.Printf("%s: ", prompt)
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

// RetryWithBackoff retries the given function with exponential backoff.
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == maxRetries-1 {
			break
		}
		time.Sleep(initialDelay * (1 << attempt))
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, err)
}
