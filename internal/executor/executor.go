// Package executor wraps the external python download/playback backend as a
// subprocess. The backend is slow (seconds to minutes) and occasionally
// hangs, so every call carries a hard timeout and a killed process on
// expiry. Launch failures surface as errors, never as panics.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tunedeck/internal/config"
	"tunedeck/internal/shared"
)

// Executor is the download backend contract consumed by the orchestrator.
// DownloadByQuery reports whether a usable audio file was produced somewhere
// discoverable; FindLatestAudioFile resolves where. PlayFile only promises
// that playback was initiated.
type Executor interface {
	DownloadByQuery(ctx context.Context, query string) (bool, error)
	FindLatestAudioFile() (string, error)
	PlayFile(ctx context.Context, path string) (bool, error)
}

const (
	downloadResultMarker = "DOWNLOAD_RESULT:"
	playbackResultMarker = "PLAYBACK_RESULT:"

	// The backend process is launched at most twice per second; spotdl
	// itself rate-limits upstream, this just keeps repeated launches from
	// stampeding the interpreter.
	launchRateLimit = 500 * time.Millisecond
	launchBurst     = 2
)

// SpotdlExecutor shells out to the python music backend.
type SpotdlExecutor struct {
	pythonExecutable string
	backendPath      string
	downloadDir      string
	downloadTimeout  time.Duration
	playbackTimeout  time.Duration
	limiter          *rate.Limiter
	debug            bool
}

// NewSpotdlExecutor builds an executor from configuration.
func NewSpotdlExecutor(cfg *config.Config, debug bool) *SpotdlExecutor {
	return &SpotdlExecutor{
		pythonExecutable: cfg.PythonExecutable,
		backendPath:      cfg.BackendPath,
		downloadDir:      cfg.DownloadLocation,
		downloadTimeout:  cfg.DownloadTimeout(),
		playbackTimeout:  cfg.PlaybackTimeout(),
		limiter:          rate.NewLimiter(rate.Every(launchRateLimit), launchBurst),
		debug:            debug,
	}
}

// DownloadByQuery asks the backend to search for and download the query.
// The subprocess is killed when the context or the download timeout expires;
// a timeout is reported as a failed download, not a crash.
func (e *SpotdlExecutor) DownloadByQuery(ctx context.Context, query string) (bool, error) {
	if strings.TrimSpace(query) == "" {
		return false, shared.ErrEmptyQuery
	}

	script := fmt.Sprintf(
		"import sys, os; os.environ['PYTHONIOENCODING'] = 'utf-8'; sys.path.append(%q); "+
			"from downloader import search_and_download; "+
			"result = search_and_download(%q, %q); "+
			"print('%s' + str(result))",
		e.backendPath, query, e.downloadDir, downloadResultMarker)

	output, err := e.run(ctx, e.downloadTimeout, script)
	if err != nil {
		return false, err
	}
	return parseMarker(output, downloadResultMarker), nil
}

// PlayFile asks the backend to start playback of the given file.
func (e *SpotdlExecutor) PlayFile(ctx context.Context, path string) (bool, error) {
	if !shared.FileExists(path) {
		return false, fmt.Errorf("audio file not found: %s", path)
	}

	script := fmt.Sprintf(
		"import sys, os; os.environ['PYTHONIOENCODING'] = 'utf-8'; sys.path.append(%q); "+
			"from player import play_audio_file; "+
			"result = play_audio_file(%q); "+
			"print('%s' + str(result))",
		e.backendPath, path, playbackResultMarker)

	output, err := e.run(ctx, e.playbackTimeout, script)
	if err != nil {
		return false, err
	}
	return parseMarker(output, playbackResultMarker), nil
}

// FindLatestAudioFile scans the downloads directory directly rather than
// shelling out: the lookup is pure file metadata and the subprocess round
// trip bought nothing but a 5 second timeout window.
func (e *SpotdlExecutor) FindLatestAudioFile() (string, error) {
	return LatestAudioFile(e.downloadDir)
}

func (e *SpotdlExecutor) run(ctx context.Context, timeout time.Duration, script string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.pythonExecutable, "-c", script)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	shared.DebugPrint(e.debug, "launching backend: %s -c <script>", e.pythonExecutable)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("backend call timed out after %s", timeout)
		}
		if ctx.Err() == context.Canceled {
			return "", ctx.Err()
		}
		if _, ok := err.(*exec.ExitError); !ok {
			// The interpreter itself could not be started.
			return "", fmt.Errorf("%w: %v", shared.ErrExecutorUnavailable, err)
		}
		return "", fmt.Errorf("backend exited abnormally: %v: %s", err, firstLine(buf.String()))
	}
	return buf.String(), nil
}

// LatestAudioFile returns the most recently modified audio file under dir,
// or empty when none exists.
func LatestAudioFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to scan downloads directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !shared.IsAudioFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(dir, entry.Name())
			latestMod = info.ModTime()
		}
	}
	return latest, nil
}

func parseMarker(output, marker string) bool {
	scanner := bufio.NewScanner(strings.NewReader(output))
	result := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, marker+"True") {
			result = true
		} else if strings.Contains(line, marker+"False") {
			result = false
		}
	}
	return result
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
