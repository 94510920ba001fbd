// Package updater checks the project repository for a newer release.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	version "github.com/hashicorp/go-version"

	"tunedeck/internal/config"
	"tunedeck/internal/shared"
)

const defaultRepo = "tunedeck/tunedeck"

var httpClient = &http.Client{Timeout: 10 * time.Second}

// CheckForUpdates compares the running version against the repository's
// published version and prints the outcome. Failures are reported, never
// fatal: an update check must not break the player.
func CheckForUpdates(cfg *config.Config, currentVersion string) {
	if cfg.DisableUpdateCheck {
		shared.ColorInfo.Println("Update check is disabled in config.")
		return
	}

	repo := defaultRepo
	if cfg.UpdateRepo != "" {
		repo = cfg.UpdateRepo
	}
	rawURL := fmt.Sprintf("https://raw.githubusercontent.com/%s/main/version/version.json", repo)

	resp, err := httpClient.Get(rawURL)
	if err != nil {
		shared.ColorError.Printf("❌ Error checking for updates: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		shared.ColorError.Printf("❌ Error checking for updates: server returned %s\n", resp.Status)
		return
	}

	var remote shared.VersionInfo
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		shared.ColorError.Printf("❌ Error decoding remote version info: %v\n", err)
		return
	}

	if isNewerVersion(remote.Version, currentVersion) {
		shared.ColorWarning.Printf("🚨 A newer version (%s) is available; you are running %s.\n", remote.Version, currentVersion)
		shared.ColorInfo.Printf("See https://github.com/%s/releases for the update.\n", repo)
	} else {
		shared.ColorSuccess.Println("✅ You are running the latest version.")
	}
}

// isNewerVersion compares two versions using semantic versioning. Unparsable
// versions are treated as not newer.
func isNewerVersion(latest, current string) bool {
	vLatest, err := version.NewVersion(latest)
	if err != nil {
		shared.ColorWarning.Printf("⚠️ Error parsing latest version %q: %v\n", latest, err)
		return false
	}
	vCurrent, err := version.NewVersion(current)
	if err != nil {
		shared.ColorWarning.Printf("⚠️ Error parsing current version %q: %v\n", current, err)
		return false
	}
	return vLatest.GreaterThan(vCurrent)
}
