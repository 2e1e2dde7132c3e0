// download.go implements the artifact download step used by the desktop
// catalogs.
package steps

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

const (
	// darwinDesktopURL is the official Docker Desktop disk image for
	// macOS.
	darwinDesktopURL = "https://desktop.docker.com/mac/main/amd64/Docker.dmg"

	// windowsDesktopURL is the official Docker Desktop installer for
	// Windows.
	windowsDesktopURL = "https://desktop.docker.com/win/main/amd64/Docker%20Desktop%20Installer.exe"

	// downloadAttempts bounds the retry loop around transient network
	// failures.
	downloadAttempts = 3
)

// DownloadStep fetches an installer artifact over HTTP into a scratch
// file. The scratch path is registered with the resource registry the
// moment it exists, so the artifact is removed during cleanup on every
// outcome; rollback removes it eagerly.
type DownloadStep struct {
	sequence.StepBase

	url        string
	client     *http.Client
	retryDelay time.Duration

	dest string
	size int64
}

// NewDownloadStep creates a download step for the given URL.
func NewDownloadStep(url string) *DownloadStep {
	return &DownloadStep{
		StepBase:   sequence.StepBase{Desc: "Downloading Docker Desktop"},
		url:        url,
		client:     &http.Client{Timeout: 10 * time.Minute},
		retryDelay: 2 * time.Second,
	}
}

// Path returns the local path of the downloaded artifact. Empty until
// Execute has created the scratch file.
func (s *DownloadStep) Path() string {
	return s.dest
}

// Execute downloads the artifact, backing off exponentially between
// attempts. Each attempt rewrites the scratch file from the beginning.
func (s *DownloadStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Downloading Docker Desktop from %s...", s.url)

	f, err := os.CreateTemp("", "dockhand-desktop-*")
	if err != nil {
		return fmt.Errorf("failed to create download target: %w", err)
	}
	s.dest = f.Name()
	f.Close()
	rc.RegisterResource(s.dest)

	err = retry.Do(
		func() error { return s.fetch(rc) },
		retry.Attempts(downloadAttempts),
		retry.Context(rc.Context()),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			rc.Logf("Download attempt %d failed: %v; retrying...", n+1, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	rc.Logf("Downloaded %d bytes to %s", s.size, s.dest)
	return nil
}

// fetch performs one download attempt.
func (s *DownloadStep) fetch(rc *sequence.RunContext) error {
	req, err := http.NewRequestWithContext(rc.Context(), http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	f, err := os.Create(s.dest)
	if err != nil {
		return err
	}

	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return closeErr
	}

	s.size = n
	return nil
}

// Rollback removes the downloaded artifact ahead of the registry's final
// cleanup pass. An already absent file is not an error.
func (s *DownloadStep) Rollback(rc *sequence.RunContext) error {
	if s.dest == "" {
		return nil
	}
	rc.Logf("Removing downloaded Docker Desktop artifact...")
	if err := os.Remove(s.dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
