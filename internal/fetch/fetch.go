// Package fetch downloads a remote gzip-tar archive and extracts it into place,
// all-or-nothing per archive.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/conn-castle/node-util/internal/logging"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// Defaults used when a Fetcher field is left zero.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxDownloadBytes = int64(1024 * 1024 * 1024)
)

// RemoteArchive is one download+extract unit.
type RemoteArchive struct {
	URL       string
	TempPath  string
	TargetDir string
}

// Fetcher downloads and extracts archives. It never retries.
type Fetcher struct {
	Client           *http.Client
	MaxDownloadBytes int64
	Logger           *slog.Logger
}

// New returns a Fetcher with the given client and byte cap, defaulting zero values.
func New(client *http.Client, maxBytes int64, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDownloadBytes
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fetcher{Client: client, MaxDownloadBytes: maxBytes, Logger: logger}
}

// FetchAndExtract downloads archive.URL to archive.TempPath, extracts it into
// archive.TargetDir, and deletes the temp file. A failed download writes nothing;
// a failed extraction leaves no TargetDir behind.
func (f *Fetcher) FetchAndExtract(ctx context.Context, archive RemoteArchive) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(archive.TargetDir); err == nil {
		return fmt.Errorf(messages.FetchTargetExistsFmt, nodeerr.ErrExtraction, archive.TargetDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.FetchStatTargetFmt, archive.TargetDir, err)
	}

	f.Logger.Info(messages.LogDownloading, "url", archive.URL, "path", archive.TempPath)
	if err := f.download(ctx, archive.URL, archive.TempPath); err != nil {
		return err
	}
	defer func() {
		f.Logger.Info(messages.LogDeletingTemp, "path", archive.TempPath)
		if err := os.Remove(archive.TempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.Logger.Warn(messages.LogDeleteTempFailed, "path", archive.TempPath, "error", err)
		}
	}()

	f.Logger.Info(messages.LogExtracting, "archive", archive.TempPath, "target", archive.TargetDir)
	return extractInto(archive.TempPath, archive.TargetDir)
}

// download streams url into path. The file is only created after a 200 response.
func (f *Fetcher) download(ctx context.Context, url string, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf(messages.FetchCreateRequestFmt, url, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf(messages.FetchRequestFailedFmt, nodeerr.ErrUpstreamUnavailable, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.FetchUnexpectedStatusFmt, nodeerr.ErrUpstreamUnavailable, url, resp.StatusCode)
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(messages.FetchCreateTempFmt, path, err)
	}
	n, copyErr := io.Copy(out, io.LimitReader(resp.Body, f.MaxDownloadBytes+1))
	closeErr := out.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return fmt.Errorf(messages.FetchRequestFailedFmt, nodeerr.ErrUpstreamUnavailable, url, copyErr)
	case n > f.MaxDownloadBytes:
		_ = os.Remove(path)
		return fmt.Errorf(messages.FetchTooLargeFmt, nodeerr.ErrUpstreamUnavailable, url, f.MaxDownloadBytes)
	case closeErr != nil:
		_ = os.Remove(path)
		return fmt.Errorf(messages.FetchCloseTempFmt, path, closeErr)
	}
	return nil
}

// extractInto unpacks archivePath into a sibling staging directory and renames it to
// targetDir once every member has been written.
func extractInto(archivePath string, targetDir string) error {
	parent := filepath.Dir(targetDir)
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(targetDir)+".extract-*")
	if err != nil {
		return fmt.Errorf(messages.FetchCreateStagingFmt, parent, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()

	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf(messages.FetchOpenArchiveFmt, archivePath, err)
	}
	defer func() { _ = file.Close() }()

	if err := ExtractTarGz(file, staging); err != nil {
		return err
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return fmt.Errorf(messages.FetchChmodStagingFmt, staging, err)
	}
	if err := os.Rename(staging, targetDir); err != nil {
		return fmt.Errorf(messages.FetchMoveIntoPlaceFmt, targetDir, err)
	}
	committed = true
	return nil
}
