package configgen

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/messages"
)

// DefaultDiffMaxLines caps a rendered diff when the caller passes no limit.
const DefaultDiffMaxLines = 80

// ErrNothingPending reports a version directory without config.toml.new.
var ErrNothingPending = errors.New(messages.ConfiggenNothingPending)

// Diff describes the change promoting config.toml.new would make.
type Diff struct {
	CurrentPath string
	PendingPath string
	Unified     string
	Truncated   bool
}

// Empty reports whether the pending config matches the current one.
func (d Diff) Empty() bool {
	return d.Unified == ""
}

// PendingDiff renders a unified diff from config.toml to config.toml.new in versionDir,
// truncated to maxLines lines.
func PendingDiff(sys System, versionDir string, maxLines int) (Diff, error) {
	current, pending, err := readPair(sys, versionDir)
	if err != nil {
		return Diff{}, err
	}
	d := Diff{
		CurrentPath: filepath.Join(versionDir, layout.ConfigFile),
		PendingPath: filepath.Join(versionDir, layout.ConfigNewFile),
	}
	if current == pending {
		return d, nil
	}
	unified := udiff.Unified(layout.ConfigFile, layout.ConfigNewFile, current, pending)
	d.Unified, d.Truncated = truncateLines(unified, maxLines)
	return d, nil
}

// Promote replaces config.toml in versionDir with config.toml.new.
func Promote(sys System, versionDir string) (string, error) {
	if _, _, err := readPair(sys, versionDir); err != nil {
		return "", err
	}
	pendingPath := filepath.Join(versionDir, layout.ConfigNewFile)
	configPath := filepath.Join(versionDir, layout.ConfigFile)
	if err := sys.Rename(pendingPath, configPath); err != nil {
		return "", fmt.Errorf(messages.ConfiggenPromoteFmt, pendingPath, configPath, err)
	}
	return configPath, nil
}

func readPair(sys System, versionDir string) (string, string, error) {
	if sys == nil {
		return "", "", errors.New(messages.ConfiggenSystemRequired)
	}
	pendingPath := filepath.Join(versionDir, layout.ConfigNewFile)
	pending, err := sys.ReadFile(pendingPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf(messages.ConfiggenNothingPendingFmt, ErrNothingPending, versionDir)
		}
		return "", "", fmt.Errorf(messages.ConfiggenReadFmt, pendingPath, err)
	}
	configPath := filepath.Join(versionDir, layout.ConfigFile)
	current, err := sys.ReadFile(configPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", "", fmt.Errorf(messages.ConfiggenReadFmt, configPath, err)
	}
	return string(current), string(pending), nil
}

func truncateLines(content string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		maxLines = DefaultDiffMaxLines
	}
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return "", false
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= maxLines {
		return trimmed + "\n", false
	}
	return strings.Join(lines[:maxLines], "\n") + "\n", true
}
