// Package layout names the on-disk locations the node software is staged into.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
	"github.com/conn-castle/node-util/internal/settings"
)

// File names inside a version's config directory.
const (
	ChainspecFile     = "chainspec.toml"
	ConfigFile        = "config.toml"
	ConfigExampleFile = "config-example.toml"
	ConfigNewFile     = "config.toml.new"
)

// DefaultPlatform is the distribution assumed when no platform indicator exists.
const DefaultPlatform = "deb"

// Layout holds the roots of a node install.
type Layout struct {
	ConfigRoot       string
	BinRoot          string
	NetworkConfigDir string
	PlatformFile     string
	BinaryName       string
}

// FromSettings derives a Layout, filling network_configs and PLATFORM under the config root
// when settings leave them empty.
func FromSettings(s settings.Settings) Layout {
	l := Layout{
		ConfigRoot:       s.ConfigRoot,
		BinRoot:          s.BinRoot,
		NetworkConfigDir: s.NetworkConfigDir,
		PlatformFile:     s.PlatformFile,
		BinaryName:       s.BinaryName,
	}
	if l.NetworkConfigDir == "" {
		l.NetworkConfigDir = filepath.Join(l.ConfigRoot, "network_configs")
	}
	if l.PlatformFile == "" {
		l.PlatformFile = filepath.Join(l.ConfigRoot, "PLATFORM")
	}
	if l.BinaryName == "" {
		l.BinaryName = settings.DefaultBinaryName
	}
	return l
}

// ValidateVersion rejects a version that would not name exactly one directory under
// each root: empty, ".", "..", absolute, or containing a path separator.
func ValidateVersion(version string) error {
	if version == "." || strings.ContainsAny(version, `/\`) || !filepath.IsLocal(version) {
		return fmt.Errorf(messages.LayoutInvalidVersionFmt, nodeerr.ErrInvalidVersion, version)
	}
	return nil
}

// ConfigDir returns the config directory for version.
func (l Layout) ConfigDir(version string) string {
	return filepath.Join(l.ConfigRoot, version)
}

// BinDir returns the binary directory for version.
func (l Layout) BinDir(version string) string {
	return filepath.Join(l.BinRoot, version)
}

// BinaryPath returns the node binary for version.
func (l Layout) BinaryPath(version string) string {
	return filepath.Join(l.BinDir(version), l.BinaryName)
}

// ChainspecPath returns the chainspec for version.
func (l Layout) ChainspecPath(version string) string {
	return filepath.Join(l.ConfigDir(version), ChainspecFile)
}

// ConfigPath returns the materialized config for version.
func (l Layout) ConfigPath(version string) string {
	return filepath.Join(l.ConfigDir(version), ConfigFile)
}

// NetworkConfigPath returns the network config resource named name.
func (l Layout) NetworkConfigPath(name string) string {
	return filepath.Join(l.NetworkConfigDir, name)
}

// ReadFileFunc reads a whole file.
type ReadFileFunc func(name string) ([]byte, error)

// Platform reads the platform indicator, returning DefaultPlatform when the file is absent
// or blank.
func (l Layout) Platform(readFile ReadFileFunc) (string, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}
	data, err := readFile(l.PlatformFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultPlatform, nil
		}
		return "", fmt.Errorf(messages.LayoutReadPlatformFmt, l.PlatformFile, err)
	}
	platform := strings.TrimSpace(string(data))
	if platform == "" {
		return DefaultPlatform, nil
	}
	return platform, nil
}
