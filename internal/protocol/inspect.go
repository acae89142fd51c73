// Package protocol classifies how completely a protocol version is staged on disk.
package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/netconfig"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// chainspecNamePrefix marks the line carrying the network name in a chainspec.
const chainspecNamePrefix = "name = '"

// System abstracts the read-only filesystem lookups used for classification.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Classify derives the Status of version from the filesystem. It never mutates disk,
// so repeated calls without intervening changes return the same Status.
// An empty network name is a usage error; a version that does not name a single
// directory fails with nodeerr.ErrInvalidVersion.
func Classify(sys System, l layout.Layout, version string, cfg netconfig.NetworkConfig) (Status, error) {
	if sys == nil {
		return 0, errors.New(messages.ProtocolSystemRequired)
	}
	if cfg.NetworkName == "" {
		return 0, nodeerr.ErrNetworkNotLoaded
	}
	if err := layout.ValidateVersion(version); err != nil {
		return 0, err
	}

	configDirExists, err := exists(sys, l.ConfigDir(version))
	if err != nil {
		return 0, err
	}
	binExists, err := exists(sys, l.BinaryPath(version))
	if err != nil {
		return 0, err
	}

	if !configDirExists {
		if binExists {
			return BinOnly, nil
		}
		return Unstaged, nil
	}
	if !binExists {
		return ConfigOnly, nil
	}
	configExists, err := exists(sys, l.ConfigPath(version))
	if err != nil {
		return 0, err
	}
	if !configExists {
		return NoConfig, nil
	}
	if ChainspecName(sys, l.ChainspecPath(version)) != cfg.NetworkName {
		return WrongNetwork, nil
	}
	return Staged, nil
}

// ChainspecName returns the network name embedded in the chainspec at path: the quoted
// value on the first line starting with name = '. Missing or unreadable files yield "".
func ChainspecName(sys System, path string) string {
	data, err := sys.ReadFile(path)
	if err != nil {
		return ""
	}
	return parseChainspecName(data)
}

// parseChainspecName splits the whole file into lines; lines may be any length.
func parseChainspecName(data []byte) string {
	for line := range bytes.Lines(data) {
		rest, ok := bytes.CutPrefix(line, []byte(chainspecNamePrefix))
		if !ok {
			continue
		}
		name, _, _ := bytes.Cut(rest, []byte("'"))
		return strings.TrimRight(string(name), "\r\n")
	}
	return ""
}

func exists(sys System, path string) (bool, error) {
	_, err := sys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(messages.ProtocolStatFmt, path, err)
}
