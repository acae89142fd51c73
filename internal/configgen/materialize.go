// Package configgen produces a runnable node config from the template shipped with each
// protocol version.
package configgen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// Placeholder is the token in config-example.toml replaced by the node's address.
const Placeholder = "<IP ADDRESS>"

// System abstracts the filesystem operations used by the materializer.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Rename(oldpath string, newpath string) error
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

// WriteFile writes data to the named file, creating it if necessary.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Rename renames oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// ValidateAddress reports whether address is an IPv4 or IPv6 literal.
func ValidateAddress(address string) error {
	if _, err := netip.ParseAddr(address); err != nil {
		return fmt.Errorf(messages.ConfiggenInvalidAddressFmt, nodeerr.ErrInvalidAddress, address)
	}
	return nil
}

// Materialize renders config-example.toml in versionDir with address substituted for
// every Placeholder. The result goes to config.toml, or to config.toml.new when
// config.toml already exists; an existing config.toml is never modified.
// It returns the path written.
func Materialize(sys System, versionDir string, address string) (string, error) {
	if sys == nil {
		return "", errors.New(messages.ConfiggenSystemRequired)
	}
	templatePath := filepath.Join(versionDir, layout.ConfigExampleFile)
	template, err := sys.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf(messages.ConfiggenMissingTemplateFmt, nodeerr.ErrMissingTemplate, templatePath)
		}
		return "", fmt.Errorf(messages.ConfiggenReadTemplateFmt, templatePath, err)
	}
	if err := ValidateAddress(address); err != nil {
		return "", err
	}

	outPath, err := OutputPath(sys, versionDir)
	if err != nil {
		return "", err
	}
	rendered := bytes.ReplaceAll(template, []byte(Placeholder), []byte(address))
	if err := sys.WriteFile(outPath, rendered, 0o644); err != nil {
		return "", fmt.Errorf(messages.ConfiggenWriteFmt, outPath, err)
	}
	return outPath, nil
}

// OutputPath returns where Materialize would write for versionDir.
func OutputPath(sys System, versionDir string) (string, error) {
	configPath := filepath.Join(versionDir, layout.ConfigFile)
	_, err := sys.Stat(configPath)
	switch {
	case err == nil:
		return filepath.Join(versionDir, layout.ConfigNewFile), nil
	case errors.Is(err, fs.ErrNotExist):
		return configPath, nil
	default:
		return "", fmt.Errorf(messages.ConfiggenStatFmt, configPath, err)
	}
}

// IsPending reports whether path is a generated config awaiting operator promotion.
func IsPending(path string) bool {
	return strings.HasSuffix(path, layout.ConfigNewFile)
}
