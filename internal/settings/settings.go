// Package settings loads the node-util tool settings file.
//
// The settings file is optional. When it is absent every field takes the
// platform-conventional default, so a stock node install needs no settings at all.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/node-util/internal/messages"
)

// Environment keys that override settings.
const (
	EnvSettingsPath = "NODE_UTIL_SETTINGS"
	EnvConfigRoot   = "NODE_UTIL_CONFIG_ROOT"
	EnvBinRoot      = "NODE_UTIL_BIN_ROOT"
	EnvNodeUser     = "NODE_UTIL_NODE_USER"
)

// Defaults for a standard node install.
const (
	DefaultPath               = "/etc/casper/node_util.toml"
	DefaultConfigRoot         = "/etc/casper"
	DefaultBinRoot            = "/var/lib/casper/bin"
	DefaultBinaryName         = "casper-node"
	DefaultNodeUser           = "casper"
	DefaultHTTPTimeoutSeconds = 30
	DefaultMaxDownloadBytes   = int64(1024 * 1024 * 1024) // 1 GiB
	DefaultAddressTimeout     = 10
	DefaultLogLevel           = "info"
	DefaultLogMaxSizeMB       = 10
	DefaultLogMaxBackups      = 5
	DefaultLogMaxAgeDays      = 28
)

// DefaultAddressServices lists the address-echo services queried for the external IP.
var DefaultAddressServices = []string{
	"https://checkip.amazonaws.com",
	"https://ifconfig.me",
	"https://ident.me",
}

// ErrSettingsValidation wraps settings values that parse but are unusable.
var ErrSettingsValidation = errors.New("settings validation failed")

// Settings is the decoded tool settings file.
type Settings struct {
	ConfigRoot       string          `toml:"config_root"`
	BinRoot          string          `toml:"bin_root"`
	NetworkConfigDir string          `toml:"network_config_dir"`
	PlatformFile     string          `toml:"platform_file"`
	BinaryName       string          `toml:"binary_name"`
	NodeUser         string          `toml:"node_user"`
	HTTP             HTTPSettings    `toml:"http"`
	Address          AddressSettings `toml:"address"`
	Log              LogSettings     `toml:"log"`
}

// HTTPSettings controls catalog and archive downloads.
type HTTPSettings struct {
	TimeoutSeconds   int   `toml:"timeout_seconds"`
	MaxDownloadBytes int64 `toml:"max_download_bytes"`
}

// AddressSettings controls external address resolution.
type AddressSettings struct {
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Services       []string `toml:"services"`
}

// LogSettings controls structured logging output.
type LogSettings struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// System abstracts the OS access needed to load settings.
type System interface {
	ReadFile(name string) ([]byte, error)
	LookupEnv(key string) (string, bool)
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// LookupEnv returns the value and presence of an environment variable.
func (RealSystem) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

var expandHome = homedir.Expand

// Default returns settings populated with the platform-conventional defaults.
func Default() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

// Load reads settings from path, falling back to NODE_UTIL_SETTINGS and then
// DefaultPath when path is empty. A missing file at the default location is not
// an error; a missing file that was named explicitly is.
func Load(sys System, path string) (Settings, error) {
	if sys == nil {
		return Settings{}, errors.New(messages.SettingsSystemRequired)
	}
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if envPath, ok := sys.LookupEnv(EnvSettingsPath); ok && strings.TrimSpace(envPath) != "" {
			path = envPath
			explicit = true
		} else {
			path = DefaultPath
		}
	}
	path, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsExpandPathFmt, path, err)
	}

	var s Settings
	data, err := sys.ReadFile(path)
	switch {
	case err == nil:
		parsed, err := Parse(data, path)
		if err != nil {
			return Settings{}, err
		}
		s = parsed
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		s = Default()
	default:
		return Settings{}, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}

	s.applyEnv(sys)
	if err := s.expandPaths(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Parse decodes settings TOML, rejecting unknown keys, and applies defaults.
func Parse(data []byte, source string) (Settings, error) {
	var s Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsInvalidFmt, source, err)
	}
	s.applyDefaults()
	if err := s.Validate(source); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports settings values that cannot be used.
func (s Settings) Validate(source string) error {
	if s.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: "+messages.SettingsNegativeFmt, ErrSettingsValidation, source, "http.timeout_seconds")
	}
	if s.HTTP.MaxDownloadBytes < 0 {
		return fmt.Errorf("%w: "+messages.SettingsNegativeFmt, ErrSettingsValidation, source, "http.max_download_bytes")
	}
	if s.Address.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: "+messages.SettingsNegativeFmt, ErrSettingsValidation, source, "address.timeout_seconds")
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: "+messages.SettingsInvalidLogLevelFmt, ErrSettingsValidation, source, s.Log.Level)
	}
	return nil
}

// HTTPTimeout returns the catalog and archive request timeout.
func (s Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTP.TimeoutSeconds) * time.Second
}

// AddressTimeout returns the per-service address lookup timeout.
func (s Settings) AddressTimeout() time.Duration {
	return time.Duration(s.Address.TimeoutSeconds) * time.Second
}

func (s *Settings) applyDefaults() {
	if s.ConfigRoot == "" {
		s.ConfigRoot = DefaultConfigRoot
	}
	if s.BinRoot == "" {
		s.BinRoot = DefaultBinRoot
	}
	if s.BinaryName == "" {
		s.BinaryName = DefaultBinaryName
	}
	if s.NodeUser == "" {
		s.NodeUser = DefaultNodeUser
	}
	if s.HTTP.TimeoutSeconds == 0 {
		s.HTTP.TimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if s.HTTP.MaxDownloadBytes == 0 {
		s.HTTP.MaxDownloadBytes = DefaultMaxDownloadBytes
	}
	if s.Address.TimeoutSeconds == 0 {
		s.Address.TimeoutSeconds = DefaultAddressTimeout
	}
	if len(s.Address.Services) == 0 {
		s.Address.Services = append([]string(nil), DefaultAddressServices...)
	}
	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
	}
	if s.Log.MaxSizeMB == 0 {
		s.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = DefaultLogMaxBackups
	}
	if s.Log.MaxAgeDays == 0 {
		s.Log.MaxAgeDays = DefaultLogMaxAgeDays
	}
}

func (s *Settings) applyEnv(sys System) {
	if v, ok := sys.LookupEnv(EnvConfigRoot); ok && strings.TrimSpace(v) != "" {
		s.ConfigRoot = strings.TrimSpace(v)
	}
	if v, ok := sys.LookupEnv(EnvBinRoot); ok && strings.TrimSpace(v) != "" {
		s.BinRoot = strings.TrimSpace(v)
	}
	if v, ok := sys.LookupEnv(EnvNodeUser); ok && strings.TrimSpace(v) != "" {
		s.NodeUser = strings.TrimSpace(v)
	}
}

// expandPaths resolves a leading ~ in every path-valued field.
func (s *Settings) expandPaths() error {
	for _, field := range []*string{&s.ConfigRoot, &s.BinRoot, &s.NetworkConfigDir, &s.PlatformFile, &s.Log.File} {
		if *field == "" {
			continue
		}
		expanded, err := expandHome(*field)
		if err != nil {
			return fmt.Errorf(messages.SettingsExpandPathFmt, *field, err)
		}
		*field = expanded
	}
	return nil
}
