package settings

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSystem struct {
	files map[string]string
	env   map[string]string
	// ReadFileFunc overrides files when set.
	ReadFileFunc func(name string) ([]byte, error)
}

func (m mockSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(name)
	}
	content, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func (m mockSystem) LookupEnv(key string) (string, bool) {
	v, ok := m.env[key]
	return v, ok
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	s, err := Load(mockSystem{}, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, DefaultConfigRoot, s.ConfigRoot)
	assert.Equal(t, DefaultBinRoot, s.BinRoot)
	assert.Equal(t, DefaultNodeUser, s.NodeUser)
	assert.Equal(t, DefaultAddressServices, s.Address.Services)
	assert.Equal(t, int64(DefaultHTTPTimeoutSeconds), int64(s.HTTPTimeout().Seconds()))
	assert.Equal(t, int64(DefaultAddressTimeout), int64(s.AddressTimeout().Seconds()))
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(mockSystem{}, "/opt/node_util.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "/opt/node_util.toml")
}

func TestLoadUsesEnvSettingsPath(t *testing.T) {
	sys := mockSystem{
		files: map[string]string{"/srv/node_util.toml": "config_root = \"/srv/casper\"\n"},
		env:   map[string]string{EnvSettingsPath: "/srv/node_util.toml"},
	}
	s, err := Load(sys, "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/casper", s.ConfigRoot)
	assert.Equal(t, DefaultBinRoot, s.BinRoot)
}

func TestLoadParsesEveryKey(t *testing.T) {
	content := `
config_root = "/data/etc"
bin_root = "/data/bin"
network_config_dir = "/data/networks"
platform_file = "/data/PLATFORM"
binary_name = "node"
node_user = "validator"

[http]
timeout_seconds = 5
max_download_bytes = 2048

[address]
timeout_seconds = 3
services = ["https://a.example", "https://b.example", "https://c.example"]

[log]
level = "debug"
file = "/var/log/node-util.log"
max_size_mb = 1
max_backups = 2
max_age_days = 3
`
	sys := mockSystem{files: map[string]string{DefaultPath: content}}
	s, err := Load(sys, "")
	require.NoError(t, err)

	assert.Equal(t, "/data/etc", s.ConfigRoot)
	assert.Equal(t, "/data/bin", s.BinRoot)
	assert.Equal(t, "/data/networks", s.NetworkConfigDir)
	assert.Equal(t, "/data/PLATFORM", s.PlatformFile)
	assert.Equal(t, "node", s.BinaryName)
	assert.Equal(t, "validator", s.NodeUser)
	assert.Equal(t, 5, s.HTTP.TimeoutSeconds)
	assert.Equal(t, int64(2048), s.HTTP.MaxDownloadBytes)
	assert.Equal(t, 3, s.Address.TimeoutSeconds)
	assert.Len(t, s.Address.Services, 3)
	assert.Equal(t, LogSettings{Level: "debug", File: "/var/log/node-util.log", MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3}, s.Log)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	sys := mockSystem{
		files: map[string]string{DefaultPath: "config_root = \"/from/file\"\nnode_user = \"file-user\"\n"},
		env: map[string]string{
			EnvConfigRoot: " /from/env ",
			EnvBinRoot:    "/bin/env",
			EnvNodeUser:   "env-user",
		},
	}
	s, err := Load(sys, "")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", s.ConfigRoot)
	assert.Equal(t, "/bin/env", s.BinRoot)
	assert.Equal(t, "env-user", s.NodeUser)
}

func TestLoadExpandsHome(t *testing.T) {
	orig := expandHome
	expandHome = func(path string) (string, error) {
		if len(path) > 0 && path[0] == '~' {
			return "/home/node" + path[1:], nil
		}
		return path, nil
	}
	t.Cleanup(func() { expandHome = orig })

	sys := mockSystem{files: map[string]string{"/home/node/node_util.toml": "bin_root = \"~/bin\"\n"}}
	s, err := Load(sys, "~/node_util.toml")
	require.NoError(t, err)
	assert.Equal(t, "/home/node/bin", s.BinRoot)
}

func TestLoadReadError(t *testing.T) {
	sys := mockSystem{ReadFileFunc: func(string) ([]byte, error) { return nil, errors.New("boom") }}
	_, err := Load(sys, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoadRequiresSystem(t *testing.T) {
	_, err := Load(nil, "")
	require.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("config_rot = \"/typo\"\n"), "node_util.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node_util.toml")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative timeout":  "[http]\ntimeout_seconds = -1\n",
		"negative max":      "[http]\nmax_download_bytes = -1\n",
		"negative address":  "[address]\ntimeout_seconds = -4\n",
		"unknown log level": "[log]\nlevel = \"loud\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content), "node_util.toml")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSettingsValidation)
		})
	}
}

func TestParseMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("config_root = \n"), "node_util.toml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSettingsValidation)
}
