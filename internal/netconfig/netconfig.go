// Package netconfig loads the per-network resource that names where a network's
// protocol versions are published.
package netconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// Keys recognized in a network config resource.
const (
	KeySourceURL   = "SOURCE_URL"
	KeyNetworkName = "NETWORK_NAME"
	KeyBinMode     = "BIN_MODE"
)

// BinModeMainnet selects the original binary distribution.
const BinModeMainnet = "mainnet"

// NetworkConfig identifies one target network. It is immutable once loaded.
type NetworkConfig struct {
	SourceURL   string
	NetworkName string
	BinMode     string
}

// NetworkURL returns the base URL of the network on the hosting server.
// Origins without a scheme are served over plain http.
func (c NetworkConfig) NetworkURL() string {
	origin := strings.TrimRight(c.SourceURL, "/")
	if !strings.Contains(origin, "://") {
		origin = "http://" + origin
	}
	return origin + "/" + c.NetworkName
}

// IsMainnetBinaries reports whether the network uses the original binary distribution.
func (c NetworkConfig) IsMainnetBinaries() bool {
	return c.BinMode == BinModeMainnet
}

// Load reads and validates the network config resource at path.
func Load(readFile func(string) ([]byte, error), path string) (NetworkConfig, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}
	data, err := readFile(path)
	if err != nil {
		return NetworkConfig{}, fmt.Errorf(messages.NetconfigReadFmt, nodeerr.ErrConfigLoad, path, err)
	}
	return Parse(string(data), path)
}

// Parse builds a NetworkConfig from KEY=VALUE content. source names the resource in errors.
func Parse(content string, source string) (NetworkConfig, error) {
	values, err := parseValues(content)
	if err != nil {
		return NetworkConfig{}, fmt.Errorf(messages.NetconfigInvalidFmt, nodeerr.ErrConfigLoad, source, err)
	}
	for _, key := range []string{KeySourceURL, KeyNetworkName} {
		if strings.TrimSpace(values[key]) == "" {
			return NetworkConfig{}, fmt.Errorf(messages.NetconfigMissingKeyFmt, nodeerr.ErrConfigLoad, key, source)
		}
	}
	cfg := NetworkConfig{
		SourceURL:   values[KeySourceURL],
		NetworkName: values[KeyNetworkName],
		BinMode:     values[KeyBinMode],
	}
	if cfg.BinMode == "" {
		cfg.BinMode = BinModeMainnet
	}
	return cfg, nil
}

func parseValues(content string) (map[string]string, error) {
	values := make(map[string]string)
	for i, line := range strings.Split(content, "\n") {
		key, value, ok, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf(messages.NetconfigLineFmt, i+1, err)
		}
		if ok {
			values[key] = value
		}
	}
	return values, nil
}

// parseLine splits one KEY=VALUE line. Blank lines and # comments report ok=false.
// A value wrapped in matching single or double quotes is unquoted.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	key, value, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false, errors.New(messages.NetconfigExpectedKeyValue)
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true, nil
}
