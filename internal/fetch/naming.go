package fetch

import (
	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/netconfig"
)

// ConfigArchiveName is the single config archive published per version.
const ConfigArchiveName = "config.tar.gz"

// BinArchiveName selects the binary archive published for platform. mainnet selects the
// original binary distribution rather than the post-launch one.
// The hosting server lays out four variants:
//
//	bin.tar.gz                 mainnet binaries, default platform
//	bin_new.tar.gz             post-launch networks, default platform
//	bin_{platform}.tar.gz      mainnet binaries, other platforms
//	bin_{platform}_new.tar.gz  post-launch networks, other platforms
func BinArchiveName(platform string, mainnet bool) string {
	name := "bin"
	if platform != "" && platform != layout.DefaultPlatform {
		name += "_" + platform
	}
	if !mainnet {
		name += "_new"
	}
	return name + ".tar.gz"
}

// VersionURL returns the base URL of version's artifacts.
func VersionURL(cfg netconfig.NetworkConfig, version string) string {
	return cfg.NetworkURL() + "/" + version
}
