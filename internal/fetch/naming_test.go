package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/node-util/internal/netconfig"
)

func TestBinArchiveName(t *testing.T) {
	cases := []struct {
		platform string
		mainnet  bool
		want     string
	}{
		{platform: "deb", mainnet: true, want: "bin.tar.gz"},
		{platform: "deb", mainnet: false, want: "bin_new.tar.gz"},
		{platform: "rpm", mainnet: true, want: "bin_rpm.tar.gz"},
		{platform: "rpm", mainnet: false, want: "bin_rpm_new.tar.gz"},
		{platform: "", mainnet: true, want: "bin.tar.gz"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BinArchiveName(tc.platform, tc.mainnet), tc.want)
	}
}

func TestVersionURL(t *testing.T) {
	cfg := netconfig.NetworkConfig{SourceURL: "genesis.casper.network", NetworkName: "casper"}
	assert.Equal(t, "http://genesis.casper.network/casper/1_5_2", VersionURL(cfg, "1_5_2"))
}
