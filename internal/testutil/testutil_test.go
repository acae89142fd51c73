package testutil

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarGzRoundTripsEntries(t *testing.T) {
	data := TarGz(t, Dir("1_0_0/"), File("1_0_0/casper-node", "bin"), Symlink("latest", "1_0_0"))

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
		if hdr.Name == "1_0_0/casper-node" {
			body, err := io.ReadAll(tr)
			require.NoError(t, err)
			assert.Equal(t, "bin", string(body))
			assert.Equal(t, int64(0o644), hdr.Mode)
		}
		if hdr.Name == "latest" {
			assert.Equal(t, "1_0_0", hdr.Linkname)
		}
	}
	assert.Equal(t, []string{"1_0_0/", "1_0_0/casper-node", "latest"}, names)
}

func TestInstallStageFull(t *testing.T) {
	in := NewInstall(t)
	in.StageFull(t, "2_0_0", "casper")

	for _, path := range []string{
		filepath.Join(in.ConfigRoot, "2_0_0", "chainspec.toml"),
		filepath.Join(in.ConfigRoot, "2_0_0", "config-example.toml"),
		filepath.Join(in.ConfigRoot, "2_0_0", "config.toml"),
		filepath.Join(in.BinRoot, "2_0_0", "casper-node"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	assert.Contains(t, ReadFile(t, filepath.Join(in.ConfigRoot, "2_0_0", "chainspec.toml")), "name = 'casper'")
}
