// Package testutil provides filesystem and archive fixtures shared by package tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// TarEntry is one member of a fixture archive.
// Typeflag defaults to a regular file; Mode defaults to 0644 for files and 0755 for directories.
type TarEntry struct {
	Name     string
	Body     string
	Typeflag byte
	Linkname string
	Mode     int64
}

// File returns a regular-file entry.
func File(name string, body string) TarEntry {
	return TarEntry{Name: name, Body: body, Typeflag: tar.TypeReg}
}

// Dir returns a directory entry.
func Dir(name string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeDir}
}

// Symlink returns a symbolic link entry pointing at target.
func Symlink(name string, target string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeSymlink, Linkname: target}
}

// TarGz builds a gzip-compressed tar stream from entries.
// t is the active test; entries are written in order.
func TarGz(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Typeflag: e.Typeflag,
			Linkname: e.Linkname,
			Mode:     e.Mode,
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
			if hdr.Typeflag == tar.TypeDir {
				hdr.Mode = 0o755
			}
		}
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("write tar body %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes content at path, creating parent directories.
// t is the active test; path is the file to write.
func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the contents of path, failing the test when it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Chainspec returns chainspec.toml content naming network.
func Chainspec(network string) string {
	return "[protocol]\nversion = '1.0.0'\n\n[network]\nname = '" + network + "'\nmaximum_net_message_size = 25165824\n"
}

// ConfigTemplate is a config-example.toml fixture carrying the address placeholder twice.
const ConfigTemplate = "[network]\npublic_address = '<IP ADDRESS>:35000'\nbind_address = '0.0.0.0:35000'\n\n[rest_server]\naddress = '<IP ADDRESS>:8888'\n"

// Install describes a node install rooted under one temporary directory.
type Install struct {
	ConfigRoot string
	BinRoot    string
	BinaryName string
}

// NewInstall creates empty config and bin roots under t.TempDir().
func NewInstall(t *testing.T) Install {
	t.Helper()
	root := t.TempDir()
	in := Install{
		ConfigRoot: filepath.Join(root, "etc", "casper"),
		BinRoot:    filepath.Join(root, "var", "lib", "casper", "bin"),
		BinaryName: "casper-node",
	}
	for _, dir := range []string{in.ConfigRoot, in.BinRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return in
}

// StageConfig writes version's config directory with a chainspec for network and the
// config template. When withConfig is set, config.toml is written as well.
func (in Install) StageConfig(t *testing.T, version string, network string, withConfig bool) {
	t.Helper()
	dir := filepath.Join(in.ConfigRoot, version)
	WriteFile(t, filepath.Join(dir, "chainspec.toml"), Chainspec(network))
	WriteFile(t, filepath.Join(dir, "config-example.toml"), ConfigTemplate)
	if withConfig {
		WriteFile(t, filepath.Join(dir, "config.toml"), "# existing config\n")
	}
}

// StageBin writes version's node binary.
func (in Install) StageBin(t *testing.T, version string) {
	t.Helper()
	WriteFile(t, filepath.Join(in.BinRoot, version, in.BinaryName), "#!/bin/sh\n")
}

// StageFull stages both halves of version for network, including config.toml.
func (in Install) StageFull(t *testing.T, version string, network string) {
	t.Helper()
	in.StageConfig(t, version, network, true)
	in.StageBin(t, version)
}
