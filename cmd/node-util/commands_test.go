package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/nodeerr"
	"github.com/conn-castle/node-util/internal/stage"
	"github.com/conn-castle/node-util/internal/testutil"
)

type fakeIdentity struct {
	name string
}

func (f fakeIdentity) EffectiveUser() (string, error) {
	return f.name, nil
}

type fakeResolver struct {
	address string
	ok      bool
}

func (f fakeResolver) Resolve(context.Context) (string, bool) {
	return f.address, f.ok
}

// fixture is a node install with a settings file and a network config named casper.conf.
type fixture struct {
	install  testutil.Install
	settings string
	versions []string
	status   int
}

func newFixture(t *testing.T, versions ...string) *fixture {
	t.Helper()
	f := &fixture{install: testutil.NewInstall(t), versions: versions, status: http.StatusOK}

	configArchive := testutil.TarGz(t,
		testutil.File("chainspec.toml", testutil.Chainspec("casper")),
		testutil.File("config-example.toml", testutil.ConfigTemplate),
	)
	binArchive := testutil.TarGz(t, testutil.TarEntry{Name: "casper-node", Body: "#!/bin/sh\n", Mode: 0o755})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch filepath.Base(r.URL.Path) {
		case "protocol_versions":
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(strings.Join(f.versions, "\n") + "\n"))
		case "config.tar.gz":
			_, _ = w.Write(configArchive)
		case "bin.tar.gz":
			_, _ = w.Write(binArchive)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	networks := filepath.Join(f.install.ConfigRoot, "network_configs")
	testutil.WriteFile(t, filepath.Join(networks, "casper.conf"), "SOURCE_URL="+server.URL+"\nNETWORK_NAME=casper\n")
	f.settings = filepath.Join(t.TempDir(), "node_util.toml")
	testutil.WriteFile(t, f.settings, strings.Join([]string{
		`config_root = "` + f.install.ConfigRoot + `"`,
		`bin_root = "` + f.install.BinRoot + `"`,
		`node_user = "casper"`,
		`[log]`,
		`level = "error"`,
		"",
	}, "\n"))

	origIdentity := identitySystem
	identitySystem = fakeIdentity{name: "casper"}
	origResolver := newResolverFunc
	newResolverFunc = func(*runtime) stage.AddressResolver { return fakeResolver{address: "203.0.113.7", ok: true} }
	t.Cleanup(func() {
		identitySystem = origIdentity
		newResolverFunc = origResolver
	})
	return f
}

func (f *fixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"node-util", "--settings", f.settings}, args...)
	err := execute(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var silent *SilentExitError
	require.True(t, errors.As(err, &silent), "expected SilentExitError, got %v", err)
	assert.Equal(t, code, silent.Code)
}

func TestCommandTableIsComplete(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"stage_protocols", "check_protocols", "check_for_upgrade", "diff_config", "promote_config"} {
		assert.Contains(t, names, want)
	}
}

func TestStageProtocolsMixedInstall(t *testing.T) {
	f := newFixture(t, "1_0_0", "2_0_0", "3_0_0")
	f.install.StageFull(t, "1_0_0", "casper")
	f.install.StageBin(t, "3_0_0")

	out, _, err := f.run("stage_protocols", "casper.conf")
	requireExitCode(t, err, 1)

	assert.Contains(t, out, "1_0_0: Protocol Staged")
	assert.Contains(t, out, "2_0_0: Protocol Unstaged - pulled protocol and created "+filepath.Join(f.install.ConfigRoot, "2_0_0", "config.toml"))
	assert.Contains(t, out, "3_0_0: Only bin is staged for Protocol, no config - Not automatically recoverable.")
	assert.Contains(t, out, "1 protocol version(s) not staged automatically")
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(f.install.ConfigRoot, "2_0_0", "config.toml")), "203.0.113.7")
}

func TestStageProtocolsAllStaged(t *testing.T) {
	f := newFixture(t, "1_0_0", "2_0_0")

	_, _, err := f.run("stage_protocols", "casper.conf", "--ip", "10.0.0.5")
	require.NoError(t, err)

	out, _, err := f.run("check_protocols", "casper.conf")
	require.NoError(t, err)
	assert.Contains(t, out, "2_0_0: Protocol Staged")
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(f.install.ConfigRoot, "1_0_0", "config.toml")), "10.0.0.5")
}

func TestStageProtocolsRejectsInvalidIP(t *testing.T) {
	f := newFixture(t, "1_0_0")

	_, _, err := f.run("stage_protocols", "casper.conf", "--ip", "not-an-ip")
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeerr.ErrInvalidAddress)
	_, statErr := os.Stat(filepath.Join(f.install.ConfigRoot, "1_0_0"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStageProtocolsWrongIdentity(t *testing.T) {
	f := newFixture(t, "1_0_0")
	identitySystem = fakeIdentity{name: "root"}

	_, _, err := f.run("stage_protocols", "casper.conf")
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeerr.ErrWrongIdentity)
	_, statErr := os.Stat(filepath.Join(f.install.ConfigRoot, "1_0_0"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStageProtocolsMissingNetworkConfig(t *testing.T) {
	f := newFixture(t, "1_0_0")

	_, _, err := f.run("stage_protocols", "missing.conf")
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeerr.ErrConfigLoad)
}

func TestStageProtocolsCatalogUnavailable(t *testing.T) {
	f := newFixture(t, "1_0_0")
	f.status = http.StatusBadGateway

	_, _, err := f.run("stage_protocols", "casper.conf")
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeerr.ErrUpstreamUnavailable)
	var silent *SilentExitError
	assert.False(t, errors.As(err, &silent))
}

func TestCheckProtocolsFlagsIncomplete(t *testing.T) {
	f := newFixture(t, "1_0_0", "2_0_0")
	f.install.StageFull(t, "1_0_0", "casper")
	f.install.StageConfig(t, "2_0_0", "casper", false)
	f.install.StageBin(t, "2_0_0")
	identitySystem = fakeIdentity{name: "root"}

	out, _, err := f.run("check_protocols", "casper.conf")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "1_0_0: Protocol Staged")
	assert.Contains(t, out, "2_0_0: No config.toml for Protocol")
}

func TestCheckForUpgrade(t *testing.T) {
	f := newFixture(t, "1_0_0", "2_0_0")
	f.install.StageFull(t, "1_0_0", "casper")

	out, _, err := f.run("check_for_upgrade", "casper.conf")
	requireExitCode(t, err, 1)
	assert.Equal(t, "2_0_0: Protocol Unstaged\n", out)

	f.install.StageBin(t, "2_0_0")
	out, _, err = f.run("check_for_upgrade", "casper.conf")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckForUpgradeEmptyCatalog(t *testing.T) {
	f := newFixture(t)
	f.versions = nil

	_, _, err := f.run("check_for_upgrade", "casper.conf")
	require.Error(t, err)
	var silent *SilentExitError
	assert.False(t, errors.As(err, &silent))
}

func TestDiffAndPromoteConfig(t *testing.T) {
	f := newFixture(t, "1_0_0")
	dir := filepath.Join(f.install.ConfigRoot, "1_0_0")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml"), "public_address = '10.0.0.1:35000'\n")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml.new"), "public_address = '203.0.113.7:35000'\n")

	out, _, err := f.run("diff_config", "1_0_0")
	require.NoError(t, err)
	assert.Contains(t, out, "-public_address = '10.0.0.1:35000'")
	assert.Contains(t, out, "+public_address = '203.0.113.7:35000'")

	origConfirm := confirmFunc
	t.Cleanup(func() { confirmFunc = origConfirm })
	var prompt string
	confirmFunc = func(title string) (bool, error) {
		prompt = title
		return false, nil
	}
	out, _, err = f.run("promote_config", "1_0_0")
	require.NoError(t, err)
	assert.Contains(t, prompt, "config.toml.new")
	assert.Contains(t, out, "Leaving config.toml unchanged.")
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(dir, "config.toml")), "10.0.0.1")

	confirmFunc = func(string) (bool, error) { return true, nil }
	out, _, err = f.run("promote_config", "1_0_0")
	require.NoError(t, err)
	assert.Contains(t, out, "Promoted generated config to "+filepath.Join(dir, "config.toml"))
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(dir, "config.toml")), "203.0.113.7")

	out, _, err = f.run("diff_config", "1_0_0")
	require.Error(t, err)
	assert.ErrorIs(t, err, configgen.ErrNothingPending)
	assert.Empty(t, out)
}

func TestConfigCommandsRejectVersionOutsideRoot(t *testing.T) {
	f := newFixture(t, "1_0_0")

	_, _, err := f.run("diff_config", "../1_0_0")
	assert.ErrorIs(t, err, nodeerr.ErrInvalidVersion)
	_, _, err = f.run("promote_config", "..", "--yes")
	assert.ErrorIs(t, err, nodeerr.ErrInvalidVersion)
}

func TestDiffConfigIdentical(t *testing.T) {
	f := newFixture(t, "1_0_0")
	dir := filepath.Join(f.install.ConfigRoot, "1_0_0")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml"), "same\n")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml.new"), "same\n")

	out, _, err := f.run("diff_config", "1_0_0")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to promote")
}

func TestPromoteConfigYesSkipsPrompt(t *testing.T) {
	f := newFixture(t, "1_0_0")
	dir := filepath.Join(f.install.ConfigRoot, "1_0_0")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml"), "old\n")
	testutil.WriteFile(t, filepath.Join(dir, "config.toml.new"), "new\n")
	origConfirm := confirmFunc
	t.Cleanup(func() { confirmFunc = origConfirm })
	confirmFunc = func(string) (bool, error) {
		t.Fatalf("prompt must not run with --yes")
		return false, nil
	}

	_, _, err := f.run("promote_config", "1_0_0", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "new\n", testutil.ReadFile(t, filepath.Join(dir, "config.toml")))
}

func TestPromoteConfigWrongIdentity(t *testing.T) {
	f := newFixture(t, "1_0_0")
	identitySystem = fakeIdentity{name: "root"}

	_, _, err := f.run("promote_config", "1_0_0", "--yes")
	assert.ErrorIs(t, err, nodeerr.ErrWrongIdentity)
}

func TestLogFileFlag(t *testing.T) {
	f := newFixture(t, "1_0_0")
	f.install.StageFull(t, "1_0_0", "casper")
	logPath := filepath.Join(t.TempDir(), "node-util.log")

	_, stderr, err := f.run("--log-level", "debug", "--log-file", logPath, "check_protocols", "casper.conf")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, testutil.ReadFile(t, logPath), `"run_id"`)
}
