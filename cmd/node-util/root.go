package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/node-util/internal/catalog"
	"github.com/conn-castle/node-util/internal/extip"
	"github.com/conn-castle/node-util/internal/fetch"
	"github.com/conn-castle/node-util/internal/identity"
	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/logging"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/netconfig"
	"github.com/conn-castle/node-util/internal/settings"
	"github.com/conn-castle/node-util/internal/stage"
)

var identitySystem identity.System = identity.RealSystem{}

var newResolverFunc = newResolver

// commandSpec declares one subcommand. The table below is the complete command surface.
type commandSpec struct {
	name  string
	short string
	build func(opts *rootOptions, spec commandSpec) *cobra.Command
}

var commandTable = []commandSpec{
	{name: messages.StageProtocolsUse, short: messages.StageProtocolsShort, build: newStageProtocolsCmd},
	{name: messages.CheckProtocolsUse, short: messages.CheckProtocolsShort, build: newCheckProtocolsCmd},
	{name: messages.CheckForUpgradeUse, short: messages.CheckForUpgradeShort, build: newCheckForUpgradeCmd},
	{name: messages.DiffConfigUse, short: messages.DiffConfigShort, build: newDiffConfigCmd},
	{name: messages.PromoteConfigUse, short: messages.PromoteConfigShort, build: newPromoteConfigCmd},
}

// rootOptions holds persistent flags shared by every subcommand.
type rootOptions struct {
	settingsPath string
	logLevel     string
	logFile      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", messages.RootFlagSettings)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", messages.RootFlagLogLevel)
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", messages.RootFlagLogFile)
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	for _, spec := range commandTable {
		cmd.AddCommand(spec.build(opts, spec))
	}
	return cmd
}

// runtime is the per-invocation environment resolved from settings and flags.
type runtime struct {
	settings settings.Settings
	layout   layout.Layout
	logger   *slog.Logger
	closeLog func() error
}

// load resolves settings, layout, and logger for a command.
func (o *rootOptions) load(cmd *cobra.Command) (*runtime, error) {
	s, err := settings.Load(settings.RealSystem{}, o.settingsPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		s.Log.Level = o.logLevel
	}
	if o.logFile != "" {
		s.Log.File = o.logFile
	}
	logger, closeLog, err := logging.Setup(logging.OptionsFromSettings(s.Log, cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	logger.Debug(messages.LogSettingsLoaded, "config_root", s.ConfigRoot, "bin_root", s.BinRoot)
	return &runtime{
		settings: s,
		layout:   layout.FromSettings(s),
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

func (rt *runtime) close() {
	if rt.closeLog != nil {
		_ = rt.closeLog()
	}
}

// loadNetworkConfig reads the named network config. A name containing a path
// separator is taken as a path rather than a name under network_config_dir.
func (rt *runtime) loadNetworkConfig(name string) (netconfig.NetworkConfig, error) {
	path := rt.layout.NetworkConfigPath(name)
	if strings.ContainsRune(name, os.PathSeparator) {
		path = name
	}
	cfg, err := netconfig.Load(os.ReadFile, path)
	if err != nil {
		return netconfig.NetworkConfig{}, err
	}
	rt.logger.Debug(messages.LogNetworkConfigLoaded, "path", path, "network", cfg.NetworkName, "bin_mode", cfg.BinMode)
	return cfg, nil
}

// orchestrator wires the staging components for this invocation.
func (rt *runtime) orchestrator() (*stage.Orchestrator, error) {
	platform, err := rt.layout.Platform(os.ReadFile)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: rt.settings.HTTPTimeout()}
	return stage.New(stage.Options{
		Layout:   rt.layout,
		Platform: platform,
		Catalog:  catalog.New(client),
		Fetcher:  fetch.New(client, rt.settings.HTTP.MaxDownloadBytes, rt.logger),
		Resolver: newResolverFunc(rt),
		Logger:   rt.logger,
	})
}

func newResolver(rt *runtime) stage.AddressResolver {
	return extip.New(rt.settings.Address.Services, rt.settings.AddressTimeout(), rt.logger)
}
