// Package stage reconciles every protocol version a network expects toward the staged
// state, taking the smallest corrective action each observed status allows.
package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conn-castle/node-util/internal/catalog"
	"github.com/conn-castle/node-util/internal/configgen"
	"github.com/conn-castle/node-util/internal/extip"
	"github.com/conn-castle/node-util/internal/fetch"
	"github.com/conn-castle/node-util/internal/layout"
	"github.com/conn-castle/node-util/internal/logging"
	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/netconfig"
	"github.com/conn-castle/node-util/internal/nodeerr"
	"github.com/conn-castle/node-util/internal/protocol"
)

// VersionLister returns the catalog for a network.
type VersionLister interface {
	ListVersions(ctx context.Context, cfg netconfig.NetworkConfig) ([]string, error)
}

// ArchiveFetcher downloads and extracts one archive.
type ArchiveFetcher interface {
	FetchAndExtract(ctx context.Context, archive fetch.RemoteArchive) error
}

// AddressResolver determines the node's external address.
type AddressResolver interface {
	Resolve(ctx context.Context) (string, bool)
}

// OwnershipFixer is handed the directories of each version the loop wrote to.
type OwnershipFixer interface {
	EnsureOwnership(ctx context.Context, paths []string) error
}

// NoopOwnership leaves ownership untouched.
type NoopOwnership struct{}

// EnsureOwnership does nothing.
func (NoopOwnership) EnsureOwnership(context.Context, []string) error { return nil }

// System is the filesystem access the orchestrator needs for classification and
// materialization.
type System interface {
	protocol.System
	configgen.System
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct {
	configgen.RealSystem
}

// Options wires an Orchestrator's collaborators. Zero-valued optional fields get defaults.
type Options struct {
	Layout    layout.Layout
	Platform  string
	Catalog   VersionLister
	Fetcher   ArchiveFetcher
	Resolver  AddressResolver
	Ownership OwnershipFixer
	System    System
	Logger    *slog.Logger
}

// Orchestrator drives reconciliation. It keeps no state between calls; every
// classification re-reads disk.
type Orchestrator struct {
	layout    layout.Layout
	platform  string
	catalog   VersionLister
	fetcher   ArchiveFetcher
	resolver  AddressResolver
	ownership OwnershipFixer
	sys       System
	log       *slog.Logger
}

// New builds an Orchestrator from opts.
func New(opts Options) (*Orchestrator, error) {
	if opts.Catalog == nil {
		return nil, errors.New(messages.StageCatalogRequired)
	}
	o := &Orchestrator{
		layout:    opts.Layout,
		platform:  opts.Platform,
		catalog:   opts.Catalog,
		fetcher:   opts.Fetcher,
		resolver:  opts.Resolver,
		ownership: opts.Ownership,
		sys:       opts.System,
		log:       opts.Logger,
	}
	if o.platform == "" {
		o.platform = layout.DefaultPlatform
	}
	if o.ownership == nil {
		o.ownership = NoopOwnership{}
	}
	if o.sys == nil {
		o.sys = RealSystem{}
	}
	if o.log == nil {
		o.log = logging.Discard()
	}
	return o, nil
}

// Stage reconciles every catalog version. address, when non-empty, is used for every
// materialized config; otherwise the resolver is consulted once per run.
// Per-version failures are flagged and the loop continues.
func (o *Orchestrator) Stage(ctx context.Context, cfg netconfig.NetworkConfig, address string) Report {
	versions, err := o.catalog.ListVersions(ctx, cfg)
	if err != nil {
		return Report{Err: err}
	}

	var memo extip.Memo
	resolveAddress := func() (string, error) {
		if address != "" {
			o.log.Info(messages.LogUsingProvidedAddress, "address", address)
			return address, nil
		}
		if o.resolver == nil {
			return "", fmt.Errorf(messages.StageNoAddressFmt, nodeerr.ErrInvalidAddress)
		}
		resolved, ok := memo.Lookup(ctx, o.resolver.Resolve)
		if !ok {
			return "", fmt.Errorf(messages.StageNoAddressFmt, nodeerr.ErrInvalidAddress)
		}
		o.log.Info(messages.LogUsingDetectedAddress, "address", resolved)
		return resolved, nil
	}

	report := Report{Outcomes: make([]Outcome, 0, len(versions))}
	for _, version := range versions {
		outcome := o.stageVersion(ctx, cfg, version, resolveAddress)
		o.logOutcome(outcome)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

func (o *Orchestrator) stageVersion(ctx context.Context, cfg netconfig.NetworkConfig, version string, resolveAddress func() (string, error)) Outcome {
	status, err := protocol.Classify(o.sys, o.layout, version, cfg)
	if err != nil {
		return Outcome{Version: version, Flagged: true, Err: err}
	}
	outcome := Outcome{Version: version, Status: status}

	switch status {
	case protocol.Staged:
		return outcome
	case protocol.BinOnly, protocol.ConfigOnly, protocol.WrongNetwork:
		outcome.Flagged = true
		return outcome
	case protocol.Unstaged:
		o.log.Info(messages.LogPullingProtocol, "version", version)
		outcome.Action = ActionPulled
		if err := o.pull(ctx, cfg, version); err != nil {
			outcome.Flagged = true
			outcome.Err = err
			return outcome
		}
	case protocol.NoConfig:
		outcome.Action = ActionMaterialized
	}

	o.log.Info(messages.LogCreatingConfig, "version", version)
	address, err := resolveAddress()
	if err != nil {
		outcome.Flagged = true
		outcome.Err = err
		return outcome
	}
	path, err := configgen.Materialize(o.sys, o.layout.ConfigDir(version), address)
	if err != nil {
		outcome.Flagged = true
		outcome.Err = err
		return outcome
	}
	outcome.ConfigPath = path
	if configgen.IsPending(path) {
		o.log.Warn(messages.LogPendingConfig, "version", version, "path", path)
	}

	if err := o.ownership.EnsureOwnership(ctx, []string{o.layout.ConfigDir(version), o.layout.BinDir(version)}); err != nil {
		outcome.Flagged = true
		outcome.Err = err
	}
	return outcome
}

// pull fetches the config archive and then the binary archive for version.
// The two fetches share no transaction: a binary failure leaves the config directory
// in place, which the next run classifies as ConfigOnly.
func (o *Orchestrator) pull(ctx context.Context, cfg netconfig.NetworkConfig, version string) error {
	if o.fetcher == nil {
		return errors.New(messages.StageFetcherRequired)
	}
	for _, root := range []string{o.layout.BinRoot, o.layout.ConfigRoot} {
		if err := requireDir(root); err != nil {
			return err
		}
	}

	binArchive := fetch.BinArchiveName(o.platform, cfg.IsMainnetBinaries())
	o.log.Info(messages.LogUsingBinArchive, "archive", binArchive)
	base := fetch.VersionURL(cfg, version)
	archives := []fetch.RemoteArchive{
		{
			URL:       base + "/" + fetch.ConfigArchiveName,
			TempPath:  filepath.Join(o.layout.ConfigRoot, fetch.ConfigArchiveName),
			TargetDir: o.layout.ConfigDir(version),
		},
		{
			URL:       base + "/" + binArchive,
			TempPath:  filepath.Join(o.layout.BinRoot, binArchive),
			TargetDir: o.layout.BinDir(version),
		},
	}
	for _, archive := range archives {
		if err := o.fetcher.FetchAndExtract(ctx, archive); err != nil {
			return err
		}
	}
	return nil
}

// Check classifies every catalog version without acting; any version short of Staged
// is flagged.
func (o *Orchestrator) Check(ctx context.Context, cfg netconfig.NetworkConfig) Report {
	versions, err := o.catalog.ListVersions(ctx, cfg)
	if err != nil {
		return Report{Err: err}
	}
	report := Report{Outcomes: make([]Outcome, 0, len(versions))}
	for _, version := range versions {
		status, err := protocol.Classify(o.sys, o.layout, version, cfg)
		outcome := Outcome{Version: version, Status: status, Err: err}
		outcome.Flagged = err != nil || status != protocol.Staged
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

// CheckForUpgrade classifies only the newest catalog version and flags it when it is
// Unstaged. Partially staged states are left to Check.
func (o *Orchestrator) CheckForUpgrade(ctx context.Context, cfg netconfig.NetworkConfig) Report {
	versions, err := o.catalog.ListVersions(ctx, cfg)
	if err != nil {
		return Report{Err: err}
	}
	latest, err := catalog.Latest(versions)
	if err != nil {
		return Report{Err: err}
	}
	status, err := protocol.Classify(o.sys, o.layout, latest, cfg)
	outcome := Outcome{Version: latest, Status: status, Err: err}
	outcome.Flagged = err != nil || status == protocol.Unstaged
	return Report{Outcomes: []Outcome{outcome}}
}

func (o *Orchestrator) logOutcome(outcome Outcome) {
	attrs := []any{"version", outcome.Version, "status", outcome.Status.Name(), "action", outcome.Action.String()}
	if outcome.Err != nil {
		o.log.Error(messages.LogVersionFailed, append(attrs, "error", outcome.Err)...)
		return
	}
	if outcome.Flagged {
		o.log.Warn(messages.LogVersionFlagged, attrs...)
		return
	}
	o.log.Info(messages.LogVersionDone, attrs...)
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf(messages.StageMissingRootFmt, path)
		}
		return fmt.Errorf(messages.StageStatRootFmt, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf(messages.StageRootNotDirFmt, path)
	}
	return nil
}
