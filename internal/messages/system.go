package messages

// System messages for internal operations.
const (
	// SettingsSystemRequired indicates a nil settings System.
	SettingsSystemRequired     = "settings system is required"
	SettingsExpandPathFmt      = "expand path %s: %w"
	SettingsReadFmt            = "read settings %s: %w"
	SettingsInvalidFmt         = "invalid settings %s: %w"
	SettingsNegativeFmt        = "%s: %s must not be negative"
	SettingsInvalidLogLevelFmt = "%s: invalid log.level %q (expected debug, info, warn, or error)"

	LayoutReadPlatformFmt   = "read platform indicator %s: %w"
	LayoutInvalidVersionFmt = "%w: %q must name a single directory"

	// NetconfigReadFmt formats network config read failures.
	NetconfigReadFmt          = "%w: read network config %s: %w"
	NetconfigInvalidFmt       = "%w: %s: %w"
	NetconfigLineFmt          = "line %d: %w"
	NetconfigExpectedKeyValue = "expected KEY=VALUE"
	NetconfigMissingKeyFmt    = "%w: expected config value not found: %s in %s"

	CatalogCreateRequestFmt    = "create catalog request %s: %w"
	CatalogRequestFailedFmt    = "%w: request %s: %w"
	CatalogUnexpectedStatusFmt = "%w: expected status 200 requesting %s, received %d"
	CatalogReadFailedFmt       = "%w: read %s: %w"
	CatalogEmpty               = "catalog lists no protocol versions"

	ProtocolSystemRequired = "protocol system is required"
	ProtocolStatFmt        = "check %s: %w"

	// FetchTargetExistsFmt reports an extraction target that is already present.
	FetchTargetExistsFmt      = "%w: target %s already exists"
	FetchStatTargetFmt        = "check target %s: %w"
	FetchCreateRequestFmt     = "create request %s: %w"
	FetchRequestFailedFmt     = "%w: download %s: %w"
	FetchUnexpectedStatusFmt  = "%w: expected status 200 requesting %s, received %d"
	FetchTooLargeFmt          = "%w: download %s: response exceeds %d bytes"
	FetchCreateTempFmt        = "create %s: %w"
	FetchCloseTempFmt         = "close %s: %w"
	FetchCreateStagingFmt     = "create extraction dir in %s: %w"
	FetchChmodStagingFmt      = "set permissions on %s: %w"
	FetchOpenArchiveFmt       = "open archive %s: %w"
	FetchMoveIntoPlaceFmt     = "move extracted archive to %s: %w"
	FetchMalformedArchiveFmt  = "%w: malformed archive: %w"
	FetchUnsafeMemberFmt      = "%w: member %q escapes the target directory"
	FetchUnsafeLinkFmt        = "%w: member %q links outside the target directory (%s)"
	FetchUnsupportedMemberFmt = "%w: member %q has unsupported type %q"
	FetchWriteMemberFmt       = "%w: write member %s: %w"
	FetchOpenRootFmt          = "open extraction dir %s: %w"
	FetchShortMemberFmt       = "%w: member %s: expected %d bytes, got %d"

	// ConfiggenSystemRequired indicates a nil configgen System.
	ConfiggenSystemRequired     = "config system is required"
	ConfiggenInvalidAddressFmt  = "%w: %q is not an IP address"
	ConfiggenMissingTemplateFmt = "%w: %s not found"
	ConfiggenReadTemplateFmt    = "read template %s: %w"
	ConfiggenStatFmt            = "check %s: %w"
	ConfiggenWriteFmt           = "write %s: %w"
	ConfiggenReadFmt            = "read %s: %w"
	ConfiggenPromoteFmt         = "move %s to %s: %w"
	ConfiggenNothingPending     = "no generated config to promote"
	ConfiggenNothingPendingFmt  = "%w: no config.toml.new in %s"

	IdentityLookupFmt    = "look up uid %s: %w"
	IdentityWrongUserFmt = "%w: running as %q; run with 'sudo -u %s'"

	LoggingRunIDFmt        = "generate run id: %w"
	LoggingCreateDirFmt    = "create log directory for %s: %w"
	LoggingInvalidLevelFmt = "invalid log level %q (expected debug, info, warn, or error)"

	// StageCatalogRequired indicates an Orchestrator built without a catalog.
	StageCatalogRequired = "stage: catalog is required"
	StageFetcherRequired = "stage: fetcher is required to pull protocols"
	StageMissingRootFmt  = "expected location %s not found"
	StageStatRootFmt     = "check %s: %w"
	StageRootNotDirFmt   = "%s exists but is not a directory"
	StageNoAddressFmt    = "%w: could not determine external address; pass --ip"
)

// Log messages. Attributes carry the details.
const (
	LogSettingsLoaded       = "settings loaded"
	LogNetworkConfigLoaded  = "network config loaded"
	LogPullingProtocol      = "pulling protocol"
	LogCreatingConfig       = "creating config"
	LogUsingBinArchive      = "using bin archive"
	LogUsingProvidedAddress = "using provided address"
	LogUsingDetectedAddress = "using detected address"
	LogPendingConfig        = "config.toml exists; wrote config.toml.new instead"
	LogDownloading          = "downloading"
	LogExtracting           = "extracting"
	LogDeletingTemp         = "deleting temp archive"
	LogDeleteTempFailed     = "delete temp archive failed"
	LogQueryingAddress      = "querying external address"
	LogAddressReport        = "address service report"
	LogAddressServiceFailed = "address service request failed"
	LogVersionDone          = "version reconciled"
	LogVersionFlagged       = "version flagged"
	LogVersionFailed        = "version failed"
	LogConfigPromoted       = "config promoted"
)
