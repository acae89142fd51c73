// Package nodeerr defines the error taxonomy shared by the staging components.
// Call sites wrap these sentinels with context; callers classify with errors.Is.
package nodeerr

import "errors"

var (
	// ErrConfigLoad reports a missing network config file or required key.
	// It is fatal for the whole invocation.
	ErrConfigLoad = errors.New("config load error")
	// ErrUpstreamUnavailable reports a non-200 response, timeout, or oversized body
	// from the catalog or an archive endpoint.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrExtraction reports a malformed archive or a member that would escape its target.
	ErrExtraction = errors.New("extraction error")
	// ErrInvalidAddress reports an address that is not an IP literal.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrMissingTemplate reports a version directory without config-example.toml.
	ErrMissingTemplate = errors.New("missing template")
	// ErrWrongIdentity reports that the process runs as the wrong user.
	ErrWrongIdentity = errors.New("wrong execution identity")
	// ErrInvalidVersion reports a protocol version that does not name a single directory
	// under the config and bin roots.
	ErrInvalidVersion = errors.New("invalid protocol version")
	// ErrNetworkNotLoaded reports a classification attempted without a loaded network name.
	ErrNetworkNotLoaded = errors.New("network config not loaded")
)
