// Package catalog fetches the ordered list of protocol versions a network expects.
package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/netconfig"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// Endpoint is the catalog path under a network's base URL.
const Endpoint = "protocol_versions"

// DefaultTimeout bounds a catalog request when the caller supplies no client.
const DefaultTimeout = 30 * time.Second

// Catalog lists remote protocol versions. It holds no cache; every call re-fetches.
type Catalog struct {
	Client *http.Client
}

// New returns a Catalog using client, or a default client with DefaultTimeout when nil.
func New(client *http.Client) *Catalog {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Catalog{Client: client}
}

// URL returns the catalog endpoint for cfg.
func URL(cfg netconfig.NetworkConfig) string {
	return cfg.NetworkURL() + "/" + Endpoint
}

// ListVersions fetches the catalog for cfg. Versions are returned in remote order,
// oldest first; the last element is the current version.
func (c *Catalog) ListVersions(ctx context.Context, cfg netconfig.NetworkConfig) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	url := URL(cfg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.CatalogCreateRequestFmt, url, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.CatalogRequestFailedFmt, nodeerr.ErrUpstreamUnavailable, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(messages.CatalogUnexpectedStatusFmt, nodeerr.ErrUpstreamUnavailable, url, resp.StatusCode)
	}

	var versions []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		versions = append(versions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.CatalogReadFailedFmt, nodeerr.ErrUpstreamUnavailable, url, err)
	}
	return versions, nil
}

// ErrEmpty reports a catalog that lists no versions.
var ErrEmpty = errors.New(messages.CatalogEmpty)

// Latest returns the final catalog entry.
func Latest(versions []string) (string, error) {
	if len(versions) == 0 {
		return "", ErrEmpty
	}
	return versions[len(versions)-1], nil
}
