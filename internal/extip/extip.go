// Package extip resolves the node's external address by polling independent
// address-echo services and taking the plurality answer.
package extip

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/conn-castle/node-util/internal/logging"
	"github.com/conn-castle/node-util/internal/messages"
)

// DefaultTimeout bounds each service request.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps an echo service body; an address never needs more.
const maxResponseBytes = 256

// Resolver queries Services in order. Services must hold three independent endpoints
// for the plurality vote to be meaningful.
type Resolver struct {
	Services []string
	Client   *http.Client
	Logger   *slog.Logger
}

// New returns a Resolver over services, using a client with timeout per request.
func New(services []string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		Services: append([]string(nil), services...),
		Client:   &http.Client{Timeout: timeout},
		Logger:   logger,
	}
}

// Resolve returns the address reported by the most services. Services that fail,
// answer non-200, or answer with something other than an IP literal are ignored.
// It reports false when no service answered or the top answers tie.
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.Logger.Info(messages.LogQueryingAddress)
	var answers []string
	for _, service := range r.Services {
		address, status := r.query(ctx, service)
		r.Logger.Info(messages.LogAddressReport, "service", serviceName(service), "address", address, "status", status)
		if address == "" {
			continue
		}
		if _, err := netip.ParseAddr(address); err != nil {
			continue
		}
		answers = append(answers, address)
	}
	return Plurality(answers)
}

// Plurality returns the value with a unique highest count in answers.
func Plurality(answers []string) (string, bool) {
	counts := make(map[string]int, len(answers))
	for _, a := range answers {
		counts[a]++
	}
	best, bestCount, tied := "", 0, false
	for _, a := range answers {
		n := counts[a]
		switch {
		case n > bestCount:
			best, bestCount, tied = a, n, false
		case n == bestCount && a != best:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}

func (r *Resolver) query(ctx context.Context, url string) (string, int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0
	}
	req.Header.Set("User-Agent", "curl/8")
	resp, err := r.Client.Do(req)
	if err != nil {
		r.Logger.Debug(messages.LogAddressServiceFailed, "service", url, "error", err)
		return "", 0
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", resp.StatusCode
	}
	return strings.TrimSpace(string(body)), resp.StatusCode
}

func serviceName(url string) string {
	name := url
	if _, rest, ok := strings.Cut(url, "://"); ok {
		name = rest
	}
	name, _, _ = strings.Cut(name, "/")
	return strings.TrimPrefix(name, "checkip.")
}

// Memo holds the outcome of one resolution for the rest of a staging run, so every
// version materialized in that run uses the same address.
type Memo struct {
	address  string
	resolved bool
}

// Lookup returns the memoized address, resolving through resolve on first use.
// A failed resolution is not memoized.
func (m *Memo) Lookup(ctx context.Context, resolve func(context.Context) (string, bool)) (string, bool) {
	if m.resolved {
		return m.address, true
	}
	address, ok := resolve(ctx)
	if !ok {
		return "", false
	}
	m.address, m.resolved = address, true
	return address, true
}
