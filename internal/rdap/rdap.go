// Package rdap queries the registry lookup protocol: the IANA bootstrap
// directory maps a domain's suffix to the registry endpoint responsible for
// it, and a single GET against that endpoint decides whether a registration
// record exists.
package rdap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/benithors/dotresolve/internal/domain"
)

const DefaultBootstrapURL = "https://data.iana.org/rdap/dns.json"

// Status is the tri-state outcome of a single registry lookup. Unknown
// covers every inconclusive case and must never be collapsed into Taken.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
	StatusUnknown   Status = "unknown"
)

type Options struct {
	BootstrapURL string
	CacheTTL     time.Duration
	Timeout      time.Duration
	Cache        DirectoryCache
	Logger       *zap.Logger
}

// Client resolves registry endpoints from the bootstrap directory and
// performs per-domain availability lookups. It is safe for concurrent use;
// the directory cache is the only shared state.
type Client struct {
	opts  Options
	http  *http.Client
	cache DirectoryCache
	log   *zap.Logger

	// Serializes the bootstrap fetch so a cold cache doesn't trigger one
	// fetch per in-flight lookup.
	fetchMu sync.Mutex
}

func NewClient(opts Options) *Client {
	if opts.BootstrapURL == "" {
		opts.BootstrapURL = DefaultBootstrapURL
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Timeout == 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.Cache == nil {
		opts.Cache = newMemoryCache(opts.CacheTTL)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Client{
		opts:  opts,
		http:  &http.Client{Timeout: opts.Timeout},
		cache: opts.Cache,
		log:   opts.Logger,
	}
}

// LookupDomain checks a single domain against its registry. It never
// returns an error: every failure mode degrades to StatusUnknown so one
// bad lookup cannot abort a batch.
func (c *Client) LookupDomain(ctx context.Context, name string) Status {
	_, suffix := domain.Split(name)
	if suffix == "" {
		return StatusUnknown
	}

	base, ok := c.BaseForSuffix(ctx, suffix)
	if !ok {
		return StatusUnknown
	}

	lookupURL := base + "/domain/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return StatusUnknown
	}
	req.Header.Set("accept", "application/rdap+json, application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("rdap lookup failed", zap.String("domain", name), zap.Error(err))
		return StatusUnknown
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	switch resp.StatusCode {
	case http.StatusOK:
		// A registration record exists.
		return StatusTaken
	case http.StatusNotFound:
		// No record for the name means unregistered.
		return StatusAvailable
	default:
		c.log.Debug("rdap lookup inconclusive",
			zap.String("domain", name),
			zap.Int("status", resp.StatusCode))
		return StatusUnknown
	}
}

// BaseForSuffix returns the registry endpoint for a suffix with any
// trailing slash stripped. A missing suffix or an unreachable bootstrap
// directory yields ok=false; callers treat that as an inconclusive lookup,
// not a failure.
func (c *Client) BaseForSuffix(ctx context.Context, suffix string) (string, bool) {
	dir, err := c.directory(ctx)
	if err != nil {
		c.log.Warn("rdap bootstrap unavailable", zap.Error(err))
		return "", false
	}

	urls := dir.URLsForSuffix(suffix)
	if len(urls) == 0 {
		return "", false
	}
	return strings.TrimRight(urls[0], "/"), true
}

func (c *Client) directory(ctx context.Context) (*Directory, error) {
	if dir, ok := c.cache.Get(); ok {
		return dir, nil
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()
	// Another lookup may have populated the cache while we waited.
	if dir, ok := c.cache.Get(); ok {
		return dir, nil
	}

	dir, err := c.fetchDirectory(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(dir)
	return dir, nil
}

func (c *Client) fetchDirectory(ctx context.Context) (*Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BootstrapURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch rdap bootstrap")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("rdap bootstrap http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read rdap bootstrap")
	}
	return ParseDirectory(body)
}

// Directory is the parsed bootstrap mapping from suffix to registry
// endpoint URLs. Immutable once built.
type Directory struct {
	suffixToURLs map[string][]string
}

func (d *Directory) URLsForSuffix(suffix string) []string {
	return d.suffixToURLs[strings.ToLower(suffix)]
}

type directoryJSON struct {
	Services [][][]string `json:"services"`
}

// ParseDirectory decodes the bootstrap JSON. Each service entry pairs a
// list of suffixes with a list of candidate base URLs.
func ParseDirectory(b []byte) (*Directory, error) {
	var raw directoryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "parse rdap bootstrap")
	}
	m := make(map[string][]string, 2048)
	for _, svc := range raw.Services {
		if len(svc) != 2 {
			continue
		}
		suffixes := svc[0]
		urls := svc[1]
		for _, suffix := range suffixes {
			suffix = strings.ToLower(strings.TrimSpace(suffix))
			if suffix == "" {
				continue
			}
			m[suffix] = append([]string(nil), urls...)
		}
	}
	// Normalize URLs.
	for suffix, urls := range m {
		uniq := make([]string, 0, len(urls))
		seen := map[string]struct{}{}
		for _, u := range urls {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			if _, err := url.Parse(u); err != nil {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			uniq = append(uniq, u)
		}
		m[suffix] = uniq
	}
	return &Directory{suffixToURLs: m}, nil
}
