package records

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/observability"
)

// Loader reads CSV files into tables, caching the aggregated result by
// content hash.
type Loader struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
	parse ParseOptions
	log   *log.Logger
	hooks observability.CacheHooks
	http  *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the table cache. The default never caches.
func WithCache(c cache.Cache) LoaderOption { return func(l *Loader) { l.cache = c } }

// WithKeyer overrides the cache key scheme.
func WithKeyer(k cache.Keyer) LoaderOption { return func(l *Loader) { l.keyer = k } }

// WithTTL sets how long tables stay cached.
func WithTTL(d time.Duration) LoaderOption { return func(l *Loader) { l.ttl = d } }

// WithParseOptions sets the CSV delimiter and comment character.
func WithParseOptions(o ParseOptions) LoaderOption { return func(l *Loader) { l.parse = o } }

// WithLogger enables debug logging of cache traffic.
func WithLogger(lg *log.Logger) LoaderOption { return func(l *Loader) { l.log = lg } }

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoaderOption { return func(l *Loader) { l.http = c } }

// WithCacheHooks overrides the global cache hooks.
func WithCacheHooks(h observability.CacheHooks) LoaderOption {
	return func(l *Loader) { l.hooks = h }
}

// NewLoader returns a loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{ttl: cache.DefaultTTL}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = cache.NewNullCache()
	}
	if l.keyer == nil {
		l.keyer = cache.NewDefaultKeyer()
	}
	if l.log == nil {
		l.log = log.New(io.Discard)
	}
	if l.hooks == nil {
		l.hooks = observability.Cache()
	}
	if l.http == nil {
		l.http = NewHTTPClient()
	}
	return l
}

// Load reads and aggregates the CSV file at path. An http(s) URL is
// fetched instead of read from disk.
func (l *Loader) Load(ctx context.Context, path string) (Table, error) {
	if IsURL(path) {
		data, err := l.fetch(ctx, path)
		if err != nil {
			return Table{}, errors.Wrap(errors.ErrCodeLoad, err, "fetch %s", path)
		}
		return l.load(ctx, path, data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeLoad, err, "read %s", path)
	}
	return l.load(ctx, path, data)
}

// LoadReader reads and aggregates a CSV stream. name labels errors and logs.
func (l *Loader) LoadReader(ctx context.Context, name string, r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeLoad, err, "read %s", name)
	}
	return l.load(ctx, name, data)
}

func (l *Loader) load(ctx context.Context, name string, data []byte) (Table, error) {
	key := l.keyer.TableKey(cache.Hash(data), cache.TableKeyOpts{
		Delimiter: l.parse.Delimiter,
		Comment:   l.parse.Comment,
	})

	if t, ok := l.cached(ctx, key); ok {
		l.log.Debug("table cache hit", "source", name, "records", len(t.Records))
		return t, nil
	}

	t, err := Parse(bytes.NewReader(data), l.parse)
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeLoad, err, "parse %s", name)
	}
	l.store(ctx, key, t)
	return t, nil
}

// cached looks key up. Backend failures count as misses so a flaky cache
// never blocks a load.
func (l *Loader) cached(ctx context.Context, key string) (Table, bool) {
	var raw []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		raw, hit, err = l.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		l.log.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		l.hooks.OnCacheMiss(ctx, key)
		return Table{}, false
	}

	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		l.log.Debug("dropping undecodable cache entry", "err", err)
		_ = l.cache.Delete(ctx, key)
		l.hooks.OnCacheMiss(ctx, key)
		return Table{}, false
	}
	l.hooks.OnCacheHit(ctx, key)
	return t, true
}

func (l *Loader) store(ctx context.Context, key string, t Table) {
	raw, err := json.Marshal(t)
	if err != nil {
		l.log.Warn("encode table for cache", "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return l.cache.Set(ctx, key, raw, l.ttl)
	})
	if err != nil {
		l.log.Warn("cache write failed", "err", err)
		return
	}
	l.hooks.OnCacheSet(ctx, key, len(raw))
}
