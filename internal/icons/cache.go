// Package icons is the process-wide cache of marker and share icon assets.
//
// Icons are fetched once per name. A fetch that fails is logged and
// remembered, and the icon stays unavailable for the rest of the session.
package icons

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Icon names used by the map and the case detail views.
const (
	MultipleCases = "multiple-cases-marker-icon"
	SingleCase    = "single-case-marker-icon"
	MarkerGroup   = "marker-group-icon"
	Expand        = "expand-icon"
	Facebook      = "facebook-icon"
	Twitter       = "twitter-icon"
	Email         = "email-icon"
	Link          = "link-icon"
)

// All lists every icon the views may request.
var All = []string{MultipleCases, SingleCase, MarkerGroup, Expand, Facebook, Twitter, Email, Link}

var (
	// ErrIconUnavailable is returned for an icon whose fetch already failed.
	ErrIconUnavailable = errors.New("icon unavailable")
	// ErrCacheInstalled is returned by a second Install.
	ErrCacheInstalled = errors.New("icon cache already installed")
)

// Options configures a Cache.
type Options struct {
	Logger  *log.Logger
	Timeout time.Duration
}

// Cache holds fetched icon markup keyed by name.
type Cache struct {
	fetcher Fetcher
	logger  *log.Logger
	timeout time.Duration

	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.RWMutex
	svgs     map[string]string
	failed   map[string]error
	pending  map[string]bool
	onLoaded func(name string)
}

// New creates an empty cache backed by fetcher.
func New(fetcher Fetcher, opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[icons] ", log.LstdFlags)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Cache{
		fetcher: fetcher,
		logger:  logger,
		timeout: timeout,
		svgs:    make(map[string]string),
		failed:  make(map[string]error),
		pending: make(map[string]bool),
	}
}

// OnLoaded registers fn to run after each successful background fetch,
// typically to schedule a redraw. fn runs on the fetching goroutine.
func (c *Cache) OnLoaded(fn func(name string)) {
	c.mu.Lock()
	c.onLoaded = fn
	c.mu.Unlock()
}

// Get returns the markup for name if it is cached. Otherwise it starts a
// background fetch, unless one is running or has failed, and returns false.
func (c *Cache) Get(name string) (string, bool) {
	c.mu.Lock()
	if svg, ok := c.svgs[name]; ok {
		c.mu.Unlock()
		return svg, true
	}
	if _, failed := c.failed[name]; failed || c.pending[name] {
		c.mu.Unlock()
		return "", false
	}
	c.pending[name] = true
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if _, err := c.Load(ctx, name); err == nil {
			c.mu.RLock()
			fn := c.onLoaded
			c.mu.RUnlock()
			if fn != nil {
				fn(name)
			}
		}
	}()
	return "", false
}

// Load returns the markup for name, fetching it if needed. Concurrent
// loads of one name share a single fetch.
func (c *Cache) Load(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	svg, ok := c.svgs[name]
	_, failed := c.failed[name]
	c.mu.RUnlock()
	if ok {
		return svg, nil
	}
	if failed {
		return "", fmt.Errorf("%s: %w", name, ErrIconUnavailable)
	}

	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		data, err := c.fetcher.Fetch(ctx, name)
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.pending, name)
		if err != nil {
			c.failed[name] = err
			c.logger.Printf("Failed to load icon %s: %v", name, err)
			return "", err
		}
		c.svgs[name] = string(data)
		return string(data), nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrIconUnavailable)
	}
	return v.(string), nil
}

// Prefetch loads names synchronously and reports the icons that failed.
func (c *Cache) Prefetch(ctx context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := c.Load(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until background fetches started by Get have finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Failed reports whether name was fetched and failed.
func (c *Cache) Failed(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.failed[name]
	return ok
}

var shared atomic.Pointer[Cache]

// Install makes c the process-wide cache. It may be called once.
func Install(c *Cache) error {
	if c == nil {
		return errors.New("icon cache is nil")
	}
	if !shared.CompareAndSwap(nil, c) {
		return ErrCacheInstalled
	}
	return nil
}

// Shared returns the process-wide cache, or nil before Install.
func Shared() *Cache {
	return shared.Load()
}
