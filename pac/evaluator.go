// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/saucelabs/pacengine/log"
	"golang.org/x/exp/utf8string"
)

const (
	entryFunction   = "FindProxyForURL"
	entryFunctionEx = "FindProxyForURLEx"

	scriptName = "proxy.pac"
)

// ProxyFinder finds proxies for a URL.
type ProxyFinder interface {
	FindProxyForURL(ctx context.Context, u *url.URL) ([]Proxy, error)
}

type Config struct {
	// Script is the PAC script source.
	Script string
	Engine Engine

	// Cache enables memoizing results by URL.
	// CacheSize bounds the number of cached URLs, zero means no bound.
	// Entries never expire, create a new Evaluator to start over.
	Cache     bool
	CacheSize int

	// Resolver is used by the DNS helper functions, net.DefaultResolver if nil.
	Resolver   Resolver
	DNSTimeout time.Duration

	// Timeout limits a single FindProxyForURL call, zero means no limit.
	Timeout time.Duration

	// AlertSink receives messages passed to alert().
	AlertSink io.Writer

	// Location is the time zone of weekdayRange, dateRange and timeRange, time.Local if nil.
	Location *time.Location

	// GlobCache is the shExpMatch pattern cache, DefaultGlobCache if nil.
	GlobCache *GlobCache

	PromRegistry  prometheus.Registerer
	PromNamespace string

	testingNow   func() time.Time
	testingMyIPs func(ipv6 bool) []net.IP
}

func DefaultConfig() *Config {
	return &Config{
		Engine:     GojaEngine,
		DNSTimeout: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Script == "" {
		return &ParsingError{Reason: "script is empty"}
	}
	if c.Engine != GojaEngine && c.Engine != OttoEngine {
		return &ParsingError{Reason: fmt.Sprintf("unsupported engine %s", c.Engine)}
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must be non-negative, got %d", c.CacheSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", c.Timeout)
	}
	if c.DNSTimeout < 0 {
		return fmt.Errorf("DNS timeout must be non-negative, got %s", c.DNSTimeout)
	}
	return nil
}

// Evaluator evaluates a PAC script for URLs.
// It supports both FindProxyForURL and FindProxyForURLEx functions,
// if the script defines both FindProxyForURLEx is used.
// It is safe for concurrent use, every call runs on its own interpreter.
type Evaluator struct {
	config     Config
	log        log.StructuredLogger
	metrics    *evaluatorMetrics
	pool       *interpreterPool
	cache      *resultCache
	entry      string
	engineInfo string
}

var _ ProxyFinder = (*Evaluator)(nil)

// New loads the PAC script, errors related to the script are *ParsingError.
func New(cfg *Config, l log.StructuredLogger) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = log.NopLogger
	}

	prog, err := compile(cfg.Engine, scriptName, cfg.Script)
	if err != nil {
		return nil, err
	}

	m := newEvaluatorMetrics(cfg.PromRegistry, cfg.PromNamespace)
	b := &bridge{
		helpers: &Helpers{
			Resolver:   cfg.Resolver,
			DNSTimeout: cfg.DNSTimeout,
			Globs:      cfg.GlobCache,
			Ranges: RangeEvaluator{
				Now:      cfg.testingNow,
				Location: cfg.Location,
			},
			AlertSink: cfg.AlertSink,
			Log:       l,
			MyIPs:     cfg.testingMyIPs,
		},
		metrics: m,
		log:     l,
	}

	pool, i, err := newInterpreterPool(prog, b)
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		config:     *cfg,
		log:        l,
		metrics:    m,
		pool:       pool,
		engineInfo: i.EngineInfo(),
	}

	// Find the FindProxyForURL function.
	switch {
	case i.HasFunction(entryFunctionEx):
		e.entry = entryFunctionEx
	case i.HasFunction(entryFunction):
		e.entry = entryFunction
	default:
		return nil, &ParsingError{Reason: "missing required function FindProxyForURL or FindProxyForURLEx"}
	}

	if cfg.Cache {
		e.cache = newResultCache(cfg.CacheSize)
	}

	return e, nil
}

type stage string

const (
	stageStripping stage = "stripping"
	stageInvoking  stage = "invoking"
	stageParsing   stage = "parsing"
	stageDone      stage = "done"
	stageFailed    stage = "failed"
)

func (e *Evaluator) stage(ctx context.Context, s stage, u string, args ...any) {
	e.log.DebugContext(ctx, "PAC evaluation", append([]any{"stage", string(s), "url", u}, args...)...)
}

// FindProxyForURL calls the entry function of the PAC script with the stripped URL and its host
// and returns the parsed proxies in order.
// With caching enabled a URL that was already evaluated is not evaluated again.
func (e *Evaluator) FindProxyForURL(ctx context.Context, u *url.URL) ([]Proxy, error) {
	if u == nil {
		return nil, &ValidationError{Reason: "nil URL"}
	}

	e.stage(ctx, stageStripping, u.Redacted())
	if u.Host == "" {
		err := &ValidationError{Input: u.Redacted(), Reason: "missing host"}
		e.stage(ctx, stageFailed, u.Redacted(), "error", err)
		return nil, err
	}
	key := StripURL(u).String()
	host := u.Hostname()

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	if e.cache == nil {
		return e.evaluate(ctx, key, host)
	}

	if p, ok := e.cache.get(key); ok {
		e.metrics.cacheHits.Inc()
		e.stage(ctx, stageDone, key, "cached", true)
		return p, nil
	}
	e.metrics.cacheMisses.Inc()

	return e.cache.do(ctx, key, func() ([]Proxy, error) {
		return e.evaluate(ctx, key, host)
	})
}

func (e *Evaluator) evaluate(ctx context.Context, u, host string) (res []Proxy, err error) {
	start := time.Now()
	defer func() {
		e.metrics.evaluated(err, time.Since(start))
		if err != nil {
			e.stage(ctx, stageFailed, u, "error", err)
		} else {
			e.stage(ctx, stageDone, u, "proxies", semicolonDelimitedString(res))
		}
	}()

	e.stage(ctx, stageInvoking, u, "function", e.entry)
	i, err := e.pool.get()
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}
	s, err := i.Invoke(ctx, e.entry, u, host)
	// Interrupted interpreters are discarded.
	if ctx.Err() == nil {
		e.pool.put(i)
	}
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Input == "" {
			ve.Input = u
		}
		return nil, err
	}

	if !utf8string.NewString(s).IsASCII() {
		return nil, &ValidationError{Input: s, Reason: "non-ASCII characters in the return value"}
	}

	e.stage(ctx, stageParsing, u, "result", s)
	return parseProxies(s, func(pos int, directive string, err error) {
		e.log.DebugContext(ctx, "skipping malformed proxy directive", "pos", pos, "directive", directive, "error", err)
	})
}

// StripURL returns the URL reduced to scheme, host and port with the path "/".
// User info, path, query and fragment are not passed to PAC scripts.
func StripURL(u *url.URL) *url.URL {
	return &url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   "/",
	}
}

// UsesCaching reports whether results are cached by URL.
func (e *Evaluator) UsesCaching() bool {
	return e.cache != nil
}

// JSEntryFunction returns the name of the script function called by FindProxyForURL.
func (e *Evaluator) JSEntryFunction() string {
	return e.entry
}

// EngineInfo describes the JavaScript interpreter.
func (e *Evaluator) EngineInfo() string {
	return e.engineInfo
}

// Script returns the PAC script source.
func (e *Evaluator) Script() string {
	return e.config.Script
}
