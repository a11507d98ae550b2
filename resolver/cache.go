// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/likexian/gokit/xcache"
)

type cacheEntry struct {
	ips     []net.IP
	err     error
	expires time.Time
}

// CachedResolver memoizes lookups for a fixed TTL.
// Failed lookups are remembered for the negative TTL, context errors are never cached.
// Expired entries are removed in the background until Close is called.
type CachedResolver struct {
	r           Resolver
	ttl         time.Duration
	negativeTTL time.Duration
	now         func() time.Time

	cache     xcache.Cachex
	closeOnce sync.Once
}

func Cached(r Resolver, ttl, negativeTTL time.Duration) *CachedResolver {
	return &CachedResolver{
		r:           r,
		ttl:         ttl,
		negativeTTL: negativeTTL,
		now:         time.Now,
		cache:       xcache.New(xcache.MemoryCache),
	}
}

func (c *CachedResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	key := network + "/" + strings.ToLower(host)

	if e, ok := c.cache.Get(key).(*cacheEntry); ok && c.now().Before(e.expires) {
		return copyIPs(e.ips), e.err
	}

	ips, err := c.r.LookupIP(ctx, network, host)

	ttl := c.ttl
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		ttl = c.negativeTTL
	}
	if ttl > 0 {
		e := &cacheEntry{ips: copyIPs(ips), err: err, expires: c.now().Add(ttl)}
		c.cache.Set(key, e, expirySeconds(ttl)) //nolint:errcheck // memory cache never fails
	}

	return ips, err
}

// Close stops the background removal of expired entries and drops the cache.
func (c *CachedResolver) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.cache.Close()
	})
	return err
}

// expirySeconds returns the TTL in whole seconds for the backing cache.
// It is rounded up and extended by a second so that the backing cache
// never drops an entry before its own expiry time.
func expirySeconds(ttl time.Duration) int64 {
	return int64((ttl+time.Second-1)/time.Second) + 1
}

func copyIPs(ips []net.IP) []net.IP {
	if ips == nil {
		return nil
	}
	out := make([]net.IP, len(ips))
	copy(out, ips)
	return out
}
