// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

// resultCache memoizes FindProxyForURL results by stripped URL.
// Concurrent misses for the same URL share a single evaluation.
// Errors are not cached.
type resultCache struct {
	c  *fifoCache[string, []Proxy]
	sf singleflight.Group
}

func newResultCache(size int) *resultCache {
	return &resultCache{
		c: newFIFOCache[string, []Proxy](size),
	}
}

func (rc *resultCache) get(key string) ([]Proxy, bool) {
	v, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	return copyProxies(v), true
}

// do runs fn for key unless an evaluation for key is in flight, in which case it waits for its result.
// Waiting stops when ctx is done.
// If the evaluation of another caller was interrupted by that caller's context, fn is run again.
func (rc *resultCache) do(ctx context.Context, key string, fn func() ([]Proxy, error)) ([]Proxy, error) {
	for {
		var own bool
		ch := rc.sf.DoChan(key, func() (any, error) {
			own = true
			if v, ok := rc.c.Get(key); ok {
				return v, nil
			}
			v, err := fn()
			if err != nil {
				return nil, err
			}
			rc.c.Add(key, v)
			return v, nil
		})

		select {
		case r := <-ch:
			if r.Err != nil {
				if !own && ctx.Err() == nil && isContextError(r.Err) {
					continue
				}
				return nil, r.Err
			}
			return copyProxies(r.Val.([]Proxy)), nil //nolint:forcetypeassert // only []Proxy is returned
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (rc *resultCache) len() int {
	return rc.c.Len()
}

func copyProxies(p []Proxy) []Proxy {
	res := make([]Proxy, len(p))
	copy(res, p)
	return res
}
