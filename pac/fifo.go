// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"container/list"
	"sync"
)

// fifoCache is a map bounded by insertion order eviction.
// A size of zero or less disables the bound.
type fifoCache[K comparable, V any] struct {
	mu    sync.Mutex
	size  int
	items map[K]*list.Element
	order *list.List
}

type fifoEntry[K comparable, V any] struct {
	key   K
	value V
}

func newFIFOCache[K comparable, V any](size int) *fifoCache[K, V] {
	return &fifoCache[K, V]{
		size:  size,
		items: make(map[K]*list.Element),
		order: list.New(),
	}
}

func (c *fifoCache[K, V]) Get(key K) (v V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return v, false
	}
	return e.Value.(*fifoEntry[K, V]).value, true //nolint:forcetypeassert // only entries are stored
}

// GetOrAdd returns the cached value for key or stores the value returned by fn.
// The whole operation is atomic, fn is called with the lock held and must not use the cache.
func (c *fifoCache[K, V]) GetOrAdd(key K, fn func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		return e.Value.(*fifoEntry[K, V]).value //nolint:forcetypeassert // only entries are stored
	}
	v := fn()
	c.add(key, v)
	return v
}

func (c *fifoCache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.Value.(*fifoEntry[K, V]).value = value //nolint:forcetypeassert // only entries are stored
		return
	}
	c.add(key, value)
}

func (c *fifoCache[K, V]) add(key K, value V) {
	c.items[key] = c.order.PushBack(&fifoEntry[K, V]{key: key, value: value})
	for c.size > 0 && c.order.Len() > c.size {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*fifoEntry[K, V]).key) //nolint:forcetypeassert // only entries are stored
	}
}

func (c *fifoCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
