// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultGlobCacheSize is the capacity of DefaultGlobCache.
const DefaultGlobCacheSize = 10

// globMatchTimeout bounds a single match so that a pathological pattern cannot stall the script.
const globMatchTimeout = 100 * time.Millisecond

// DefaultGlobCache is the process wide cache used by CompileGlob.
var DefaultGlobCache = NewGlobCache(DefaultGlobCacheSize) //nolint:gochecknoglobals // bounded process wide cache

// GlobCache compiles shell expressions to regular expressions and keeps the most recently added ones.
// It is safe for concurrent use.
// Entries are evicted in insertion order once the size is exceeded, a miss just compiles the pattern again.
type GlobCache struct {
	c *fifoCache[string, *regexp2.Regexp]
}

func NewGlobCache(size int) *GlobCache {
	if size <= 0 {
		size = DefaultGlobCacheSize
	}
	return &GlobCache{
		c: newFIFOCache[string, *regexp2.Regexp](size),
	}
}

// Compile returns the compiled form of glob, it never fails.
func (gc *GlobCache) Compile(glob string) *regexp2.Regexp {
	if re, ok := gc.c.Get(glob); ok {
		return re
	}
	return gc.c.GetOrAdd(glob, func() *regexp2.Regexp {
		return compileGlob(glob)
	})
}

// Len returns the number of cached patterns.
func (gc *GlobCache) Len() int {
	return gc.c.Len()
}

// Match reports whether s matches the shell expression glob.
func (gc *GlobCache) Match(s, glob string) bool {
	ok, err := gc.Compile(glob).MatchString(s)
	return err == nil && ok
}

// CompileGlob compiles glob using DefaultGlobCache.
func CompileGlob(glob string) *regexp2.Regexp {
	return DefaultGlobCache.Compile(glob)
}

// ShExpMatch reports whether s matches the shell expression glob using DefaultGlobCache.
func ShExpMatch(s, glob string) bool {
	return DefaultGlobCache.Match(s, glob)
}

func compileGlob(glob string) *regexp2.Regexp {
	re, err := regexp2.Compile(globToRegexp(glob), regexp2.None)
	if err != nil {
		// Characters other than the glob metacharacters are passed through,
		// if they do not form a valid expression match the glob literally.
		re = regexp2.MustCompile("^"+regexp2.Escape(glob)+"$", regexp2.None)
	}
	re.MatchTimeout = globMatchTimeout
	return re
}

// globToRegexp translates a shell expression to an anchored regular expression.
// Characters that are special to regular expressions but not to shell expressions are escaped
// outside of character classes, so a literal always matches only itself.
func globToRegexp(glob string) string {
	var sb strings.Builder
	sb.Grow(len(glob) + 8)
	sb.WriteByte('^')

	var (
		prev    rune
		inClass bool
	)
	for _, r := range glob {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case inClass:
			if r == '!' && prev == '[' {
				sb.WriteByte('^')
			} else {
				sb.WriteRune(r)
			}
			if r == ']' && prev != '[' {
				inClass = false
			}
		case r == '*':
			sb.WriteString(".*?")
		case r == '?':
			sb.WriteString(".{1}")
		case r == '.':
			sb.WriteString(`\.`)
		case r == '[':
			sb.WriteByte('[')
			inClass = true
		case strings.ContainsRune("+()^$|{}]", r):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
		prev = r
	}

	sb.WriteByte('$')
	return sb.String()
}
