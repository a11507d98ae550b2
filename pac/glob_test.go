// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"fmt"
	"sync"
	"testing"
)

func TestShExpMatch(t *testing.T) {
	tests := []struct {
		str  string
		glob string
		want bool
	}{
		{"abc/def/ghi", "*/def/*", true},
		{"abc/def/ghi", "*/xyz/*", false},
		{"http://home.netscape.com/people/ari/index.html", "*/ari/*", true},
		{"http://home.netscape.com/people/montulli/index.html", "*/ari/*", false},
		{"www.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"wwwXexample.com", "www.example.com", false},
		{"a", "?", true},
		{"ab", "?", false},
		{"", "*", true},
		{"file1", "file[0-9]", true},
		{"filex", "file[0-9]", false},
		{"filex", "file[!0-9]", true},
		{"file1", "file[!0-9]", false},
		{`a\b`, `a\b`, true},
		{"a+b", "a+b", true},
		{"aab", "a+b", false},
		{"a^b$", "a^b$", true},
		{"a(b", "a(b", true},
		{"a[b", "a[b", true},
		{"aXb", "a(b", false},
	}

	for i := range tests {
		tc := tests[i]
		t.Run(fmt.Sprintf("%s/%s", tc.str, tc.glob), func(t *testing.T) {
			if got := ShExpMatch(tc.str, tc.glob); got != tc.want {
				t.Errorf("ShExpMatch(%q, %q) = %v, want %v", tc.str, tc.glob, got, tc.want)
			}
		})
	}
}

func TestShExpMatchLiteral(t *testing.T) {
	literals := []string{
		"example.com",
		"localhost",
		"10.0.0.1",
		"http://example.com/",
		"a-b_c~d",
		"a+b(c){2}|d$^",
	}

	for _, s := range literals {
		if !ShExpMatch(s, s) {
			t.Errorf("%q does not match itself", s)
		}
		for _, other := range []string{s + "x", "x" + s, s[1:], ""} {
			if ShExpMatch(other, s) {
				t.Errorf("%q matches %q", other, s)
			}
		}
	}
}

func TestGlobToRegexp(t *testing.T) {
	tests := []struct {
		glob string
		want string
	}{
		{"*.example.com", `^.*?\.example\.com$`},
		{"a?c", `^a.{1}c$`},
		{"[!abc]", `^[^abc]$`},
		{`a\b`, `^a\\b$`},
		{"a!b", `^a!b$`},
		{"a+(b)", `^a\+\(b\)$`},
		{"[a.c]", `^[a.c]$`},
	}

	for _, tc := range tests {
		if got := globToRegexp(tc.glob); got != tc.want {
			t.Errorf("globToRegexp(%q) = %q, want %q", tc.glob, got, tc.want)
		}
	}
}

func TestGlobCacheBounded(t *testing.T) {
	gc := NewGlobCache(3)
	for i := 0; i < 10; i++ {
		gc.Compile(fmt.Sprintf("*.example%d.com", i))
	}
	if gc.Len() != 3 {
		t.Fatalf("cache size %d, want 3", gc.Len())
	}

	// The oldest entries are evicted, a miss compiles the pattern again.
	if !gc.Match("www.example0.com", "*.example0.com") {
		t.Fatal("evicted pattern does not match")
	}
	if gc.Len() != 3 {
		t.Fatalf("cache size %d, want 3", gc.Len())
	}
}

func TestGlobCacheSameInstance(t *testing.T) {
	gc := NewGlobCache(DefaultGlobCacheSize)
	a := gc.Compile("*.example.com")
	b := gc.Compile("*.example.com")
	if a != b {
		t.Fatal("expected cached pattern")
	}
}

func TestGlobCacheConcurrent(t *testing.T) {
	gc := NewGlobCache(DefaultGlobCacheSize)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			host := fmt.Sprintf("host%d.example.com", i%20)
			if !gc.Match(host, fmt.Sprintf("host%d.*", i%20)) {
				t.Errorf("%s does not match", host)
			}
		}(i)
	}
	wg.Wait()

	if gc.Len() > DefaultGlobCacheSize {
		t.Fatalf("cache size %d exceeds %d", gc.Len(), DefaultGlobCacheSize)
	}
}
