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
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/likexian/doh/dns"
)

func TestParseDNSAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.1.1.1", "1.1.1.1:53"},
		{"1.1.1.1:5353", "1.1.1.1:5353"},
		{"udp://8.8.8.8", "8.8.8.8:53"},
		{"udp://8.8.8.8:54", "8.8.8.8:54"},
		{"::1", "[::1]:53"},
		{"[2001:db8::1]:853", "[2001:db8::1]:853"},
	}
	for _, tc := range tests {
		got, err := ParseDNSAddress(tc.input)
		if err != nil {
			t.Errorf("ParseDNSAddress(%q): %v", tc.input, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseDNSAddress(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseDNSAddressError(t *testing.T) {
	for _, input := range []string{
		"",
		"dns.google",
		"localhost:53",
		"tcp://8.8.8.8",
		"udp://8.8.8.8/path",
		"1.1.1.1:0",
		"1.1.1.1:65536",
	} {
		if _, err := ParseDNSAddress(input); err == nil {
			t.Errorf("ParseDNSAddress(%q): expected error", input)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(c *Config)
		valid bool
	}{
		{"default", func(c *Config) {}, true},
		{"servers without servers", func(c *Config) { c.Mode = ServersMode }, false},
		{"servers", func(c *Config) {
			c.Mode = ServersMode
			c.Servers = []netip.AddrPort{netip.MustParseAddrPort("1.1.1.1:53")}
		}, true},
		{"doh without providers", func(c *Config) { c.Mode = DoHMode; c.Providers = nil }, false},
		{"doh", func(c *Config) { c.Mode = DoHMode }, true},
		{"unknown mode", func(c *Config) { c.Mode = "mdns" }, false},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, false},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.cfg(cfg)
			if err := cfg.Validate(); (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, want valid=%v", err, tc.valid)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheTTL = time.Minute
	r, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := r.(*CachedResolver)
	if !ok {
		t.Fatalf("New() = %T, want *CachedResolver", r)
	}
	c.Close()

	cfg = DefaultConfig()
	cfg.Timeout = 0
	r, err = New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if r != net.DefaultResolver {
		t.Errorf("New() = %T, want net.DefaultResolver", r)
	}
}

type countingResolver struct {
	calls atomic.Int32
	ips   map[string][]net.IP
}

func (r *countingResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	r.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ips, ok := r.ips[host]
	if !ok {
		return nil, ErrNotFound
	}
	return filterNetwork(network, ips), nil
}

func TestCachedResolver(t *testing.T) {
	base := &countingResolver{ips: map[string][]net.IP{
		"example.com": {net.ParseIP("93.184.216.34"), net.ParseIP("2606:2800:220:1:248:1893:25c8:1946")},
	}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cached(base, time.Minute, 10*time.Second)
	defer c.Close()
	c.SetTestingNow(func() time.Time { return now })

	ctx := context.Background()
	lookup := func(network, host string) ([]net.IP, error) {
		t.Helper()
		return c.LookupIP(ctx, network, host)
	}

	ips, err := lookup("ip4", "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]net.IP{net.ParseIP("93.184.216.34")}, ips); diff != "" {
		t.Errorf("LookupIP mismatch (-want +got):\n%s", diff)
	}
	lookup("ip4", "EXAMPLE.com") //nolint:errcheck // cached
	if got := base.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}

	// Network is part of the key.
	lookup("ip", "example.com") //nolint:errcheck // miss
	if got := base.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}

	// Negative entries expire sooner.
	if _, err := lookup("ip4", "missing.example"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := lookup("ip4", "missing.example"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cached ErrNotFound, got %v", err)
	}
	if got := base.calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}

	now = now.Add(11 * time.Second)
	lookup("ip4", "missing.example")  //nolint:errcheck // expired
	lookup("ip4", "example.com")      //nolint:errcheck // still cached
	if got := base.calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 4", got)
	}

	now = now.Add(time.Minute)
	lookup("ip4", "example.com") //nolint:errcheck // expired
	if got := base.calls.Load(); got != 5 {
		t.Errorf("calls = %d, want 5", got)
	}
}

func TestCachedResolverSkipsContextErrors(t *testing.T) {
	base := &countingResolver{ips: map[string][]net.IP{"example.com": {net.ParseIP("192.0.2.1")}}}
	c := Cached(base, time.Minute, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.LookupIP(ctx, "ip4", "example.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.cache.Has("ip4/example.com") {
		t.Error("context error was cached")
	}
	if _, err := c.LookupIP(context.Background(), "ip4", "example.com"); err != nil {
		t.Fatal(err)
	}
	if got := base.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestCachedResolverBackingStore(t *testing.T) {
	base := &countingResolver{ips: map[string][]net.IP{"example.com": {net.ParseIP("192.0.2.1")}}}
	c := Cached(base, 1500*time.Millisecond, 0)

	c.LookupIP(context.Background(), "ip4", "example.com")     //nolint:errcheck // positive entry
	c.LookupIP(context.Background(), "ip4", "missing.example") //nolint:errcheck // negative TTL is zero
	if !c.cache.Has("ip4/example.com") {
		t.Error("positive entry not stored")
	}
	if c.cache.Has("ip4/missing.example") {
		t.Error("negative entry stored with zero negative TTL")
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.cache.Has("ip4/example.com") {
		t.Error("cache not dropped on Close")
	}
}

func TestExpirySeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int64
	}{
		{time.Millisecond, 2},
		{time.Second, 2},
		{1500 * time.Millisecond, 3},
		{time.Minute, 61},
	}
	for _, tc := range tests {
		if got := expirySeconds(tc.ttl); got != tc.want {
			t.Errorf("expirySeconds(%s) = %d, want %d", tc.ttl, got, tc.want)
		}
	}
}

type fakeDoHClient struct {
	answers map[dns.Type][]dns.Answer
	err     error
	block   bool
}

func (f *fakeDoHClient) Query(ctx context.Context, _ dns.Domain, t dns.Type, _ ...dns.ECS) (*dns.Response, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &dns.Response{Answer: f.answers[t]}, nil
}

func TestDoHResolver(t *testing.T) {
	ok := &fakeDoHClient{answers: map[dns.Type][]dns.Answer{
		dns.TypeA: {
			{Name: "www.example.com.", Data: "example.com."},
			{Name: "example.com.", Data: "192.0.2.10"},
		},
		dns.TypeAAAA: {
			{Name: "example.com.", Data: "2001:db8::10"},
		},
	}}
	failing := &fakeDoHClient{err: errors.New("boom")}

	r := NewDoHResolver(failing, ok)
	ctx := context.Background()

	tests := []struct {
		network string
		want    []string
	}{
		{"ip4", []string{"192.0.2.10"}},
		{"ip6", []string{"2001:db8::10"}},
		{"ip", []string{"192.0.2.10", "2001:db8::10"}},
	}
	for _, tc := range tests {
		ips, err := r.LookupIP(ctx, tc.network, "www.example.com")
		if err != nil {
			t.Fatalf("%s: %v", tc.network, err)
		}
		got := make([]string, len(ips))
		for i := range ips {
			got[i] = ips[i].String()
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: LookupIP mismatch (-want +got):\n%s", tc.network, diff)
		}
	}
}

func TestDoHResolverErrors(t *testing.T) {
	r := NewDoHResolver(&fakeDoHClient{err: errors.New("boom")}, &fakeDoHClient{err: errors.New("bang")})
	if _, err := r.LookupIP(context.Background(), "ip4", "example.com"); err == nil {
		t.Fatal("expected error")
	}

	r = NewDoHResolver(&fakeDoHClient{})
	if _, err := r.LookupIP(context.Background(), "ip4", "example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	r = NewDoHResolver(&fakeDoHClient{block: true})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.LookupIP(ctx, "ip4", "example.com"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
