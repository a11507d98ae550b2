// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package resolver provides name resolvers used by PAC helper functions.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"time"
)

// Resolver looks up IP addresses of a host.
// Network is one of "ip", "ip4" or "ip6".
// It is satisfied by *net.Resolver.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// ErrNotFound is returned when a lookup succeeds but yields no addresses.
var ErrNotFound = errors.New("no such host")

type Mode string

const (
	SystemMode  Mode = "system"
	ServersMode Mode = "servers"
	DoHMode     Mode = "doh"
)

func (m Mode) String() string {
	return string(m)
}

type Config struct {
	Mode      Mode
	Servers   []netip.AddrPort
	Providers []Provider
	// Timeout bounds a single lookup, zero means no limit.
	Timeout time.Duration
	// CacheTTL enables caching of lookup results, zero disables the cache.
	CacheTTL         time.Duration
	NegativeCacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Mode:             SystemMode,
		Providers:        []Provider{CloudflareProvider, GoogleProvider, Quad9Provider},
		Timeout:          5 * time.Second,
		NegativeCacheTTL: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	switch c.Mode {
	case SystemMode:
	case ServersMode:
		if len(c.Servers) == 0 {
			return errors.New("servers mode requires at least one DNS server")
		}
	case DoHMode:
		if len(c.Providers) == 0 {
			return errors.New("doh mode requires at least one provider")
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if c.CacheTTL < 0 || c.NegativeCacheTTL < 0 {
		return errors.New("cache TTL must be non-negative")
	}
	return nil
}

// New returns a resolver for the configured mode.
// The result is wrapped in a cache when CacheTTL is set.
func New(cfg *Config) (Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var r Resolver
	switch cfg.Mode {
	case ServersMode:
		r = Servers(cfg.Servers)
	case DoHMode:
		r = DoH(cfg.Providers...)
	default:
		r = net.DefaultResolver
	}
	if cfg.Timeout > 0 {
		r = withTimeout{r, cfg.Timeout}
	}
	if cfg.CacheTTL > 0 {
		r = Cached(r, cfg.CacheTTL, cfg.NegativeCacheTTL)
	}
	return r, nil
}

type withTimeout struct {
	Resolver
	timeout time.Duration
}

func (t withTimeout) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Resolver.LookupIP(ctx, network, host)
}

// ParseDNSAddress parses a DNS server address.
// It accepts an IP, an IP with port or a udp URL, the default port is 53.
// Hostnames are not allowed.
func ParseDNSAddress(val string) (netip.AddrPort, error) {
	if u, err := url.Parse(val); err == nil && u.Scheme != "" && u.Host != "" {
		if u.Scheme != "udp" {
			return netip.AddrPort{}, fmt.Errorf("invalid protocol: %s, supported protocol is udp", u.Scheme)
		}
		if u.User != nil || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return netip.AddrPort{}, fmt.Errorf("invalid DNS address %q", val)
		}
		val = u.Host
	}

	if ap, err := netip.ParseAddrPort(val); err == nil {
		if ap.Port() == 0 {
			return netip.AddrPort{}, fmt.Errorf("invalid port: %d", ap.Port())
		}
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()), nil
	}

	host, port := val, "53"
	if h, p, err := net.SplitHostPort(val); err == nil {
		host, port = h, p
	}
	a, err := netip.ParseAddr(host)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("invalid DNS address %q: must be an IP address", val)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil || p == 0 {
		return netip.AddrPort{}, fmt.Errorf("invalid port: %s", port)
	}
	return netip.AddrPortFrom(a.Unmap(), uint16(p)), nil
}

func filterNetwork(network string, ips []net.IP) []net.IP {
	if network == "ip" {
		return ips
	}
	out := ips[:0:0]
	for _, ip := range ips {
		is4 := ip.To4() != nil
		if (network == "ip4") == is4 {
			out = append(out, ip)
		}
	}
	return out
}
