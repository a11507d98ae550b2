// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/saucelabs/pacengine/log"
	"golang.org/x/net/idna"
)

// Resolver resolves host names, *net.Resolver implements it.
// The network is "ip4" for IPv4 only lookups and "ip" for all address families.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Helpers implements the functions a PAC script can call.
// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Proxy_servers_and_tunneling/Proxy_Auto-Configuration_PAC_file#predefined_functions_and_environment
// and https://learn.microsoft.com/en-us/windows/win32/winhttp/ipv6-aware-proxy-helper-api-definitions.
//
// All functions are total, a lookup failure yields false or an empty string.
type Helpers struct {
	Resolver   Resolver
	DNSTimeout time.Duration
	Globs      *GlobCache
	Ranges     RangeEvaluator
	AlertSink  io.Writer
	Log        log.StructuredLogger

	// MyIPs returns the addresses of the local interfaces, it defaults to enumerating interfaces that are up.
	MyIPs func(ipv6 bool) []net.IP
}

func (h *Helpers) log() log.StructuredLogger {
	if h.Log == nil {
		return log.NopLogger
	}
	return h.Log
}

// lookupIP resolves host after IDNA conversion, IP literals are returned without a lookup.
func (h *Helpers) lookupIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("empty host")
	}

	if a, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		a = a.Unmap()
		if network == "ip4" && !a.Is4() {
			return nil, fmt.Errorf("%s is not an IPv4 address", host)
		}
		return []netip.Addr{a}, nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii, err = idna.Punycode.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("idna: %w", err)
		}
	}

	r := h.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	if h.DNSTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.DNSTimeout)
		defer cancel()
	}

	ips, err := r.LookupIP(ctx, network, ascii)
	if err != nil {
		return nil, err
	}

	res := make([]netip.Addr, 0, len(ips))
	for _, ip := range ips {
		a, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		a = a.Unmap()
		if network == "ip4" && !a.Is4() {
			continue
		}
		res = append(res, a)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("no addresses found for %s", host)
	}
	return res, nil
}

// IsPlainHostName is true if there is no domain name in the hostname (no dots).
// IP literals are not plain host names.
func (h *Helpers) IsPlainHostName(host string) bool {
	return !strings.ContainsAny(host, ".:")
}

// DNSDomainIs is true if the domain of hostname matches, the comparison is case-insensitive.
func (h *Helpers) DNSDomainIs(host, domain string) bool {
	return len(host) >= len(domain) && strings.EqualFold(host[len(host)-len(domain):], domain)
}

// LocalHostOrDomainIs is true if the hostname matches exactly the specified hostname,
// or if there is no domain name part in the hostname, but the unqualified hostname matches.
func (h *Helpers) LocalHostOrDomainIs(host, hostdom string) bool {
	host, hostdom = strings.ToLower(host), strings.ToLower(hostdom)
	return host == hostdom || strings.HasPrefix(hostdom, host+".")
}

// IsResolvable tries to resolve the hostname to an IPv4 address.
func (h *Helpers) IsResolvable(ctx context.Context, host string) bool {
	return h.DNSResolve(ctx, host) != ""
}

// DNSResolve resolves the given DNS hostname into an IPv4 address, and returns it in the dot-separated format.
// It returns an empty string if the host cannot be resolved.
func (h *Helpers) DNSResolve(ctx context.Context, host string) string {
	ips, err := h.lookupIP(ctx, "ip4", host)
	if err != nil {
		h.log().Debug("dnsResolve failed", "host", host, "error", err)
		return ""
	}
	return ips[0].String()
}

func (h *Helpers) myIPs(ipv6 bool) []net.IP {
	if h.MyIPs != nil {
		return h.MyIPs(ipv6)
	}
	return myIPAddress(ipv6)
}

// MyIPAddress returns the server IP address of the machine, "127.0.0.1" if none can be determined.
func (h *Helpers) MyIPAddress() string {
	for _, ip := range h.myIPs(false) {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}

// IsInNet is true if the IP address of the host matches the pattern and mask.
// If host is not an IPv4 literal it is resolved first.
func (h *Helpers) IsInNet(ctx context.Context, host, pattern, mask string) bool {
	ip := host
	if !IsIPv4Literal(ip) {
		if ip = h.DNSResolve(ctx, host); ip == "" {
			return false
		}
	}
	return IsInNet(ip, pattern, mask)
}

// DNSDomainLevels returns the number of dots in the hostname.
func (h *Helpers) DNSDomainLevels(host string) int {
	return strings.Count(host, ".")
}

// ShExpMatch is true if str matches the shell GLOB expression.
func (h *Helpers) ShExpMatch(str, glob string) bool {
	gc := h.Globs
	if gc == nil {
		gc = DefaultGlobCache
	}
	return gc.Match(str, glob)
}

func (h *Helpers) WeekdayRange(args ...Arg) (bool, error) {
	return h.Ranges.WeekdayRange(args...)
}

func (h *Helpers) DateRange(args ...Arg) (bool, error) {
	return h.Ranges.DateRange(args...)
}

func (h *Helpers) TimeRange(args ...Arg) (bool, error) {
	return h.Ranges.TimeRange(args...)
}

// IsResolvableEx is true if the host is resolvable to an IPv4 or IPv6 address.
func (h *Helpers) IsResolvableEx(ctx context.Context, host string) bool {
	return h.DNSResolveEx(ctx, host) != ""
}

// DNSResolveEx returns a semicolon delimited string of the IPv6 and IPv4 addresses of host,
// or an empty string if host is not resolvable.
func (h *Helpers) DNSResolveEx(ctx context.Context, host string) string {
	ips, err := h.lookupIP(ctx, "ip", host)
	if err != nil {
		h.log().Debug("dnsResolveEx failed", "host", host, "error", err)
		return ""
	}
	return semicolonDelimitedString(ips)
}

// MyIPAddressEx returns a semicolon delimited string of all local IP addresses, or an empty string if there are none.
func (h *Helpers) MyIPAddressEx() string {
	return semicolonDelimitedString(h.myIPs(true))
}

// IsInNetEx is true if the host is in the network given as an IP prefix such as "198.95.0.0/16".
// Host is either an IP literal or a name, a name matches if any of its addresses does.
func (h *Helpers) IsInNetEx(ctx context.Context, host, ipPrefix string) bool {
	var addrs []netip.Addr
	if a, err := netip.ParseAddr(host); err == nil {
		addrs = []netip.Addr{a}
	} else if addrs, err = h.lookupIP(ctx, "ip", host); err != nil {
		h.log().Debug("isInNetEx lookup failed", "host", host, "error", err)
		return false
	}

	for _, a := range addrs {
		if IPPrefixMatch(a, ipPrefix) {
			return true
		}
	}
	return false
}

func (h *Helpers) SortIPAddressList(list string) string {
	return SortIPAddressList(list)
}

// GetClientVersion returns the version of the WPAD engine.
func (h *Helpers) GetClientVersion() string {
	return "1.0"
}

// Alert logs msg and writes it to AlertSink.
func (h *Helpers) Alert(msg string) {
	h.log().Info("PAC alert", "message", msg)
	if h.AlertSink != nil {
		fmt.Fprintln(h.AlertSink, "alert:", msg)
	}
}
