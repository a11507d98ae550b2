// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/bogdanovich/dns_resolver"
)

// ServersResolver queries explicit DNS servers for A records.
// The first server is the primary, the rest are used as fallbacks.
type ServersResolver struct {
	r *dns_resolver.DnsResolver
}

func Servers(servers []netip.AddrPort) *ServersResolver {
	hosts := make([]string, len(servers))
	for i, s := range servers {
		hosts[i] = s.Addr().String()
	}
	r := dns_resolver.New(hosts)
	addrs := make([]string, len(servers))
	for i, s := range servers {
		addrs[i] = s.String()
	}
	r.Servers = addrs

	return &ServersResolver{r: r}
}

func (s *ServersResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	if network == "ip6" {
		return nil, fmt.Errorf("lookup %s: AAAA queries are not supported with explicit DNS servers", host)
	}

	type result struct {
		ips []net.IP
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ips, err := s.r.LookupHost(host)
		ch <- result{ips, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("lookup %s: %w", host, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("lookup %s: %w", host, res.err)
		}
		if len(res.ips) == 0 {
			return nil, fmt.Errorf("lookup %s: %w", host, ErrNotFound)
		}
		return res.ips, nil
	}
}
