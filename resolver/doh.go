// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/likexian/doh/dns"
	"github.com/likexian/doh/provider/cloudflare"
	"github.com/likexian/doh/provider/dnspod"
	"github.com/likexian/doh/provider/google"
	"github.com/likexian/doh/provider/quad9"
)

// Provider names a DNS-over-HTTPS service.
type Provider string

const (
	CloudflareProvider Provider = "cloudflare"
	DNSPodProvider     Provider = "dnspod"
	GoogleProvider     Provider = "google"
	Quad9Provider      Provider = "quad9"
)

func (p Provider) String() string {
	return string(p)
}

// Providers lists all supported providers.
var Providers = []Provider{
	CloudflareProvider,
	DNSPodProvider,
	GoogleProvider,
	Quad9Provider,
}

// DoHClient is the query interface implemented by every provider client.
type DoHClient interface {
	Query(ctx context.Context, d dns.Domain, t dns.Type, s ...dns.ECS) (*dns.Response, error)
}

func newDoHClient(p Provider) DoHClient {
	switch p {
	case CloudflareProvider:
		return cloudflare.NewClient()
	case DNSPodProvider:
		return dnspod.NewClient()
	case GoogleProvider:
		return google.NewClient()
	default:
		return quad9.NewClient()
	}
}

// DoHResolver queries all providers concurrently and uses the first answer.
type DoHResolver struct {
	clients []DoHClient
}

func DoH(providers ...Provider) *DoHResolver {
	if len(providers) == 0 {
		providers = Providers
	}
	clients := make([]DoHClient, 0, len(providers))
	for _, p := range providers {
		clients = append(clients, newDoHClient(p))
	}
	return NewDoHResolver(clients...)
}

func NewDoHResolver(clients ...DoHClient) *DoHResolver {
	return &DoHResolver{clients: clients}
}

func (d *DoHResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	var types []dns.Type
	switch network {
	case "ip4":
		types = []dns.Type{dns.TypeA}
	case "ip6":
		types = []dns.Type{dns.TypeAAAA}
	default:
		types = []dns.Type{dns.TypeA, dns.TypeAAAA}
	}

	var (
		ips  []net.IP
		errs []error
	)
	for _, t := range types {
		v, err := d.query(ctx, dns.Domain(host), t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ips = append(ips, v...)
	}
	ips = filterNetwork(network, ips)
	if len(ips) == 0 {
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("lookup %s: %w", host, err)
		}
		return nil, fmt.Errorf("lookup %s: %w", host, ErrNotFound)
	}
	return ips, nil
}

func (d *DoHResolver) query(ctx context.Context, domain dns.Domain, t dns.Type) ([]net.IP, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		rsp *dns.Response
		err error
	}
	ch := make(chan result, len(d.clients))
	for _, c := range d.clients {
		go func(c DoHClient) {
			rsp, err := c.Query(ctx, domain, t)
			ch <- result{rsp, err}
		}(c)
	}

	var errs []error
	for range d.clients {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.err != nil {
				errs = append(errs, res.err)
				continue
			}
			return answerIPs(res.rsp), nil
		}
	}
	return nil, fmt.Errorf("doh: all queries failed: %w", errors.Join(errs...))
}

// answerIPs returns address records, CNAME answers are skipped.
func answerIPs(rsp *dns.Response) []net.IP {
	if rsp == nil {
		return nil
	}
	ips := make([]net.IP, 0, len(rsp.Answer))
	for _, a := range rsp.Answer {
		if ip := net.ParseIP(a.Data); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips
}
