// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"fmt"

	"github.com/saucelabs/pacengine/log"
)

type helperFunc func(ctx context.Context, h *Helpers, args []Arg) (any, error)

// helperDef binds a script function name to Helpers.
// The zero value is returned to the script when the function fails.
type helperDef struct {
	name string
	zero any
	fn   helperFunc
}

func stringArgs(args []Arg, n int) ([]string, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	res := make([]string, n)
	for i := range res {
		s, ok := args[i].Text()
		if !ok {
			return nil, fmt.Errorf("argument %d: expected string, got %s", i, args[i])
		}
		res[i] = s
	}
	return res, nil
}

func unary[T any](fn func(h *Helpers, ctx context.Context, s string) T) helperFunc {
	return func(ctx context.Context, h *Helpers, args []Arg) (any, error) {
		s, err := stringArgs(args, 1)
		if err != nil {
			return nil, err
		}
		return fn(h, ctx, s[0]), nil
	}
}

func binary[T any](fn func(h *Helpers, ctx context.Context, a, b string) T) helperFunc {
	return func(ctx context.Context, h *Helpers, args []Arg) (any, error) {
		s, err := stringArgs(args, 2)
		if err != nil {
			return nil, err
		}
		return fn(h, ctx, s[0], s[1]), nil
	}
}

func rangeFunc(fn func(h *Helpers, args ...Arg) (bool, error)) helperFunc {
	return func(_ context.Context, h *Helpers, args []Arg) (any, error) {
		return fn(h, args...)
	}
}

var helperDefs = []helperDef{ //nolint:gochecknoglobals // function table
	{"isPlainHostName", false, unary(func(h *Helpers, _ context.Context, host string) bool {
		return h.IsPlainHostName(host)
	})},
	{"dnsDomainIs", false, binary(func(h *Helpers, _ context.Context, host, domain string) bool {
		return h.DNSDomainIs(host, domain)
	})},
	{"localHostOrDomainIs", false, binary(func(h *Helpers, _ context.Context, host, hostdom string) bool {
		return h.LocalHostOrDomainIs(host, hostdom)
	})},
	{"isResolvable", false, unary((*Helpers).IsResolvable)},
	{"dnsResolve", "", unary((*Helpers).DNSResolve)},
	{"myIpAddress", "127.0.0.1", func(_ context.Context, h *Helpers, _ []Arg) (any, error) {
		return h.MyIPAddress(), nil
	}},
	{"isInNet", false, func(ctx context.Context, h *Helpers, args []Arg) (any, error) {
		s, err := stringArgs(args, 3)
		if err != nil {
			return nil, err
		}
		return h.IsInNet(ctx, s[0], s[1], s[2]), nil
	}},
	{"dnsDomainLevels", 0, unary(func(h *Helpers, _ context.Context, host string) int {
		return h.DNSDomainLevels(host)
	})},
	{"shExpMatch", false, binary(func(h *Helpers, _ context.Context, str, glob string) bool {
		return h.ShExpMatch(str, glob)
	})},
	{"weekdayRange", false, rangeFunc((*Helpers).WeekdayRange)},
	{"dateRange", false, rangeFunc((*Helpers).DateRange)},
	{"timeRange", false, rangeFunc((*Helpers).TimeRange)},

	// IPv6
	{"isResolvableEx", false, unary((*Helpers).IsResolvableEx)},
	{"dnsResolveEx", "", unary((*Helpers).DNSResolveEx)},
	{"myIpAddressEx", "", func(_ context.Context, h *Helpers, _ []Arg) (any, error) {
		return h.MyIPAddressEx(), nil
	}},
	{"isInNetEx", false, binary((*Helpers).IsInNetEx)},
	{"sortIpAddressList", "", unary(func(h *Helpers, _ context.Context, list string) string {
		return h.SortIPAddressList(list)
	})},
	{"getClientVersion", "1.0", func(_ context.Context, h *Helpers, _ []Arg) (any, error) {
		return h.GetClientVersion(), nil
	}},

	// Alert
	{"alert", nil, func(_ context.Context, h *Helpers, args []Arg) (any, error) {
		msg := "undefined"
		if len(args) > 0 {
			if s, ok := args[0].Text(); ok {
				msg = s
			} else {
				msg = args[0].String()
			}
		}
		h.Alert(msg)
		return nil, nil
	}},
}

// bridge dispatches script function calls to Helpers.
// A failing or panicking helper is logged, counted and yields the zero value of the function.
type bridge struct {
	helpers *Helpers
	metrics *evaluatorMetrics
	log     log.StructuredLogger
}

func (b *bridge) call(ctx context.Context, d *helperDef, args []Arg) (res any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("PAC helper panic", "function", d.name, "panic", r)
			b.metrics.helperError(d.name)
			res = d.zero
		}
	}()

	v, err := d.fn(ctx, b.helpers, args)
	if err != nil {
		b.log.Debug("PAC helper failed", "function", d.name, "error", err)
		b.metrics.helperError(d.name)
		return d.zero
	}
	return v
}
