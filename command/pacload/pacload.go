// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pacload creates PAC evaluators from command line options.
package pacload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/saucelabs/pacengine/bind"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/pac"
	"github.com/saucelabs/pacengine/pacsource"
	"github.com/saucelabs/pacengine/resolver"
	"github.com/spf13/pflag"
)

// Config groups the options shared by the commands that evaluate PAC scripts.
type Config struct {
	Location  *url.URL
	Evaluator *pac.Config
	DNS       *resolver.Config

	resolvers []resolver.Resolver
}

func DefaultConfig() *Config {
	return &Config{
		Location:  &url.URL{Scheme: "file", Path: "proxy.pac"},
		Evaluator: pac.DefaultConfig(),
		DNS:       resolver.DefaultConfig(),
	}
}

func (c *Config) Bind(fs *pflag.FlagSet) {
	bind.PAC(fs, &c.Location)
	bind.PACConfig(fs, c.Evaluator)
	bind.DNSConfig(fs, c.DNS)
}

// Script reads the PAC script from the configured location.
func (c *Config) Script(ctx context.Context) (string, error) {
	return pacsource.Read(ctx, c.Location, nil)
}

// NewEvaluator creates an evaluator for script using the configured resolver.
func (c *Config) NewEvaluator(script string, l log.StructuredLogger) (*pac.Evaluator, error) {
	r, err := resolver.New(c.DNS)
	if err != nil {
		return nil, fmt.Errorf("configure DNS: %w", err)
	}

	c.resolvers = append(c.resolvers, r)

	cfg := *c.Evaluator
	cfg.Script = script
	cfg.Resolver = r
	cfg.DNSTimeout = c.DNS.Timeout

	ev, err := pac.New(&cfg, l)
	if err != nil {
		return nil, fmt.Errorf("load PAC script %s: %w", pacsource.Redact(c.Location), err)
	}
	return ev, nil
}

// Close releases the resolvers created by NewEvaluator.
func (c *Config) Close() error {
	var errs []error
	for _, r := range c.resolvers {
		if cl, ok := r.(io.Closer); ok {
			errs = append(errs, cl.Close())
		}
	}
	c.resolvers = nil
	return errors.Join(errs...)
}
