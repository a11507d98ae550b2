// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"net/netip"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/pac"
	"github.com/saucelabs/pacengine/resolver"
	"github.com/spf13/pflag"
)

func TestDNSConfig(t *testing.T) {
	cfg := resolver.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	DNSConfig(fs, cfg)

	err := fs.Parse([]string{
		"--dns-mode", "servers",
		"-n", "1.1.1.1",
		"--dns-server", "8.8.8.8:5353",
		"--dns-doh-provider", "google",
		"--dns-cache-ttl", "1m",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := resolver.DefaultConfig()
	want.Mode = resolver.ServersMode
	want.Servers = []netip.AddrPort{
		netip.MustParseAddrPort("1.1.1.1:53"),
		netip.MustParseAddrPort("8.8.8.8:5353"),
	}
	want.Providers = []resolver.Provider{resolver.GoogleProvider}
	want.CacheTTL = time.Minute

	if got := fs.Lookup("dns-mode").Value.String(); got != "servers" {
		t.Errorf("dns-mode flag value = %q, want servers", got)
	}
	if got := fs.Lookup("dns-doh-provider").Value.String(); got != "[google]" {
		t.Errorf("dns-doh-provider flag value = %q, want [google]", got)
	}

	addrcmp := cmp.Comparer(func(a, b netip.AddrPort) bool { return a == b })
	if diff := cmp.Diff(want, cfg, addrcmp); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestDNSConfigInvalid(t *testing.T) {
	tests := [][]string{
		{"--dns-mode", "mdns"},
		{"--dns-server", "dns.google"},
		{"--dns-doh-provider", "opendns"},
	}
	for _, args := range tests {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.SetOutput(nopWriter{})
		DNSConfig(fs, resolver.DefaultConfig())
		if err := fs.Parse(args); err == nil {
			t.Errorf("Parse(%v): expected error", args)
		}
	}
}

func TestPACFlags(t *testing.T) {
	var loc *url.URL
	cfg := pac.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	PAC(fs, &loc)
	PACConfig(fs, cfg)

	err := fs.Parse([]string{
		"--pac", "data:base64,ZnVuY3Rpb24=",
		"--engine", "otto",
		"--cache",
		"--cache-size", "10",
		"--eval-timeout", "2s",
	})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Scheme != "data" {
		t.Errorf("pac scheme = %q, want data", loc.Scheme)
	}
	if cfg.Engine != pac.OttoEngine || !cfg.Cache || cfg.CacheSize != 10 || cfg.Timeout != 2*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if got := fs.Lookup("pac").Value.String(); got != "data:xxxxx" {
		t.Errorf("pac flag value = %q, want redacted", got)
	}
}

func TestLogConfig(t *testing.T) {
	cfg := log.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	LogConfig(fs, cfg)

	if err := fs.Parse([]string{"--log-level", "warn", "--log-format", "json", "--log-file", "/tmp/pacengine.log"}); err != nil {
		t.Fatal(err)
	}
	want := log.DefaultConfig()
	want.Level = log.WarnLevel
	want.Format = log.JSONFormat
	want.File = "/tmp/pacengine.log"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestDescribeFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("foo", false, "")
	fs.String("bar", "val", "")
	fs.StringSlice("baz", []string{"a", "b"}, "")
	fs.Bool("hidden", true, "")
	fs.Bool("help", false, "")
	if err := fs.MarkHidden("hidden"); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--foo"}); err != nil {
		t.Fatal(err)
	}

	if got, want := DescribeFlags(fs, false), "bar=val\nbaz=a,b\nfoo=true\n"; got != want {
		t.Errorf("DescribeFlags() = %q, want %q", got, want)
	}
	if got, want := DescribeFlags(fs, true), "foo=true\n"; got != want {
		t.Errorf("DescribeFlags(changedOnly) = %q, want %q", got, want)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
