// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmatczuk/anyflag"
	"github.com/spf13/cobra"
)

type testSliceStruct struct {
	Strings []string
	Ints    []int
	Bools   []bool
	IPs     []netip.Addr
}

const bindSliceYAML = `strings: [a, b, c]
ints: [1, 2, 3]
bools: [true, false]
ips: [127.0.0.1, 127.0.0.2]
`

// bindSliceConfig maps config file names to their content, a file without extension is read as YAML.
var bindSliceConfig = map[string]string{
	"bind-slice.yaml": bindSliceYAML,
	"bind-slice":      bindSliceYAML,
	"bind-slice.json": `{
  "strings": ["a", "b", "c"],
  "ints": [1, 2, 3],
  "bools": [true, false],
  "ips": ["127.0.0.1", "127.0.0.2"]
}
`,
	"bind-slice.toml": `strings = ["a", "b", "c"]
ints = [1, 2, 3]
bools = [true, false]
ips = ["127.0.0.1", "127.0.0.2"]
`,
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBindSlice(t *testing.T) {
	for name, content := range bindSliceConfig {
		name, content := name, content
		t.Run(name, func(t *testing.T) {
			cmd := &cobra.Command{}
			fs := cmd.Flags()

			var v testSliceStruct
			fs.String("config-file", writeConfig(t, name, content), "")
			fs.StringSliceVar(&v.Strings, "strings", nil, "")
			fs.IntSliceVar(&v.Ints, "ints", nil, "")
			fs.BoolSliceVar(&v.Bools, "bools", nil, "")
			fs.Var(anyflag.NewSliceValue[netip.Addr](nil, &v.IPs, netip.ParseAddr), "ips", "")

			if err := BindAll(cmd, "TEST", "config-file"); err != nil {
				t.Fatal(err)
			}

			expected := testSliceStruct{
				Strings: []string{"a", "b", "c"},
				Ints:    []int{1, 2, 3},
				Bools:   []bool{true, false},
				IPs: []netip.Addr{
					netip.MustParseAddr("127.0.0.1"),
					netip.MustParseAddr("127.0.0.2"),
				},
			}

			ipcmp := cmp.Comparer(func(a, b netip.Addr) bool {
				return a.String() == b.String()
			})
			if diff := cmp.Diff(expected, v, ipcmp); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBindPrecedence(t *testing.T) {
	cfg := writeConfig(t, "config.yaml", "engine: otto\ndns-mode: doh\nlog-level: debug\n")
	t.Setenv("PACENGINE_DNS_MODE", "servers")

	cmd := &cobra.Command{}
	fs := cmd.Flags()
	fs.String("config-file", cfg, "")
	engine := fs.String("engine", "goja", "")
	dnsMode := fs.String("dns-mode", "system", "")
	logLevel := fs.String("log-level", "info", "")
	if err := fs.Parse([]string{"--log-level", "error"}); err != nil {
		t.Fatal(err)
	}

	if err := BindAll(cmd, "pacengine", "config-file"); err != nil {
		t.Fatal(err)
	}

	if *engine != "otto" {
		t.Errorf("engine = %q, want value from config file", *engine)
	}
	if *dnsMode != "servers" {
		t.Errorf("dns-mode = %q, want value from environment", *dnsMode)
	}
	if *logLevel != "error" {
		t.Errorf("log-level = %q, want value from command line", *logLevel)
	}
}

func TestBindInvalidValue(t *testing.T) {
	cmd := &cobra.Command{}
	fs := cmd.Flags()
	fs.String("config-file", writeConfig(t, "config.yaml", "cache-size: many\n"), "")
	fs.Int("cache-size", 0, "")

	if err := BindAll(cmd, "PACENGINE", "config-file"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnvName(t *testing.T) {
	if got, want := EnvName("PACENGINE", "dns-cache-ttl"), "PACENGINE_DNS_CACHE_TTL"; got != want {
		t.Errorf("EnvName() = %q, want %q", got, want)
	}
}
