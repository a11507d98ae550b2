// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/mmatczuk/anyflag"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/pac"
	"github.com/saucelabs/pacengine/pacsource"
	"github.com/saucelabs/pacengine/resolver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func ConfigFile(fs *pflag.FlagSet, configFile *string) {
	fs.StringVarP(configFile,
		"config-file", "c", *configFile, "<path>"+
			"Configuration file to load options from. "+
			"The supported formats are: JSON, YAML, TOML, HCL, and Java properties. "+
			"The file format is determined by the file extension, if not specified the default format is YAML. "+
			"The following precedence order of configuration sources is used: command flags, environment variables, config file, default values. ")
}

func PAC(fs *pflag.FlagSet, pac **url.URL) {
	fs.VarP(anyflag.NewValueWithRedact[*url.URL](*pac, pac, pacsource.ParseLocation, pacsource.Redact),
		"pac", "p", "<path or URL>"+
			"Proxy Auto-Configuration file to evaluate. "+
			"It can be a local file, a file, http or https URL, or inline data in the form data:base64,<encoded script>. "+
			"You can also use '-' to read from stdin. ")
}

func PACConfig(fs *pflag.FlagSet, cfg *pac.Config) {
	engines := []pac.Engine{
		pac.GojaEngine,
		pac.OttoEngine,
	}
	fs.Var(anyflag.NewValue[pac.Engine](cfg.Engine, &cfg.Engine, anyflag.EnumParser[pac.Engine](engines...)),
		"engine", "<goja|otto>"+
			"JavaScript engine used to run the PAC script. ")

	fs.BoolVar(&cfg.Cache,
		"cache", cfg.Cache,
		"Cache evaluation results per scheme, host and port. ")

	fs.IntVar(&cfg.CacheSize,
		"cache-size", cfg.CacheSize, "<count>"+
			"Maximum number of cached results, the oldest entry is evicted first. "+
			"Zero means no limit. ")

	fs.DurationVar(&cfg.Timeout,
		"eval-timeout", cfg.Timeout,
		"Maximum time a single evaluation may take, including DNS lookups made by the script. "+
			"Zero means no limit. ")
}

func DNSConfig(fs *pflag.FlagSet, cfg *resolver.Config) {
	modes := []resolver.Mode{
		resolver.SystemMode,
		resolver.ServersMode,
		resolver.DoHMode,
	}
	fs.Var(anyflag.NewValue[resolver.Mode](cfg.Mode, &cfg.Mode, anyflag.EnumParser[resolver.Mode](modes...)),
		"dns-mode", "<system|servers|doh>"+
			"Name resolution used by the PAC helper functions. "+
			"Use servers to query the servers given with --dns-server, or doh to use DNS-over-HTTPS providers. ")

	fs.VarP(anyflag.NewSliceValue[netip.AddrPort](cfg.Servers, &cfg.Servers, resolver.ParseDNSAddress),
		"dns-server", "n", "<ip>[:<port>]"+
			"DNS server(s) to use in servers mode. "+
			"If specified multiple times, the first one is used as primary server, the rest are used as fallbacks. "+
			"The port is optional, if not specified the default port is 53. ")

	fs.Var(anyflag.NewSliceValue[resolver.Provider](cfg.Providers, &cfg.Providers, anyflag.EnumParser[resolver.Provider](resolver.Providers...)),
		"dns-doh-provider", "<cloudflare|dnspod|google|quad9>"+
			"DNS-over-HTTPS provider(s) to use in doh mode. "+
			"All providers are queried concurrently and the first answer wins. ")

	fs.DurationVar(&cfg.Timeout,
		"dns-timeout", cfg.Timeout,
		"Timeout for a single DNS lookup. ")

	fs.DurationVar(&cfg.CacheTTL,
		"dns-cache-ttl", cfg.CacheTTL,
		"Time to cache DNS lookup results, zero disables the cache. ")

	fs.DurationVar(&cfg.NegativeCacheTTL,
		"dns-negative-cache-ttl", cfg.NegativeCacheTTL,
		"Time to cache failed DNS lookups when the cache is enabled. ")
}

func LogConfig(fs *pflag.FlagSet, cfg *log.Config) {
	fs.StringVar(&cfg.File,
		"log-file", cfg.File, "<path>"+
			"Path to the log file, if empty, logs to stderr. "+
			"The file is rotated when it reaches --log-max-size or on SIGHUP. ")

	fs.IntVar(&cfg.MaxSize,
		"log-max-size", cfg.MaxSize, "<megabytes>"+
			"Maximum size of the log file before it gets rotated. ")

	fs.IntVar(&cfg.MaxBackups,
		"log-max-backups", cfg.MaxBackups, "<count>"+
			"Maximum number of old log files to retain. ")

	logLevel := []log.Level{
		log.ErrorLevel,
		log.WarnLevel,
		log.InfoLevel,
		log.DebugLevel,
	}
	fs.Var(anyflag.NewValue[log.Level](cfg.Level, &cfg.Level, anyflag.EnumParser[log.Level](logLevel...)),
		"log-level", "<error|warn|info|debug>"+
			"Log level. ")

	logFormat := []log.Format{
		log.TextFormat,
		log.JSONFormat,
	}
	fs.Var(anyflag.NewValue[log.Format](cfg.Format, &cfg.Format, anyflag.EnumParser[log.Format](logFormat...)),
		"log-format", "<text|json>"+
			"Log format. ")
}

func MarkFlagHidden(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.Flags().MarkHidden(name); err != nil {
			panic(err)
		}
	}
}

func MarkFlagRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func AutoMarkFlagFilename(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.HasPrefix(f.Usage, "<path") ||
			strings.HasSuffix(f.Name, "-file") ||
			strings.HasSuffix(f.Name, "-dir") {
			MarkFlagFilename(cmd, f.Name)
		}
	})
}

func MarkFlagFilename(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagFilename(name); err != nil {
			panic(err)
		}
	}
}

// DescribeFlags returns name=value lines for the visible flags.
// When changedOnly is set only flags set by the user are included.
func DescribeFlags(fs *pflag.FlagSet, changedOnly bool) string {
	var b strings.Builder
	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden || flag.Name == "help" {
			return
		}
		if changedOnly && !flag.Changed {
			return
		}
		b.WriteString(fmt.Sprintf("%s=%s\n", flag.Name, strings.Trim(flag.Value.String(), "[]")))
	})
	return b.String()
}
