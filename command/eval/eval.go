// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package eval

import (
	"fmt"
	"io"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/mmatczuk/anyflag"
	"github.com/saucelabs/pacengine/bind"
	"github.com/saucelabs/pacengine/command/pacload"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/log/slog"
	"github.com/saucelabs/pacengine/pac"
	"github.com/saucelabs/pacengine/server"
	"github.com/spf13/cobra"
)

type outputFormat string

const (
	textOutput outputFormat = "text"
	jsonOutput outputFormat = "json"
)

func (f outputFormat) String() string {
	return string(f)
}

type command struct {
	pacConfig *pacload.Config
	logConfig *log.Config
	output    outputFormat
}

func (c *command) runE(cmd *cobra.Command, args []string) error {
	if err := c.logConfig.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	logger := slog.New(c.logConfig)
	defer logger.Close()

	script, err := c.pacConfig.Script(cmd.Context())
	if err != nil {
		return err
	}

	c.pacConfig.Evaluator.AlertSink = cmd.ErrOrStderr()
	ev, err := c.pacConfig.NewEvaluator(script, logger.Named("pac"))
	if err != nil {
		return err
	}
	defer c.pacConfig.Close()
	logger.Debug("PAC script loaded", "engine", ev.EngineInfo(), "entry", ev.JSEntryFunction())

	w := cmd.OutOrStdout()
	var failed int
	for _, arg := range args {
		u, err := url.Parse(arg)
		if err != nil {
			return fmt.Errorf("parse URL: %w", err)
		}
		proxies, err := ev.FindProxyForURL(cmd.Context(), u)
		if err != nil {
			failed++
		}
		if werr := c.write(w, u, proxies, err); werr != nil {
			return werr
		}
	}

	if failed > 0 {
		return fmt.Errorf("evaluation failed for %d of %d URLs", failed, len(args))
	}
	return nil
}

func (c *command) write(w io.Writer, u *url.URL, proxies []pac.Proxy, err error) error {
	switch c.output {
	case jsonOutput:
		b, merr := json.Marshal(server.NewResult(u.Redacted(), proxies, err))
		if merr != nil {
			return merr
		}
		_, werr := fmt.Fprintln(w, string(b))
		return werr
	default:
		if err != nil {
			_, werr := fmt.Fprintf(w, "%s: error: %s\n", u.Redacted(), err)
			return werr
		}
		_, werr := fmt.Fprintln(w, pac.FormatProxies(proxies))
		return werr
	}
}

func Command() *cobra.Command {
	c := command{
		pacConfig: pacload.DefaultConfig(),
		logConfig: log.DefaultConfig(),
		output:    textOutput,
	}
	c.logConfig.Level = log.ErrorLevel

	cmd := &cobra.Command{
		Use:     "eval --pac <file|url> [flags] <url>...",
		Short:   "Evaluate a PAC file for given URL (or URLs)",
		Long:    long,
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.runE,
		Example: example,
	}

	fs := cmd.Flags()
	c.pacConfig.Bind(fs)
	bind.LogConfig(fs, c.logConfig)
	fs.VarP(anyflag.NewValue[outputFormat](c.output, &c.output, anyflag.EnumParser[outputFormat](textOutput, jsonOutput)),
		"output", "o", "<text|json>"+
			"Output format. Text prints the proxies for each URL in PAC result notation. "+
			"JSON prints one object per URL with the parsed proxies. ")

	bind.AutoMarkFlagFilename(cmd)

	return cmd
}

const long = `The output is a list of proxy strings, one per URL.
The PAC file can be specified as a file path, a data URI or URL with scheme "file", "http" or "https".
The PAC file must contain FindProxyForURL or FindProxyForURLEx and must be valid.
Alerts are written to stderr.
`

const example = `  # Evaluate PAC file for multiple URLs
  pacengine eval --pac pac.js https://www.google.com https://www.facebook.com

  # Evaluate with the otto engine and print JSON
  pacengine eval --pac pac.js --engine otto -o json https://www.google.com

  # Resolve host names with DNS-over-HTTPS
  pacengine eval --pac pac.js --dns-mode doh --dns-doh-provider cloudflare https://intranet.example.com
`
