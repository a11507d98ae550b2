// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saucelabs/pacengine/bind"
	"github.com/saucelabs/pacengine/command/pacload"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/log/slog"
	"github.com/saucelabs/pacengine/middleware"
	"github.com/saucelabs/pacengine/pac"
	"github.com/saucelabs/pacengine/runctx"
	"github.com/saucelabs/pacengine/server"
	"github.com/spf13/cobra"
)

type command struct {
	pacConfig        *pacload.Config
	httpServerConfig *server.HTTPServerConfig
	logConfig        *log.Config
	promNamespace    string
}

func (c *command) runE(cmd *cobra.Command, _ []string) (cmdErr error) {
	if err := c.logConfig.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	logger := slog.New(c.logConfig)
	defer logger.Close()

	defer func() {
		if cmdErr != nil {
			logger.Error("fatal error exiting", "error", cmdErr)
		}
	}()

	logger.Info("configuration\n" + bind.DescribeFlags(cmd.Flags(), true))
	logger.Debug("all configuration\n" + bind.DescribeFlags(cmd.Flags(), false))

	script, err := c.pacConfig.Script(cmd.Context())
	if err != nil {
		return err
	}

	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: c.promNamespace}),
	)
	c.pacConfig.Evaluator.PromRegistry = r
	c.pacConfig.Evaluator.PromNamespace = c.promNamespace

	ev, err := c.pacConfig.NewEvaluator(script, logger.Named("pac"))
	if err != nil {
		return err
	}
	defer c.pacConfig.Close()
	if err := validatePACScript(cmd.Context(), ev); err != nil {
		return err
	}
	logger.Info("PAC script loaded", "engine", ev.EngineInfo(), "entry", ev.JSEntryFunction(), "cache", ev.UsesCaching())

	var s *server.HTTPServer
	var h http.Handler = server.NewAPIHandler(r, serverAddr(func() string { return s.Addr() }), ev, script,
		bind.DescribeFlags(cmd.Flags(), false), logger.Named("api"))
	h = middleware.NewPrometheus(r, c.promNamespace,
		middleware.WithCustomLabeler("handler", middleware.PathLabeler(server.Paths...))).Wrap(h)
	h = middleware.AccessLog(logger.Named("http")).Wrap(h)

	s, err = server.NewHTTPServer(c.httpServerConfig, h, logger.Named("server"))
	if err != nil {
		return err
	}

	return runctx.NewGroup(s.Run).RunContext(cmd.Context())
}

type serverAddr func() string

func (f serverAddr) Addr() string {
	return f()
}

func validatePACScript(ctx context.Context, ev *pac.Evaluator) error {
	_, err := ev.FindProxyForURL(ctx, &url.URL{Scheme: "https", Host: "saucelabs.com"})
	if err != nil {
		return fmt.Errorf("validate PAC script: %w", err)
	}
	return nil
}

func Command() *cobra.Command {
	c := command{
		pacConfig:        pacload.DefaultConfig(),
		httpServerConfig: server.DefaultHTTPServerConfig(),
		logConfig:        log.DefaultConfig(),
		promNamespace:    "pacengine",
	}

	cmd := &cobra.Command{
		Use:     "server --pac <file|url> [--address <host:port>] [flags]",
		Short:   "Start HTTP server that serves a PAC file and evaluates it on request",
		Long:    long,
		Args:    cobra.NoArgs,
		RunE:    c.runE,
		Example: example,
	}

	fs := cmd.Flags()
	c.pacConfig.Bind(fs)
	fs.StringVar(&c.httpServerConfig.Addr,
		"address", c.httpServerConfig.Addr, "<host:port>"+
			"The server address to listen on. "+
			"If the host is empty, the server will listen on all available interfaces. ")
	fs.DurationVar(&c.httpServerConfig.ReadTimeout,
		"read-timeout", c.httpServerConfig.ReadTimeout,
		"The maximum duration for reading the entire request, including the body. ")
	fs.DurationVar(&c.httpServerConfig.ShutdownTimeout,
		"shutdown-timeout", c.httpServerConfig.ShutdownTimeout,
		"The maximum time to wait for in-flight requests on shutdown. ")
	fs.StringVar(&c.promNamespace,
		"prom-namespace", c.promNamespace, "<name>"+
			"Prometheus namespace to use for metrics. ")
	bind.LogConfig(fs, c.logConfig)

	bind.AutoMarkFlagFilename(cmd)

	return cmd
}

const long = `The server exposes the following endpoints:

  /proxy.pac      the PAC script
  /find?url=<u>   evaluation result for URL u as JSON
  /metrics        Prometheus metrics
  /healthz        liveness probe
  /readyz         readiness probe
  /configz        effective configuration
  /version        version information

The PAC file can be specified as a file path, a data URI or URL with scheme "file", "http" or "https".
The PAC file must contain FindProxyForURL or FindProxyForURLEx and must be valid.
Alerts are logged at info level.
`

const example = `  # Serve PAC file on the default address
  pacengine server --pac pac.js

  # Cache results and listen on all interfaces
  pacengine server --pac pac.js --cache --cache-size 10000 --address :8080

  # Query the server
  curl 'http://localhost:10000/find?url=https://www.google.com'
`
