// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/saucelabs/pacengine/log"
)

type HTTPServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func DefaultHTTPServerConfig() *HTTPServerConfig {
	return &HTTPServerConfig{
		Addr:            "localhost:10000",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c *HTTPServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("address is required")
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return errors.New("timeouts must be non-negative")
	}
	return nil
}

type HTTPServer struct {
	config HTTPServerConfig
	log    log.StructuredLogger
	srv    *http.Server

	// Listener overrides the listener created from Addr.
	Listener net.Listener

	mu   sync.Mutex
	addr string
}

func NewHTTPServer(cfg *HTTPServerConfig, h http.Handler, l log.StructuredLogger) (*HTTPServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = log.NopLogger
	}

	return &HTTPServer{
		config: *cfg,
		log:    l,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}, nil
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (hs *HTTPServer) Run(ctx context.Context) error {
	listener, err := hs.getListener()
	if err != nil {
		return err
	}

	hs.mu.Lock()
	hs.addr = listener.Addr().String()
	hs.mu.Unlock()
	defer func() {
		hs.mu.Lock()
		hs.addr = ""
		hs.mu.Unlock()
	}()

	hs.log.Info("HTTP server started", "address", listener.Addr().String())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), hs.config.ShutdownTimeout)
		defer cancel()
		if err := hs.srv.Shutdown(sctx); err != nil {
			hs.log.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := hs.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	wg.Wait()

	hs.log.Debug("server was shutdown gracefully")
	return nil
}

// Addr returns the listen address, it is empty when the server is not running.
func (hs *HTTPServer) Addr() string {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.addr
}

func (hs *HTTPServer) getListener() (net.Listener, error) {
	if hs.Listener != nil {
		return hs.Listener, nil
	}

	listener, err := net.Listen("tcp", hs.srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open listener on address %s: %w", hs.srv.Addr, err)
	}
	return listener, nil
}
