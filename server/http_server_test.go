// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestHTTPServerConfigValidate(t *testing.T) {
	cfg := DefaultHTTPServerConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Addr = "localhost"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for address without port")
	}
}

func TestHTTPServerRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong") //nolint:errcheck // test handler
	})
	hs, err := NewHTTPServer(DefaultHTTPServerConfig(), h, nil)
	if err != nil {
		t.Fatal(err)
	}
	hs.Listener = l

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- hs.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for hs.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	c := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := c.Get("http://" + hs.Addr() + "/")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(b) != "pong" {
		t.Errorf("body = %q, want pong", b)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	if hs.Addr() != "" {
		t.Errorf("Addr() = %q after shutdown, want empty", hs.Addr())
	}
}
