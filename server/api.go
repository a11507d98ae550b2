// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package server exposes a PAC evaluator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saucelabs/pacengine/internal/version"
	"github.com/saucelabs/pacengine/log"
	"github.com/saucelabs/pacengine/pac"
)

// Paths lists the endpoints served by APIHandler, debug endpoints excluded.
var Paths = []string{"/proxy.pac", "/find", "/metrics", "/healthz", "/readyz", "/configz", "/version"}

type server interface {
	Addr() string
}

// Result is the JSON form of an evaluation.
type Result struct {
	URL     string        `json:"url"`
	Proxies []ProxyResult `json:"proxies,omitempty"`
	Result  string        `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type ProxyResult struct {
	Mode string `json:"mode"`
	Host string `json:"host,omitempty"`
	Port string `json:"port,omitempty"`
	URL  string `json:"url,omitempty"`
}

// NewResult converts evaluation output to a Result.
// Credentials are redacted from proxy URLs.
func NewResult(u string, proxies []pac.Proxy, err error) Result {
	r := Result{URL: u}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.Proxies = make([]ProxyResult, len(proxies))
	for i, p := range proxies {
		pr := ProxyResult{
			Mode: p.Mode.String(),
			Host: p.Host,
			Port: p.Port,
		}
		if pu := p.URL(); pu != nil {
			pr.URL = pu.Redacted()
		}
		r.Proxies[i] = pr
	}
	r.Result = pac.FormatProxies(proxies)
	return r
}

// APIHandler serves the PAC script and the evaluation API.
// It also provides health and readiness endpoints, prometheus metrics, and pprof debug endpoints.
type APIHandler struct {
	mux    *http.ServeMux
	server server
	finder pac.ProxyFinder
	config string
	script string
	log    log.StructuredLogger
}

func NewAPIHandler(r prometheus.Gatherer, s server, f pac.ProxyFinder, script, config string, l log.StructuredLogger) *APIHandler {
	if l == nil {
		l = log.NopLogger
	}

	m := http.NewServeMux()
	a := &APIHandler{
		mux:    m,
		server: s,
		finder: f,
		config: config,
		script: script,
		log:    l,
	}
	m.HandleFunc("/proxy.pac", a.pac)
	m.HandleFunc("/find", a.find)
	m.HandleFunc("/metrics", promhttp.HandlerFor(r, promhttp.HandlerOpts{}).ServeHTTP)
	m.HandleFunc("/healthz", a.healthz)
	m.HandleFunc("/readyz", a.readyz)
	m.HandleFunc("/configz", a.configz)
	m.HandleFunc("/version", a.version)

	m.HandleFunc("/debug/pprof/", pprof.Index)
	m.HandleFunc("/debug/pprof/profile", pprof.Profile)
	m.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	m.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return a
}

func (h *APIHandler) pac(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/x-ns-proxy-autoconfig")
	w.Write([]byte(h.script)) //nolint:errcheck // ignore error
}

func (h *APIHandler) find(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeJSON(w, http.StatusMethodNotAllowed, Result{Error: "method not allowed"})
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		h.writeJSON(w, http.StatusBadRequest, Result{Error: "missing url parameter"})
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, Result{URL: raw, Error: err.Error()})
		return
	}

	proxies, err := h.finder.FindProxyForURL(r.Context(), u)
	res := NewResult(u.Redacted(), proxies, err)
	if err != nil {
		h.log.Info("PAC evaluation failed", "url", u.Redacted(), "error", err)
	}
	h.writeJSON(w, statusCode(err), res)
}

func statusCode(err error) int {
	var verr *pac.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("failed to write response", "error", err)
	}
}

func (h *APIHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck // ignore error
}

func (h *APIHandler) readyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if h.server.Addr() != "" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // ignore error
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Service Unavailable")) //nolint:errcheck // ignore error
	}
}

func (h *APIHandler) configz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.config)) //nolint:errcheck // ignore error
}

func (h *APIHandler) version(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, version.Get())
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}
