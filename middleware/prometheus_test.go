// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusWrap(t *testing.T) {
	h := http.NewServeMux()
	h.HandleFunc("/find", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("{}")) //nolint:errcheck // test handler
	})

	r := prometheus.NewPedanticRegistry()
	s := NewPrometheus(r, "test", WithCustomLabeler("handler", PathLabeler("/find"))).Wrap(h)

	requests := []string{"/find?url=http://example.com/", "/find", "/unknown"}
	var wg sync.WaitGroup
	for range [10]struct{}{} {
		for _, target := range requests {
			wg.Add(1)
			go func(target string) {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
				s.ServeHTTP(httptest.NewRecorder(), req)
			}(target)
		}
	}
	wg.Wait()

	mfs, err := r.Gather()
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "test_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var code, handler string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "code":
					code = lp.GetValue()
				case "handler":
					handler = lp.GetValue()
				}
			}
			got[handler+" "+code] = m.GetCounter().GetValue()
		}
	}

	want := map[string]float64{
		"/find 200": 10,
		"/find 400": 10,
		"other 404": 10,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected metrics (-want +got):\n%s", diff)
	}
}

func TestLoggerWrap(t *testing.T) {
	var entries []LogEntry
	l := Logger(func(e LogEntry) {
		entries = append(entries, e)
	})
	h := l.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello")) //nolint:errcheck // test handler
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/proxy.pac", http.NoBody))

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if e := entries[0]; e.Status != http.StatusOK || e.Written != 5 || e.Request.URL.Path != "/proxy.pac" {
		t.Errorf("unexpected entry: %+v", e)
	}
}
