// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"net/http"
	"time"

	"github.com/saucelabs/pacengine/log"
)

type LogEntry struct {
	Request  *http.Request
	Status   int
	Written  int64
	Duration time.Duration
}

type Logger func(e LogEntry)

func (l Logger) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		d := newDelegator(w)
		h.ServeHTTP(d, r)
		l(LogEntry{
			Request:  r,
			Status:   d.Status(),
			Written:  d.Written(),
			Duration: time.Since(start),
		})
	})
}

// AccessLog logs requests at debug level and server errors at warn level.
func AccessLog(l log.StructuredLogger) Logger {
	return func(e LogEntry) {
		args := []any{
			"method", e.Request.Method,
			"path", e.Request.URL.Path,
			"status", e.Status,
			"written", e.Written,
			"duration", e.Duration,
		}
		if e.Status >= http.StatusInternalServerError {
			l.WarnContext(e.Request.Context(), "HTTP request failed", args...)
			return
		}
		l.DebugContext(e.Request.Context(), "HTTP request", args...)
	}
}
