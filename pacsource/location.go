// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pacsource locates and loads PAC scripts.
// A script may come from a local file, a file URL, an http(s) URL,
// an inline base64 data URI or stdin.
package pacsource

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	uncEmptyAuthorityRegex = regexp.MustCompile(`^file:/{4,}([^/])`)
	windowsVolumeRegex     = regexp.MustCompile(`^/?([a-zA-Z])[:\|]/`)
)

// Stdin is the location value that reads the script from standard input.
const Stdin = "-"

// ParseLocation parses a PAC script location.
// Values without a scheme are file paths, "-" means stdin.
// File URLs follow RFC 8089 including UNC and Windows volume forms.
func ParseLocation(val string) (*url.URL, error) {
	if val == "" {
		return nil, fmt.Errorf("empty PAC location")
	}
	if val == Stdin {
		return &url.URL{Scheme: "file", Path: Stdin}, nil
	}
	if strings.HasPrefix(val, "data:") {
		return &url.URL{Scheme: "data", Opaque: val[len("data:"):]}, nil
	}

	val = strings.ReplaceAll(val, "\\", "/")

	if strings.HasPrefix(val, "//") {
		val = "file:" + val
	}
	if m := uncEmptyAuthorityRegex.FindStringSubmatch(val); m != nil {
		val = "file://" + m[1] + val[len(m[0]):]
	}

	u, err := url.Parse(val)
	if err != nil {
		return nil, err
	}

	// A single letter scheme is a Windows drive.
	if len(u.Scheme) == 1 {
		return &url.URL{Scheme: "file", Path: val}, nil
	}

	switch u.Scheme {
	case "":
		u.Scheme = "file"
	case "file":
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid PAC URL %q, host is empty", val)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q, supported schemes are: file, data, http and https", u.Scheme)
	}

	if u.Path == "" && u.Opaque != "" {
		u.Path, u.Opaque = u.Opaque, u.Path
	}
	if m := windowsVolumeRegex.FindStringSubmatch(u.Path); m != nil {
		u.Path = m[1] + ":/" + u.Path[len(m[0]):]
	}

	u.OmitHost = false
	return u, nil
}

// Redact hides inline script data and URL passwords.
func Redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.Scheme == "data" {
		return "data:xxxxx"
	}
	return u.Redacted()
}
