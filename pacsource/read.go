// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pacsource

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// MaxScriptSize limits the number of bytes read from any source.
const MaxScriptSize = 16 << 20

// Read returns the PAC script at u as a string.
// The client is used for http and https locations, nil means http.DefaultClient.
func Read(ctx context.Context, u *url.URL, client *http.Client) (string, error) {
	var (
		b   []byte
		err error
	)
	switch u.Scheme {
	case "data":
		b, err = readData(u)
	case "file":
		b, err = readFile(u)
	case "http", "https":
		b, err = readHTTP(ctx, u, client)
	default:
		err = fmt.Errorf("unsupported scheme %q, supported schemes are: file, data, http and https", u.Scheme)
	}
	if err != nil {
		return "", fmt.Errorf("read PAC script from %s: %w", Redact(u), err)
	}
	return string(b), nil
}

func readData(u *url.URL) ([]byte, error) {
	v := strings.TrimPrefix(u.Opaque, "//")

	if idx := strings.IndexByte(v, ','); idx != -1 {
		if v[:idx] != "base64" {
			return nil, fmt.Errorf("invalid data URI, the only supported format is: data:base64,<encoded data>")
		}
		v = v[idx+1:]
	}

	return base64.StdEncoding.DecodeString(v)
}

func readFile(u *url.URL) ([]byte, error) {
	if u.Host != "" {
		return nil, fmt.Errorf("invalid file URL %q, host is not allowed", u.String())
	}
	if u.User != nil {
		return nil, fmt.Errorf("invalid file URL %q, user is not allowed", u.String())
	}
	if u.RawQuery != "" {
		return nil, fmt.Errorf("invalid file URL %q, query is not allowed", u.String())
	}
	if u.Fragment != "" {
		return nil, fmt.Errorf("invalid file URL %q, fragment is not allowed", u.String())
	}
	if u.Path == "" {
		return nil, fmt.Errorf("invalid file URL %q, path is empty", u.String())
	}

	if u.Path == Stdin {
		return readAll(os.Stdin)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readAll(f)
}

func readHTTP(ctx context.Context, u *url.URL, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return readAll(resp.Body)
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxScriptSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxScriptSize {
		return nil, fmt.Errorf("script exceeds %d bytes", MaxScriptSize)
	}
	return b, nil
}
