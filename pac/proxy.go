// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

// Proxies is a list of proxies as returned from FindProxyForURL.
// The string can contain any number of the following building blocks, separated by a semicolon:
// <type> [<user>:<password>@]<host>[:<port>] where
// <type> = "DIRECT" | "PROXY" | "SOCKS" | "HTTP" | "HTTPS" | "SOCKS4" | "SOCKS5"
// <host> = a valid DNS hostname or IP address
// <port> = a valid port number, if omitted the default port of the type is used.
//
// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Proxy_servers_and_tunneling/Proxy_Auto-Configuration_PAC_file#return_value_format
type Proxies string

// Mode is a proxy mode.
type Mode int

//go:generate stringer -type=Mode

const (
	DIRECT Mode = iota
	PROXY
	HTTP
	HTTPS
	SOCKS
	SOCKS4
	SOCKS5
)

// DefaultPort returns the port used when a directive does not specify one.
func (m Mode) DefaultPort() string {
	switch m {
	case PROXY, HTTP:
		return "80"
	case HTTPS:
		return "443"
	case SOCKS, SOCKS4, SOCKS5:
		return "1080"
	default:
		return ""
	}
}

func parseMode(s string) (Mode, bool) {
	switch strings.ToUpper(s) {
	case "DIRECT":
		return DIRECT, true
	case "PROXY":
		return PROXY, true
	case "HTTP":
		return HTTP, true
	case "HTTPS":
		return HTTPS, true
	case "SOCKS":
		return SOCKS, true
	case "SOCKS4":
		return SOCKS4, true
	case "SOCKS5":
		return SOCKS5, true
	default:
		return DIRECT, false
	}
}

// Proxy specifies proxy to be used as parsed from FindProxyForURL result.
// See ParseProxies for details.
type Proxy struct {
	Mode     Mode
	Host     string
	Port     string
	Username string
	Password string
}

// URL returns proxy URL as used in http.Transport.Proxy() (it returns nil if proxy is DIRECT).
func (p Proxy) URL() *url.URL {
	var scheme string
	switch p.Mode {
	case DIRECT:
		return nil
	case PROXY, HTTP:
		scheme = "http"
	case HTTPS:
		scheme = "https"
	case SOCKS, SOCKS5:
		scheme = "socks5"
	case SOCKS4:
		scheme = "socks4"
	}

	u := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(p.Host, p.Port),
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// String returns the directive in the PAC result format, credentials are omitted.
func (p Proxy) String() string {
	if p.Mode == DIRECT {
		return DIRECT.String()
	}
	return p.Mode.String() + " " + net.JoinHostPort(p.Host, p.Port)
}

func (s Proxies) String() string {
	return string(s)
}

// FormatProxies joins proxies in PAC result notation without credentials.
func FormatProxies(proxies []Proxy) string {
	parts := make([]string, len(proxies))
	for i, p := range proxies {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

// First returns the first valid proxy.
func (s Proxies) First() (Proxy, error) {
	all, err := s.All()
	if err != nil {
		return Proxy{}, err
	}
	return all[0], nil
}

// All returns all valid proxies in order, see ParseProxies.
func (s Proxies) All() ([]Proxy, error) {
	return ParseProxies(string(s))
}

// ParseProxies parses a FindProxyForURL result.
// Malformed directives are skipped, if no directive is valid a *ValidationError is returned.
func ParseProxies(s string) ([]Proxy, error) {
	return parseProxies(s, nil)
}

func parseProxies(s string, skipped func(pos int, directive string, err error)) ([]Proxy, error) {
	var (
		res  []Proxy
		errs []error
	)
	for i, v := range strings.Split(s, ";") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		p, err := parseProxy(v)
		if err != nil {
			err = fmt.Errorf("invalid proxy string at pos %d %q: %w", i, v, err)
			if skipped != nil {
				skipped(i, v, err)
			}
			errs = append(errs, err)
			continue
		}
		res = append(res, p)
	}

	if len(res) == 0 {
		return nil, &ValidationError{
			Input:  s,
			Reason: "no valid proxy directive",
			Err:    errors.Join(errs...),
		}
	}
	return res, nil
}

func parseProxy(s string) (Proxy, error) {
	f := strings.Fields(s)

	mode, ok := parseMode(f[0])
	if !ok {
		return Proxy{}, fmt.Errorf("unknown proxy type %q", f[0])
	}
	if mode == DIRECT {
		if len(f) != 1 {
			return Proxy{}, errors.New("unexpected host after DIRECT")
		}
		return Proxy{Mode: DIRECT}, nil
	}
	switch len(f) {
	case 1:
		return Proxy{}, errors.New("missing host:port")
	case 2:
	default:
		return Proxy{}, errors.New("unexpected tokens after host:port")
	}

	hostport := f[1]
	var username, password string
	if i := strings.LastIndex(hostport, "@"); i >= 0 {
		// In form of username:password@host:port.
		userpass := hostport[:i]
		hostport = hostport[i+1:]
		username, password, ok = strings.Cut(userpass, ":")
		if !ok || username == "" {
			return Proxy{}, fmt.Errorf("invalid proxy auth identifier: %s", userpass)
		}
	}

	host, port, err := splitHostPort(hostport, mode.DefaultPort())
	if err != nil {
		return Proxy{}, err
	}

	return Proxy{
		Mode:     mode,
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}, nil
}

func splitHostPort(hostport, defaultPort string) (host, port string, err error) {
	// Bare IPv6 address without a port.
	if a, err := netip.ParseAddr(strings.Trim(hostport, "[]")); err == nil && a.Is6() {
		return a.String(), defaultPort, nil
	}

	if !strings.Contains(hostport, ":") {
		host, port = hostport, defaultPort
	} else if host, port, err = net.SplitHostPort(hostport); err != nil {
		return "", "", fmt.Errorf("split host:port: %w", err)
	}

	if host == "" {
		return "", "", errors.New("missing host")
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return "", "", fmt.Errorf("invalid port %q", port)
	}
	return host, port, nil
}
