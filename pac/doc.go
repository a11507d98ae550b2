// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pac provides a PAC file evaluator.
// Scripts run in an embedded JavaScript interpreter, goja by default or otto.
// It supports Mozilla FindProxyForURL and the Microsoft IPv6 extension FindProxyForURLEx
// as well as all the helper functions as described in the PAC specification.
package pac

import (
	"sort"
)

var functionDocs = map[string]string{ //nolint:gochecknoglobals // documentation
	"isPlainHostName":     "isPlainHostName(host) is true if there is no domain name in the hostname.",
	"dnsDomainIs":         "dnsDomainIs(host, domain) is true if the domain of the hostname matches, case-insensitive.",
	"localHostOrDomainIs": "localHostOrDomainIs(host, hostdom) is true if the hostname matches exactly or if the unqualified hostname matches the first label of hostdom.",
	"isResolvable":        "isResolvable(host) is true if the hostname resolves to an IPv4 address.",
	"dnsResolve":          "dnsResolve(host) returns the first IPv4 address of the hostname or an empty string.",
	"myIpAddress":         "myIpAddress() returns an IPv4 address of this machine, 127.0.0.1 if none is found.",
	"isInNet":             "isInNet(host, pattern, mask) is true if the IPv4 address of the host matches the pattern under the dotted mask.",
	"dnsDomainLevels":     "dnsDomainLevels(host) returns the number of dots in the hostname.",
	"shExpMatch":          "shExpMatch(str, glob) is true if str matches the shell expression, * and ? wildcards and [] character classes are supported.",
	"weekdayRange":        "weekdayRange(wd1 [, wd2] [, \"GMT\"]) is true on the weekday or in the inclusive weekday range, SUN MON TUE WED THU FRI SAT.",
	"dateRange":           "dateRange(...) is true on the day, month, year or in the inclusive range of those, optionally evaluated in GMT.",
	"timeRange":           "timeRange(...) is true at the hour or in the range of hours, minutes and seconds, optionally evaluated in GMT.",
	"isResolvableEx":      "isResolvableEx(host) is true if the hostname resolves to an IPv4 or IPv6 address.",
	"dnsResolveEx":        "dnsResolveEx(host) returns a semicolon delimited list of IPv6 and IPv4 addresses of the hostname or an empty string.",
	"myIpAddressEx":       "myIpAddressEx() returns a semicolon delimited list of IP addresses of this machine or an empty string.",
	"isInNetEx":           "isInNetEx(host, prefix) is true if the host address, or any resolved address of a hostname, is in the IP prefix such as 198.95.0.0/16 or 3ffe:8311:ffff::/48.",
	"sortIpAddressList":   "sortIpAddressList(list) sorts a semicolon delimited list of IP addresses, IPv6 first, and returns an empty string on error.",
	"getClientVersion":    "getClientVersion() returns the version of the PAC API, 1.0.",
	"alert":               "alert(message) logs the message.",
}

// SupportedFunctions returns a list of supported javascript functions from the PAC specification.
func SupportedFunctions() []string {
	all := make([]string, 0, len(helperDefs))
	for i := range helperDefs {
		all = append(all, helperDefs[i].name)
	}
	sort.Strings(all)

	return all
}

// FunctionDescription returns a one sentence description of a supported function.
func FunctionDescription(name string) string {
	return functionDocs[name]
}
