// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"fmt"
	"math/big"
	"net/netip"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var ipv4LiteralRegex = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// IsIPv4Literal reports whether s is a dotted quad IPv4 address.
func IsIPv4Literal(s string) bool {
	if !ipv4LiteralRegex.MatchString(s) {
		return false
	}
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is4()
}

// IsIPv6Literal reports whether s is an IPv6 address, IPv4-mapped forms included.
func IsIPv6Literal(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is6()
}

// completeIPv6Literal turns an abbreviated IPv6 prefix literal such as "2001:db8" into a parsable address.
// Literals that already have 8 groups or a "::" are returned as is.
func completeIPv6Literal(s string) string {
	if strings.Count(s, ":") == 7 || strings.Contains(s, "::") {
		return s
	}
	return strings.TrimSuffix(s, ":") + "::"
}

// IPPrefixMatch reports whether addr is in the network ipPrefix given as "<ip literal>/<prefix length>".
// It returns false if the prefix is malformed or its address family differs from addr.
// The comparison is done on arbitrary precision integers so IPv4 and IPv6 share the same code.
func IPPrefixMatch(addr netip.Addr, ipPrefix string) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.WithZone("")

	literal, bitField, ok := strings.Cut(strings.TrimSpace(ipPrefix), "/")
	if !ok {
		return false
	}
	bits, err := strconv.Atoi(bitField)
	if err != nil || bits < 0 || bits > 128 {
		return false
	}

	if addr.Is4() {
		if bits > 32 || !IsIPv4Literal(literal) {
			return false
		}
	} else {
		literal = completeIPv6Literal(literal)
		if !IsIPv6Literal(literal) {
			return false
		}
	}

	prefix, err := netip.ParseAddr(literal)
	if err != nil || prefix.BitLen() != addr.BitLen() {
		return false
	}
	prefix = prefix.WithZone("")

	mask := new(big.Int).Lsh(big.NewInt(-1), uint(addr.BitLen()-bits))
	subnet := new(big.Int).SetBytes(prefix.AsSlice())
	subnet.And(subnet, mask)
	a := new(big.Int).SetBytes(addr.AsSlice())
	a.And(a, mask)

	return a.Cmp(subnet) == 0
}

// IsInNet reports whether the IPv4 address ip is in the network defined by pattern and the dotted mask.
func IsInNet(ip, pattern, mask string) bool {
	var v [3][4]byte
	for i, s := range [3]string{ip, pattern, mask} {
		if !IsIPv4Literal(s) {
			return false
		}
		v[i] = netip.MustParseAddr(s).As4()
	}

	for i := 0; i < 4; i++ {
		if v[0][i]&v[2][i] != v[1][i]&v[2][i] {
			return false
		}
	}
	return true
}

type parsedIP struct {
	netip.Addr
	orig string
}

func (p parsedIP) String() string {
	return p.orig
}

func parseIP(s string) (parsedIP, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return parsedIP{}, fmt.Errorf("invalid IP address")
	}
	return parsedIP{
		Addr: a,
		orig: s,
	}, nil
}

// SortIPAddressList sorts a semicolon delimited list of IP addresses.
// IPv6 addresses come first, each family is sorted in ascending address order.
// It returns an empty string if the list is empty or any element is not an IP address.
func SortIPAddressList(list string) string {
	ips, err := asSlice(list, ";", parseIP)
	if err != nil || len(ips) == 0 {
		return ""
	}

	sort.SliceStable(ips, func(i, j int) bool {
		if ips[i].Is4() != ips[j].Is4() {
			// Put IPv6 addresses first.
			return !ips[i].Is4()
		}
		return ips[i].Addr.WithZone("").Less(ips[j].Addr.WithZone(""))
	})

	return semicolonDelimitedString(ips)
}
