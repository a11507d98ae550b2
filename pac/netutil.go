// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import "net"

// myIPAddress returns global unicast addresses of the interfaces that are up.
// IPv6 addresses are returned first when ipv6 is set.
func myIPAddress(ipv6 bool) []net.IP {
	ifces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var v4, v6 []net.IP
	for i := range ifces {
		if ifces[i].Flags&net.FlagUp == 0 || ifces[i].Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifces[i].Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipn, ok := addr.(*net.IPNet)
			if !ok || !ipn.IP.IsGlobalUnicast() {
				continue
			}
			if ip4 := ipn.IP.To4(); ip4 != nil {
				v4 = append(v4, ip4)
			} else if ipv6 {
				v6 = append(v6, ipn.IP)
			}
		}
	}
	return append(v6, v4...)
}
