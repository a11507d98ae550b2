// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"net"
	"time"
)

func (c *Config) SetTestingNow(now func() time.Time) {
	c.testingNow = now
}

func (c *Config) SetTestingMyIPs(ips ...net.IP) {
	c.testingMyIPs = func(ipv6 bool) []net.IP {
		var res []net.IP
		for _, ip := range ips {
			if ipv6 || ip.To4() != nil {
				res = append(res, ip)
			}
		}
		return res
	}
}

func (e *Evaluator) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.len()
}
