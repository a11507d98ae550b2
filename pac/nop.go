// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"context"
	"net/url"
)

// NopEvaluator is a ProxyFinder that always returns DIRECT.
// It is used when no PAC script is configured.
type NopEvaluator struct{}

var _ ProxyFinder = NopEvaluator{}

func (NopEvaluator) FindProxyForURL(_ context.Context, _ *url.URL) ([]Proxy, error) {
	return []Proxy{{Mode: DIRECT}}, nil
}

func (NopEvaluator) UsesCaching() bool {
	return false
}
