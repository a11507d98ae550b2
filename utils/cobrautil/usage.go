// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FormatUsage rewrites the leading <placeholder> of flag usage strings for the default help printer.
// Enum placeholders like <a|b> become a list of allowed values, other placeholders are dropped.
// It must run after AutoMarkFlagFilename which relies on the <path> placeholder.
func FormatUsage(cmd *cobra.Command) {
	format := func(f *pflag.Flag) {
		if !strings.HasPrefix(f.Usage, "<") {
			return
		}
		end := strings.IndexByte(f.Usage, '>')
		if end < 0 {
			return
		}
		placeholder, usage := f.Usage[1:end], strings.TrimSpace(f.Usage[end+1:])
		if strings.Contains(placeholder, "|") {
			usage += " One of: " + strings.ReplaceAll(placeholder, "|", ", ") + "."
		}
		f.Usage = usage
	}
	cmd.PersistentFlags().VisitAll(format)
	cmd.Flags().VisitAll(format)
	for _, c := range cmd.Commands() {
		FormatUsage(c)
	}
}
