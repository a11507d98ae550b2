// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command assembles the pacengine command line.
package command

import (
	"github.com/saucelabs/pacengine/bind"
	"github.com/saucelabs/pacengine/command/eval"
	"github.com/saucelabs/pacengine/command/functions"
	"github.com/saucelabs/pacengine/command/server"
	"github.com/saucelabs/pacengine/command/version"
	"github.com/saucelabs/pacengine/utils/cobrautil"
	"github.com/spf13/cobra"
)

const (
	EnvPrefix          = "PACENGINE"
	ConfigFileFlagName = "config-file"
)

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pacengine",
		Short: "Proxy Auto-Configuration (PAC) script evaluation tools",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cobrautil.BindAll(cmd, EnvPrefix, ConfigFileFlagName)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bind.ConfigFile(cmd.PersistentFlags(), new(string))

	cmd.AddCommand(
		eval.Command(),
		functions.Command(),
		server.Command(),
		version.Command(),
	)
	for _, c := range cmd.Commands() {
		cobrautil.DefaultLong(c)
	}
	cobrautil.FormatUsage(cmd)
	cobrautil.AppendEnvToUsage(cmd, EnvPrefix)
	cobrautil.NoHelpSubcommand(cmd)

	return cmd
}
