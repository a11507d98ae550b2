// Copyright 2022-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package functions

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/saucelabs/pacengine/pac"
	"github.com/spf13/cobra"
)

const indent = "    "

type command struct {
	width uint
}

func (c *command) runE(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	for _, name := range pac.SupportedFunctions() {
		fmt.Fprintln(w, name)
		desc := pac.FunctionDescription(name)
		if desc == "" {
			continue
		}
		if c.width > uint(len(indent)) {
			desc = wordwrap.WrapString(desc, c.width-uint(len(indent)))
		}
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintln(w, indent+line)
		}
	}
	return nil
}

func Command() *cobra.Command {
	c := command{
		width: 80,
	}

	cmd := &cobra.Command{
		Use:   "functions [--width <columns>]",
		Short: "List helper functions available to PAC scripts",
		Args:  cobra.NoArgs,
		RunE:  c.runE,
	}

	cmd.Flags().UintVar(&c.width, "width", c.width, "<columns>"+
		"Wrap descriptions at the given width, zero disables wrapping. ")

	return cmd
}
