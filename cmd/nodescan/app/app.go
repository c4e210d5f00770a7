// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

const Name string = "nodescan"

// NewCommand builds the CLI tree.
func NewCommand(log logr.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   Name,
		Short: "Hardware inventory agent for fleet nodes",
		Args:  cobra.NoArgs,
	}
	root.AddCommand(NewHardwareCommand(log))
	root.AddCommand(NewDiagCommand(log))
	return root
}
