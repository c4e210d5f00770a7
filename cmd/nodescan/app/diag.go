// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/fleetable/nodescan/internal/diag"
	"github.com/fleetable/nodescan/internal/output"
)

// NewDiagCommand groups the GPU diagnostics commands. These fail when
// the NVIDIA management library is unavailable instead of degrading.
func NewDiagCommand(log logr.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Run GPU diagnostics",
		Args:  cobra.NoArgs,
	}

	var format string
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "pretty", "Output format (json, yaml, or pretty)")

	cmd.AddCommand(&cobra.Command{
		Use:   "gpu-errors",
		Short: "Check for GPU ECC, memory and thermal errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			errors, err := diag.CollectGPUErrors()
			if err != nil {
				log.Error(err, "GPU error collection failed")
				return err
			}
			return output.Write(os.Stdout, errors, format)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "gpu-health",
		Short: "Check GPU thermal, power and utilization state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := diag.CollectGPUHealth()
			if err != nil {
				log.Error(err, "GPU health collection failed")
				return err
			}
			return output.Write(os.Stdout, health, format)
		},
	})

	return cmd
}
