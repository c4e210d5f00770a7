// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/fleetable/nodescan/internal/api/inventory"
	"github.com/fleetable/nodescan/internal/collector"
	"github.com/fleetable/nodescan/internal/output"
	"github.com/fleetable/nodescan/internal/reporter"
)

// NewHardwareCommand groups the inventory collection commands.
func NewHardwareCommand(log logr.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Collect hardware inventory",
		Args:  cobra.NoArgs,
	}

	var format string
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "pretty", "Output format (json, yaml, or pretty)")

	categories := []struct {
		use     string
		short   string
		collect func(c *collector.Collector, cmd *cobra.Command) any
	}{
		{"inventory", "Collect the full hardware inventory", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.Collect(cmd.Context())
		}},
		{"node", "Collect node identity information", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.CollectNode(cmd.Context())
		}},
		{"cpu", "Collect CPU information", func(c *collector.Collector, _ *cobra.Command) any {
			return c.CollectCPU()
		}},
		{"memory", "Collect memory information", func(c *collector.Collector, _ *cobra.Command) any {
			return c.CollectMemory()
		}},
		{"storage", "Collect storage information", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.CollectDisks(cmd.Context())
		}},
		{"network", "Collect network interface information", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.CollectNetwork(cmd.Context())
		}},
		{"gpu", "Collect GPU information", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.CollectGPUs(cmd.Context())
		}},
		{"power", "Collect power supply information", func(c *collector.Collector, cmd *cobra.Command) any {
			return c.CollectPowerSupplies(cmd.Context())
		}},
	}

	for _, category := range categories {
		collect := category.collect
		cmd.AddCommand(&cobra.Command{
			Use:   category.use,
			Short: category.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c := collector.New(log)
				return output.Write(os.Stdout, collect(c, cmd), format)
			},
		})
	}

	cmd.AddCommand(newReportCommand(log))
	return cmd
}

func newReportCommand(log logr.Logger) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Collect the full inventory and post it to the fleet API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := collector.New(log)
			inv := c.Collect(cmd.Context())

			payload := inventory.ReportPayload{
				Hostname: inv.Node.Hostname,
				Data:     inv,
			}
			return reporter.New(log, url).Report(cmd.Context(), payload)
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "http://localhost:6183/inventory", "Fleet API inventory endpoint")
	return cmd
}
