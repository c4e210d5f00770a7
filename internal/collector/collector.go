// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package collector gathers the hardware inventory of the local
// machine. Each category collector layers its data sources (firmware
// table, sysfs, external diagnostic tools) under a fixed priority
// order and degrades field by field; the aggregate collection never
// fails.
package collector

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/jaypipes/ghw"

	"github.com/fleetable/nodescan/internal/api/inventory"
	"github.com/fleetable/nodescan/internal/dmi"
	"github.com/fleetable/nodescan/internal/pciids"
)

// AgentVersion tags every produced inventory report.
const AgentVersion = "1.0.0"

// Collector holds the shared, read-only inputs of the category
// collectors: the parsed firmware table, the PCI ID resolver, and the
// external tool runner.
type Collector struct {
	log   logr.Logger
	run   CommandRunner
	table *dmi.Table
	pci   pciids.Resolver

	newEthtool func() (ethtoolClient, error)
	pciDevices func() ([]*ghw.PCIDevice, error)
	bmcChain   []bmcStrategy
}

// Option customizes a Collector; tests use these to substitute fake
// data sources.
type Option func(*Collector)

// WithRunner replaces the external tool runner.
func WithRunner(r CommandRunner) Option {
	return func(c *Collector) { c.run = r }
}

// WithTable replaces the firmware table.
func WithTable(t *dmi.Table) Option {
	return func(c *Collector) { c.table = t }
}

// WithResolver replaces the PCI ID resolver.
func WithResolver(r pciids.Resolver) Option {
	return func(c *Collector) { c.pci = r }
}

// New creates a Collector. The firmware table and PCI database are
// loaded once here; both degrade to empty when unavailable.
func New(log logr.Logger, opts ...Option) *Collector {
	c := &Collector{log: log}
	for _, opt := range opts {
		opt(c)
	}
	if c.run == nil {
		c.run = NewRunner(defaultProbeTimeout)
	}
	if c.table == nil {
		c.table = dmi.Load()
	}
	if c.pci == nil {
		c.pci = pciids.New()
	}
	if c.newEthtool == nil {
		c.newEthtool = newEthtoolHandle
	}
	if c.pciDevices == nil {
		c.pciDevices = func() ([]*ghw.PCIDevice, error) {
			info, err := ghw.PCI()
			if err != nil {
				return nil, err
			}
			return info.Devices, nil
		}
	}
	c.bmcChain = c.bmcStrategies()
	return c
}

// Collect runs every category collector and assembles the full
// report. Missing data surfaces as absent fields, never as an error.
func (c *Collector) Collect(ctx context.Context) inventory.Inventory {
	return inventory.Inventory{
		AgentVersion:  AgentVersion,
		Node:          c.CollectNode(ctx),
		CPU:           c.CollectCPU(),
		Memory:        c.CollectMemory(),
		Disks:         c.CollectDisks(ctx),
		Network:       c.CollectNetwork(ctx),
		GPUs:          c.CollectGPUs(ctx),
		PowerSupplies: c.CollectPowerSupplies(ctx),
	}
}
