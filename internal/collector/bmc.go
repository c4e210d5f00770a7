// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/stmcginnis/gofish"
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// Paths patched by tests.
var (
	ipmiDevicePaths = []string{"/dev/ipmi0", "/dev/ipmidev/0", "/dev/ipmi/0"}
	redfishEndpoint = "https://localhost"
)

var redfishProbePaths = []string{
	"/redfish/v1/",
	"/redfish/v1/Systems",
	"/redfish/v1/Managers",
}

// bmcStrategy is one detection method. Returning nil means "not
// detected here, try the next one".
type bmcStrategy struct {
	name   string
	detect func(ctx context.Context) *inventory.BMCInfo
}

// bmcStrategies holds the fixed priority order: local device files
// beat name heuristics, which beat tool and network probes.
func (c *Collector) bmcStrategies() []bmcStrategy {
	return []bmcStrategy{
		{name: "ipmi-device", detect: c.bmcFromDeviceFile},
		{name: "management-network", detect: c.bmcFromManagementNetwork},
		{name: "ipmitool", detect: c.bmcFromIPMITool},
		{name: "redfish", detect: c.bmcFromRedfish},
	}
}

// detectBMC returns the first strategy's hit, or nil when no
// management controller is detectable.
func (c *Collector) detectBMC(ctx context.Context) *inventory.BMCInfo {
	for _, strategy := range c.bmcChain {
		if bmc := strategy.detect(ctx); bmc != nil {
			c.log.V(1).Info("detected BMC", "strategy", strategy.name)
			return bmc
		}
	}
	return nil
}

// bmcFromDeviceFile checks the well-known IPMI character device paths.
// Presence proves a controller exists but exposes no attributes.
func (c *Collector) bmcFromDeviceFile(_ context.Context) *inventory.BMCInfo {
	for _, path := range ipmiDevicePaths {
		if _, err := os.Stat(path); err == nil {
			return &inventory.BMCInfo{}
		}
	}
	return nil
}

// bmcFromManagementNetwork looks for interface names that vendors give
// to management NICs, then for a listener on the IPMI-over-LAN port.
// Both are heuristics.
func (c *Collector) bmcFromManagementNetwork(ctx context.Context) *inventory.BMCInfo {
	patterns := []string{"bmc", "ipmi", "ilo", "idrac", "rac"}

	if entries, err := os.ReadDir(pathSysClassNet); err == nil {
		for _, entry := range entries {
			name := strings.ToLower(entry.Name())
			for _, pattern := range patterns {
				if strings.Contains(name, pattern) {
					return &inventory.BMCInfo{}
				}
			}
		}
	}

	if out, err := c.run.Run(ctx, "netstat", "-ln"); err == nil {
		if strings.Contains(string(out), ":623") {
			return &inventory.BMCInfo{}
		}
	}
	return nil
}

func (c *Collector) bmcFromIPMITool(ctx context.Context) *inventory.BMCInfo {
	out, err := c.run.Run(ctx, "ipmitool", "mc", "info")
	if err != nil {
		return nil
	}

	bmc := &inventory.BMCInfo{}
	for _, line := range strings.Split(string(out), "\n") {
		switch {
		case strings.Contains(line, "Firmware Revision"):
			bmc.FirmwareVersion = optString(valueAfterColon(line))
		case strings.Contains(line, "Build Time"),
			strings.Contains(line, "Build Date"),
			strings.Contains(line, "Firmware Build"):
			bmc.ReleaseDate = optString(valueAfterColon(line))
		}
	}

	bmc.IPAddress, bmc.MACAddress = c.ipmiLANInfo(ctx)
	return bmc
}

func (c *Collector) ipmiLANInfo(ctx context.Context) (*string, *string) {
	out, err := c.run.Run(ctx, "ipmitool", "lan", "print", "1")
	if err != nil {
		return nil, nil
	}

	var ip, mac *string
	for _, line := range strings.Split(string(out), "\n") {
		switch {
		case strings.Contains(line, "IP Address") && !strings.Contains(line, "Source"):
			v := valueAfterColon(line)
			if v != "" && v != "0.0.0.0" {
				ip = ptr.To(v)
			}
		case strings.Contains(line, "MAC Address"):
			// The value itself contains colons; split only once.
			if _, rest, found := strings.Cut(line, ":"); found {
				v := strings.TrimSpace(rest)
				if v != "" && v != "00:00:00:00:00:00" {
					mac = ptr.To(v)
				}
			}
		}
	}
	return ip, mac
}

// bmcFromRedfish probes the local Redfish service root; a hit is then
// enriched with manager firmware details over the Redfish API.
func (c *Collector) bmcFromRedfish(ctx context.Context) *inventory.BMCInfo {
	client := &http.Client{
		Timeout: 2 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	for _, path := range redfishProbePaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, redfishEndpoint+path, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if err != nil {
			continue
		}
		text := string(body)
		if !strings.Contains(text, "@odata") && !strings.Contains(text, "redfish") {
			continue
		}

		bmc := &inventory.BMCInfo{IPAddress: ptr.To("localhost")}
		c.enrichRedfish(ctx, bmc)
		return bmc
	}
	return nil
}

func (c *Collector) enrichRedfish(ctx context.Context, bmc *inventory.BMCInfo) {
	// BMC endpoints carry self-signed certificates; the probe above
	// already skips verification, and the enrichment has to as well or
	// the handshake fails against the endpoint the probe just accepted.
	api, err := gofish.ConnectContext(ctx, gofish.ClientConfig{
		Endpoint: redfishEndpoint,
		Insecure: true,
	})
	if err != nil {
		return
	}
	defer api.Logout()

	managers, err := api.Service.Managers()
	if err != nil || len(managers) == 0 {
		return
	}
	bmc.FirmwareVersion = optString(managers[0].FirmwareVersion)
}
