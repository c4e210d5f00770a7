// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

var _ = Describe("BMC detection", func() {
	var (
		c      *Collector
		runner *fakeRunner
	)

	BeforeEach(func() {
		runner = &fakeRunner{outputs: map[string]string{}}
		c = &Collector{log: GinkgoLogr, run: runner}
	})

	Describe("strategy chain", func() {
		constant := func(bmc *inventory.BMCInfo) func(context.Context) *inventory.BMCInfo {
			return func(context.Context) *inventory.BMCInfo { return bmc }
		}

		It("returns the first strategy's hit", func() {
			first := &inventory.BMCInfo{IPAddress: ptr.To("10.0.0.1")}
			second := &inventory.BMCInfo{IPAddress: ptr.To("10.0.0.2")}
			c.bmcChain = []bmcStrategy{
				{name: "miss", detect: constant(nil)},
				{name: "first-hit", detect: constant(first)},
				{name: "second-hit", detect: constant(second)},
			}

			Expect(c.detectBMC(context.Background())).To(Equal(first))
		})

		It("returns nil when every strategy misses", func() {
			c.bmcChain = []bmcStrategy{
				{name: "miss-a", detect: constant(nil)},
				{name: "miss-b", detect: constant(nil)},
			}

			Expect(c.detectBMC(context.Background())).To(BeNil())
		})
	})

	Describe("bmcFromIPMITool", func() {
		It("parses controller and LAN attributes", func() {
			runner.outputs["ipmitool mc info"] = `Device ID                 : 32
Firmware Revision         : 2.61
Manufacturer Name         : DELL Inc
`
			runner.outputs["ipmitool lan print 1"] = `IP Address Source       : DHCP Address
IP Address              : 10.1.2.3
MAC Address             : a4:bb:6d:00:11:22
`
			bmc := c.bmcFromIPMITool(context.Background())

			Expect(bmc).NotTo(BeNil())
			Expect(bmc.FirmwareVersion).To(HaveValue(Equal("2.61")))
			Expect(bmc.IPAddress).To(HaveValue(Equal("10.1.2.3")))
			Expect(bmc.MACAddress).To(HaveValue(Equal("a4:bb:6d:00:11:22")))
		})

		It("drops unconfigured LAN values", func() {
			runner.outputs["ipmitool mc info"] = "Firmware Revision         : 2.61\n"
			runner.outputs["ipmitool lan print 1"] = `IP Address              : 0.0.0.0
MAC Address             : 00:00:00:00:00:00
`
			bmc := c.bmcFromIPMITool(context.Background())

			Expect(bmc).NotTo(BeNil())
			Expect(bmc.IPAddress).To(BeNil())
			Expect(bmc.MACAddress).To(BeNil())
		})

		It("misses when the tool is absent", func() {
			Expect(c.bmcFromIPMITool(context.Background())).To(BeNil())
		})
	})

	Describe("bmcFromRedfish", func() {
		var cleanup func()

		AfterEach(func() {
			cleanup()
		})

		serve := func(handler http.Handler) {
			// Self-signed certificate, like every real BMC endpoint.
			server := httptest.NewTLSServer(handler)
			origEndpoint := redfishEndpoint
			redfishEndpoint = server.URL
			cleanup = func() {
				redfishEndpoint = origEndpoint
				server.Close()
			}
		}

		It("detects the service and enriches manager firmware despite the self-signed certificate", func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/redfish/v1/", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"@odata.id": "/redfish/v1/",
					"Id": "RootService",
					"Name": "Root Service",
					"RedfishVersion": "1.6.0",
					"Managers": {"@odata.id": "/redfish/v1/Managers"}
				}`)
			})
			mux.HandleFunc("/redfish/v1/Managers", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"@odata.id": "/redfish/v1/Managers",
					"Name": "Manager Collection",
					"Members@odata.count": 1,
					"Members": [{"@odata.id": "/redfish/v1/Managers/iDRAC"}]
				}`)
			})
			mux.HandleFunc("/redfish/v1/Managers/iDRAC", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"@odata.id": "/redfish/v1/Managers/iDRAC",
					"Id": "iDRAC",
					"Name": "Manager",
					"ManagerType": "BMC",
					"FirmwareVersion": "7.10.50"
				}`)
			})
			serve(mux)

			bmc := c.bmcFromRedfish(context.Background())

			Expect(bmc).NotTo(BeNil())
			Expect(bmc.IPAddress).To(HaveValue(Equal("localhost")))
			Expect(bmc.FirmwareVersion).To(HaveValue(Equal("7.10.50")))
		})

		It("keeps the detection when enrichment has no managers", func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/redfish/v1/", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"@odata.id": "/redfish/v1/",
					"Id": "RootService",
					"Name": "Root Service",
					"RedfishVersion": "1.6.0"
				}`)
			})
			serve(mux)

			bmc := c.bmcFromRedfish(context.Background())

			Expect(bmc).NotTo(BeNil())
			Expect(bmc.FirmwareVersion).To(BeNil())
		})

		It("misses when the endpoint serves no Redfish markers", func() {
			serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "it works")
			}))

			Expect(c.bmcFromRedfish(context.Background())).To(BeNil())
		})
	})
})
