// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"math"

	"github.com/safchain/ethtool"
)

// ethtoolClient is the slice of the netlink ethtool handle the network
// collector needs. The real handle requires CAP_NET_ADMIN, so tests
// substitute a fake.
type ethtoolClient interface {
	DriverInfo(iface string) (ethtool.DrvInfo, error)
	LinkSpeed(iface string) (uint32, error)
	Close()
}

type ethtoolHandle struct {
	h *ethtool.Ethtool
}

func newEthtoolHandle() (ethtoolClient, error) {
	h, err := ethtool.NewEthtool()
	if err != nil {
		return nil, err
	}
	return &ethtoolHandle{h: h}, nil
}

func (e *ethtoolHandle) DriverInfo(iface string) (ethtool.DrvInfo, error) {
	return e.h.DriverInfo(iface)
}

func (e *ethtoolHandle) LinkSpeed(iface string) (uint32, error) {
	var cmd ethtool.EthtoolCmd
	speed, err := e.h.CmdGet(&cmd, iface)
	if err != nil {
		return 0, err
	}
	// The kernel reports SPEED_UNKNOWN as all-ones when no link is up.
	if speed == 0 || speed == math.MaxUint32 {
		return 0, nil
	}
	return speed, nil
}

func (e *ethtoolHandle) Close() {
	e.h.Close()
}
