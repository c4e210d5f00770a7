// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"os"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

// Kernel export paths read by the collectors. Variables so tests can
// point them at fixture trees.
var (
	pathSysBlock       = "/sys/block"
	pathSysClassNet    = "/sys/class/net"
	pathSysClassNvme   = "/sys/class/nvme"
	pathSysPowerSupply = "/sys/class/power_supply"
	pathDev            = "/dev"
	pathProcHostname   = "/proc/sys/kernel/hostname"
)

func readFileTrim(path string) string {
	contents, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(contents))
}

func readFileUint64(path string) (uint64, bool) {
	s := readFileTrim(path)
	if s == "" {
		return 0, false
	}
	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

func readFileUint32(path string) (uint32, bool) {
	s := readFileTrim(path)
	if s == "" {
		return 0, false
	}
	num, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(num), true
}

// optString maps the empty string to absence.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return ptr.To(s)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// valueAfterColon returns the trimmed remainder of a "key: value"
// line, or "" when there is no colon.
func valueAfterColon(line string) string {
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
