package urlx

import (
	"net"
	"strings"

	"github.com/mverbeek/sitegauge/internal/scanerr"
)

// localhost aliases rejected by name, without DNS resolution.
var blockedHostnames = map[string]struct{}{
	"localhost":             {},
	"localhost.localdomain": {},
	"ip6-localhost":         {},
	"ip6-loopback":          {},
	"0.0.0.0":               {},
}

// GuardHost rejects hostnames that point at loopback, link-local or private
// address space. The check classifies the literal hostname only: it never
// resolves DNS, so a public name rebinding to a private IP after validation
// is not caught. That gap is deliberate — resolving here would itself be an
// SSRF vector.
func GuardHost(hostname string) error {
	host := strings.ToLower(strings.TrimSuffix(hostname, "."))

	if _, ok := blockedHostnames[host]; ok {
		return scanerr.New(scanerr.KindPrivateAddress, "host resolves to a private or local address")
	}
	if strings.HasSuffix(host, ".local") {
		return scanerr.New(scanerr.KindPrivateAddress, "host resolves to a private or local address")
	}

	// Literal IPs get range-classified. Non-literal names pass.
	ip := net.ParseIP(strings.Trim(host, "[]"))
	if ip == nil {
		return nil
	}

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return scanerr.New(scanerr.KindPrivateAddress, "host resolves to a private or local address")
	}

	return nil
}
