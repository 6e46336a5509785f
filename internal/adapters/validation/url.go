package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrSSRFBlocked is returned when a URL resolves to a private, loopback,
// or otherwise internal-network address (§4.M's outbound Fabric API
// calls, and any future remote-ontology-fetch feature, must never dial
// one of these).
var ErrSSRFBlocked = errors.New("url blocked by ssrf protection")

// URLOptions controls ValidateURL's allowlist checks. The zero value
// requires https and blocks private IPs — the safe default for any
// outbound call this converter makes on the caller's behalf.
type URLOptions struct {
	AllowedProtocols []string // default: ["https"]
	AllowedDomains   []string // empty: any public domain allowed
	AllowPrivateIPs  bool
}

var localhostVariants = map[string]bool{
	"localhost":             true,
	"localhost.localdomain": true,
	"127.0.0.1":             true,
	"::1":                   true,
	"0.0.0.0":               true,
}

// ValidateURL parses rawURL and rejects it unless its protocol, host,
// and resolved address all clear the allowlist. Hostnames are resolved
// via DNS so that a public-looking domain that actually points at an
// internal address is still blocked.
func ValidateURL(rawURL string, opts URLOptions) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("url cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	protocols := opts.AllowedProtocols
	if len(protocols) == 0 {
		protocols = []string{"https"}
	}
	if parsed.Scheme == "" {
		return "", errors.New("url must include a protocol scheme")
	}
	if !containsFold(protocols, parsed.Scheme) {
		return "", fmt.Errorf("protocol %q not allowed, expected one of %v", parsed.Scheme, protocols)
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return "", errors.New("url must include a hostname")
	}

	if localhostVariants[hostname] && !opts.AllowPrivateIPs {
		return "", fmt.Errorf("%w: access to localhost (%s)", ErrSSRFBlocked, hostname)
	}

	if len(opts.AllowedDomains) > 0 {
		allowed := false
		for _, d := range opts.AllowedDomains {
			d = strings.ToLower(d)
			if hostname == d || strings.HasSuffix(hostname, "."+d) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("domain %q not in allowlist", hostname)
		}
	}

	if !opts.AllowPrivateIPs {
		if err := checkNotPrivate(hostname); err != nil {
			return "", err
		}
	}

	return parsed.String(), nil
}

func checkNotPrivate(hostname string) error {
	if ip := net.ParseIP(hostname); ip != nil {
		if isPrivateOrReserved(ip) {
			return fmt.Errorf("%w: %s resolves to a private address", ErrSSRFBlocked, hostname)
		}
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// DNS resolution failing is not itself a block: the caller's HTTP
		// client will surface the real connection error. Blocking here
		// would make offline tests fail for unrelated reasons.
		return nil
	}
	for _, ip := range ips {
		if isPrivateOrReserved(ip) {
			return fmt.Errorf("%w: %s resolves to a private address (%s)", ErrSSRFBlocked, hostname, ip)
		}
	}
	return nil
}

func isPrivateOrReserved(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast()
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
