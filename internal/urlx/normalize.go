// Package urlx normalizes user-supplied URLs and classifies hostnames
// before any network I/O happens.
package urlx

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/mverbeek/sitegauge/internal/scanerr"
)

// Normalized is the canonical form of a raw input URL. Normalization is a
// pure function: normalizing a Normalized's String again yields the same
// value.
type Normalized struct {
	Origin   string // scheme://host[:port]
	Path     string // never empty, defaults to "/"
	Hostname string // lowercased, punycoded, no port
	Query    string // raw query, preserved as given
}

// String reassembles the normalized URL.
func (n *Normalized) String() string {
	s := n.Origin + n.Path
	if n.Query != "" {
		s += "?" + n.Query
	}
	return s
}

// CacheKey identifies the scan target for the response cache.
func (n *Normalized) CacheKey() string {
	return n.Origin + n.Path
}

// Normalize canonicalizes raw: trims whitespace, assumes https for
// schemeless input, lowercases scheme and host, punycodes the host, drops
// default ports, credentials and the fragment, and defaults an empty path
// to "/". Only http and https survive validation.
func Normalize(raw string) (*Normalized, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, scanerr.New(scanerr.KindInvalidURL, "url is empty")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, scanerr.Wrap(scanerr.KindInvalidURL, "url does not parse", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, scanerr.New(scanerr.KindUnsupportedScheme, "only http and https are supported")
	}
	u.Scheme = scheme

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, scanerr.New(scanerr.KindInvalidURL, "url has no host")
	}
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	// Preserve non-default ports only
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") || port == "" {
		u.Host = host
	} else {
		u.Host = net.JoinHostPort(host, port)
	}

	u.User = nil
	u.Fragment = ""

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return &Normalized{
		Origin:   scheme + "://" + u.Host,
		Path:     path,
		Hostname: host,
		Query:    u.RawQuery,
	}, nil
}
