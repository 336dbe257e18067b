package shortener

import (
	"net"
	"net/netip"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// NormalizeTarget parses a raw target URL and returns its normalized form.
// Inputs without a scheme are retried with an https:// prefix. The host must be
// an IPv4 literal or a dotted hostname made of alphanumeric or hyphen labels.
//   - Converts internationalized hostnames to punycode
//   - Lowercases the scheme and host
//   - Removes default ports (80 for http, 443 for https)
//   - Uses "/" as the path of http(s) URLs that have none
func NormalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ValidationError{Field: "target_url", Reason: "must not be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", &ValidationError{Field: "target_url", Reason: "not a valid url"}
		}
	}

	host, err := asciiHost(u.Hostname())
	if err != nil || !ValidHost(host) {
		return "", &ValidationError{Field: "target_url", Reason: "invalid host"}
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	switch {
	case u.Scheme == "http" && u.Port() == "80":
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && u.Port() == "443":
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if u.Path == "" && (u.Scheme == "http" || u.Scheme == "https") {
		u.Path = "/"
	}

	return u.String(), nil
}

// asciiHost returns host unchanged when it is ASCII, otherwise its IDNA form.
func asciiHost(host string) (string, error) {
	for i := 0; i < len(host); i++ {
		if host[i] >= utf8.RuneSelf {
			return idna.Lookup.ToASCII(host)
		}
	}

	return host, nil
}

// ValidHost reports whether host is an IPv4 literal or a hostname with at
// least two non-empty labels of ASCII letters, digits and hyphens.
// A host whose last label is numeric must be a valid IPv4 address.
func ValidHost(host string) bool {
	if host == "" {
		return false
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Is4()
	}

	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if label == "" || !validLabel(label) {
			return false
		}
	}

	return !isNumeric(labels[len(labels)-1])
}

func validLabel(label string) bool {
	for _, c := range label {
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum && c != '-' {
			return false
		}
	}

	return true
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return s != ""
}
