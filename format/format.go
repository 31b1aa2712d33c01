// Package format holds the fixed set of builtin string-format predicates the
// validator compiler may attach to a string node. The registry is stateless
// and not user-extensible; compilers receive matchers by name via Lookup.
package format

import (
	"regexp"
	"strings"
)

// Matcher reports whether a string satisfies a builtin format.
type Matcher func(string) bool

var (
	uuidRe    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailRe   = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)
	urlRe     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^\s/$.?#][^\s]*$`)
	numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// UUID matches the canonical 8-4-4-4-12 hex grouping.
func UUID(s string) bool { return uuidRe.MatchString(s) }

// Email matches a practical addr-spec subset with a dotted domain.
func Email(s string) bool { return emailRe.MatchString(s) }

// URL matches an absolute URL with an explicit scheme and authority.
func URL(s string) bool { return urlRe.MatchString(s) }

// Numeric matches a decimal number literal, optionally signed, fractional,
// or exponent-qualified.
func Numeric(s string) bool { return numericRe.MatchString(s) }

// IPv4 matches four dot-separated octets in 0-255. A multi-digit octet may
// not carry a leading zero.
func IPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if !validOctet(p) {
			return false
		}
	}
	return true
}

func validOctet(p string) bool {
	if len(p) == 0 || len(p) > 3 {
		return false
	}
	if len(p) > 1 && p[0] == '0' {
		return false
	}
	n := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n <= 255
}

// IPv6 matches the textual forms of RFC 4291 section 2.2: up to eight hex
// groups, at most one "::" elision, and an optional trailing IPv4 quad in
// place of the last two groups.
func IPv6(s string) bool {
	if s == "" {
		return false
	}
	elided := false
	if strings.Contains(s, "::") {
		if strings.Count(s, "::") > 1 {
			return false
		}
		elided = true
	}
	head, tail := s, ""
	if elided {
		parts := strings.SplitN(s, "::", 2)
		head, tail = parts[0], parts[1]
	}
	groups := 0
	count := func(part string, allowV4Tail bool) bool {
		if part == "" {
			return true
		}
		segs := strings.Split(part, ":")
		for i, seg := range segs {
			if allowV4Tail && i == len(segs)-1 && strings.Contains(seg, ".") {
				if !IPv4(seg) {
					return false
				}
				groups += 2
				continue
			}
			if !validHexGroup(seg) {
				return false
			}
			groups++
		}
		return true
	}
	if !count(head, !elided) {
		return false
	}
	if elided && !count(tail, true) {
		return false
	}
	if elided {
		return groups < 8
	}
	return groups == 8
}

func validHexGroup(seg string) bool {
	if len(seg) == 0 || len(seg) > 4 {
		return false
	}
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		ok := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !ok {
			return false
		}
	}
	return true
}

var registry = map[string]Matcher{
	"uuid":    UUID,
	"email":   Email,
	"url":     URL,
	"ipv4":    IPv4,
	"ipv6":    IPv6,
	"numeric": Numeric,
}

// Lookup returns the matcher registered under name.
func Lookup(name string) (Matcher, bool) {
	m, ok := registry[name]
	return m, ok
}
