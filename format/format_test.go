package format_test

import (
	"testing"

	"github.com/reoring/typekit/format"
)

func TestUUID(t *testing.T) {
	cases := map[string]bool{
		"0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9": true,
		"0A1B2C3D-4E5F-6071-8293-A4B5C6D7E8F9": true,
		"0a1b2c3d4e5f60718293a4b5c6d7e8f9":     false, // missing grouping
		"0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8":   false, // short tail
		"ga1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9": false, // non-hex
	}
	for in, want := range cases {
		if got := format.UUID(in); got != want {
			t.Errorf("UUID(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"neko@example.com":     true,
		"a.b+tag@sub.host.org": true,
		"no-at-sign":           false,
		"a@b":                  false, // no dotted domain
		"@example.com":         false,
	}
	for in, want := range cases {
		if got := format.Email(in); got != want {
			t.Errorf("Email(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/path?q=1": true,
		"ftp://files.example.com":      true,
		"example.com":                  false, // no scheme
		"https://":                     false,
		"http://with space":            false,
	}
	for in, want := range cases {
		if got := format.URL(in); got != want {
			t.Errorf("URL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIPv4(t *testing.T) {
	cases := map[string]bool{
		"0.0.0.0":         true,
		"255.255.255.255": true,
		"10.0.0.1":        true,
		"256.0.0.1":       false,
		"1.2.3":           false,
		"01.2.3.4":        false, // leading zero
		"1.2.3.4.5":       false,
		"a.b.c.d":         false,
	}
	for in, want := range cases {
		if got := format.IPv4(in); got != want {
			t.Errorf("IPv4(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIPv6(t *testing.T) {
	cases := map[string]bool{
		"2001:db8:85a3:0:0:8a2e:370:7334": true,
		"2001:db8::8a2e:370:7334":         true,
		"::1":                             true,
		"::":                              true,
		"::ffff:192.168.0.1":              true,
		"2001:db8::85a3::7334":            false, // two elisions
		"2001:db8:85a3:0:0:8a2e:370":      false, // seven groups
		"12345::1":                        false, // oversized group
		"hello":                           false,
	}
	for in, want := range cases {
		if got := format.IPv6(in); got != want {
			t.Errorf("IPv6(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNumeric(t *testing.T) {
	cases := map[string]bool{
		"42":      true,
		"-3.5":    true,
		"+.5":     true,
		"6.02e23": true,
		"1e":      false,
		"abc":     false,
		"":        false,
	}
	for in, want := range cases {
		if got := format.Numeric(in); got != want {
			t.Errorf("Numeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"uuid", "email", "url", "ipv4", "ipv6", "numeric"} {
		if _, ok := format.Lookup(name); !ok {
			t.Errorf("Lookup(%q) missing", name)
		}
	}
	if _, ok := format.Lookup("regex"); ok {
		t.Errorf("the builtin set must not be extensible")
	}
}
