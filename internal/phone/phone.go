package phone

import (
	"strings"

	"cpaas-portal/pkg/models"
)

const (
	CountryCode = "92"
	Length      = 12
)

// ErrLength is the message shown when a number does not normalize to Length digits.
const ErrLength = "Phone number must be 12 digits (including 92 prefix)"

// Digits strips everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize turns operator input into country-coded digits capped at Length.
// A trunk zero after the country code is dropped, so 0300... and 920300...
// both become 92300...
func Normalize(input string) string {
	d := Digits(input)
	if d == "" {
		return ""
	}
	if !strings.HasPrefix(d, CountryCode) {
		d = CountryCode + d
	}
	rest := strings.TrimLeft(d[len(CountryCode):], "0")
	d = CountryCode + rest
	if len(d) > Length {
		d = d[:Length]
	}
	return d
}

// Format renders normalized digits the way channel stores them.
func Format(channel, digits string) string {
	if digits == "" {
		return ""
	}
	if channel == models.ChannelWhatsApp {
		return digits
	}
	return "+" + digits
}

// Valid reports whether value is a complete number in channel's format.
func Valid(channel, value string) bool {
	d := Digits(value)
	if len(d) != Length || !strings.HasPrefix(d, CountryCode) {
		return false
	}
	if channel == models.ChannelWhatsApp {
		return value == d
	}
	return value == "+"+d
}
