package phone

import (
	"testing"

	"cpaas-portal/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"03001234567", "923001234567"},
		{"3001234567", "923001234567"},
		{"923001234567", "923001234567"},
		{"+92 300 1234567", "923001234567"},
		{"9203001234567", "923001234567"},
		{"(0300) 123-4567", "923001234567"},
		{"92300123456789", "923001234567"},
		{"0300", "92300"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"03001234567", "+923001234567", "92 0 0 300", "12345678901234", "0"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
		assert.Equal(t, once, Normalize(Format(models.ChannelSMS, once)), "input %q", in)
	}
}

func TestFormatAndValid(t *testing.T) {
	digits := Normalize("03001234567")

	wa := Format(models.ChannelWhatsApp, digits)
	assert.Equal(t, "923001234567", wa)
	assert.True(t, Valid(models.ChannelWhatsApp, wa))

	sms := Format(models.ChannelSMS, digits)
	assert.Equal(t, "+923001234567", sms)
	assert.Len(t, sms, 13)
	assert.True(t, Valid(models.ChannelSMS, sms))
	assert.False(t, Valid(models.ChannelWhatsApp, sms))

	short := Format(models.ChannelWhatsApp, Normalize("0300123"))
	assert.False(t, Valid(models.ChannelWhatsApp, short))
	assert.Equal(t, "", Format(models.ChannelSMS, ""))
}
