package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingValidate_Accepted(t *testing.T) {
	errs := validShipping().Validate()
	assert.Empty(t, errs)
}

func TestShippingValidate_PostalCode(t *testing.T) {
	cases := map[string]bool{
		"1000-100": true,
		"4710-057": true,
		"10000100": false,
		"1000100":  false,
		"1000-10":  false,
		"100-1000": false,
		"":         false,
	}
	for code, ok := range cases {
		info := validShipping()
		info.PostalCode = code
		_, bad := info.Validate()["postalCode"]
		assert.Equal(t, !ok, bad, "postal code %q", code)
	}
}

func TestShippingValidate_Phone(t *testing.T) {
	cases := map[string]bool{
		"912345678":  true, // mobile
		"212345678":  true, // landline
		"312345678":  true,
		"412345678":  false, // bad prefix
		"91234567":   false, // too short
		"9123456789": false, // too long
		"12345":      false,
		"":           false,
	}
	for phone, ok := range cases {
		info := validShipping()
		info.Phone = phone
		_, bad := info.Validate()["phone"]
		assert.Equal(t, !ok, bad, "phone %q", phone)
	}
}

func TestShippingValidate_Email(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":           true,
		"maria@example.com": true,
		"not-an-email":      false,
		"a@b":               false,
		"a b@c.com":         false,
		"":                  false,
	}
	for email, ok := range cases {
		info := validShipping()
		info.Email = email
		_, bad := info.Validate()["email"]
		assert.Equal(t, !ok, bad, "email %q", email)
	}
}

func TestShippingValidate_RequiredFields(t *testing.T) {
	errs := ShippingInfo{}.Validate()
	assert.Len(t, errs, 5)

	info := validShipping()
	info.Name = "   "
	_, bad := info.Validate()["name"]
	assert.True(t, bad, "whitespace-only name must be rejected")
}
