package checkout

import (
	"regexp"
	"strings"
)

// Portuguese formats: postal codes are XXXX-XXX, phone numbers are nine
// digits starting with 9 (mobile), 2 or 3 (landline).
var (
	postalCodeRe = regexp.MustCompile(`^\d{4}-\d{3}$`)
	phoneRe      = regexp.MustCompile(`^9\d{8}$|^2\d{8}$|^3\d{8}$`)
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ShippingInfo is the delivery and contact data collected before payment.
// All fields are required.
type ShippingInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// Validate returns field-level error messages. An empty map means the
// info is acceptable and the flow may advance to payment.
func (s ShippingInfo) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(s.Address) == "" {
		errs["address"] = "address is required"
	}
	if !postalCodeRe.MatchString(s.PostalCode) {
		errs["postalCode"] = "invalid postal code, use XXXX-XXX"
	}
	if !phoneRe.MatchString(s.Phone) {
		errs["phone"] = "invalid phone number"
	}
	if !emailRe.MatchString(s.Email) {
		errs["email"] = "invalid email address"
	}
	return errs
}
