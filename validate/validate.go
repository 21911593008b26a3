// Package validate checks shipping and billing address fields against
// configurable length bounds and character whitelists.
//
// Validation is pure and synchronous. Each rule set evaluates fields in
// a fixed priority order and reports the first violated rule's code;
// later violations are not collected. All bounds and whitelists are
// plain Config fields, so embedding applications can override any of
// them; DefaultShipping and DefaultBilling document the defaults.
package validate

import (
	"strings"

	stripe "github.com/ojingolabs/stripe-go"
)

// Code identifies the first violated validation rule, or CodeNone.
type Code int

const (
	CodeNameLength Code = iota
	CodeNameCharacters
	CodePhoneLength
	CodePhoneCharacters
	CodePhoneLeadingPlus
	CodeAddressLength
	CodeAddressCharacters
	CodePostalCodeLength
	CodePostalCodeCharacters
	CodeCityLength
	CodeCityCharacters
	CodeStateLength
	CodeStateCharacters
	CodeCountryLength
	CodeCountryCharacters
	CodeNone
)

var codeNames = map[Code]string{
	CodeNameLength:           "name length",
	CodeNameCharacters:       "name characters",
	CodePhoneLength:          "phone length",
	CodePhoneCharacters:      "phone characters",
	CodePhoneLeadingPlus:     "phone leading plus",
	CodeAddressLength:        "address length",
	CodeAddressCharacters:    "address characters",
	CodePostalCodeLength:     "postal code length",
	CodePostalCodeCharacters: "postal code characters",
	CodeCityLength:           "city length",
	CodeCityCharacters:       "city characters",
	CodeStateLength:          "state length",
	CodeStateCharacters:      "state characters",
	CodeCountryLength:        "country length",
	CodeCountryCharacters:    "country characters",
	CodeNone:                 "no error",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown code"
}

// Rule bounds one field: length limits in runes plus a character
// whitelist. A zero MinLen makes the field optional (an empty value
// passes without further checks); an empty Allowed set permits any
// character.
type Rule struct {
	MinLen  int
	MaxLen  int
	Allowed string
}

// Config carries one rule set. Field rules evaluate in the fixed
// order: name, phone, address line, postal code, city, state, country;
// within one field the length bound is checked before the whitelist.
type Config struct {
	Name       Rule
	Phone      Rule
	Address    Rule
	PostalCode Rule
	City       Rule
	State      Rule
	Country    Rule

	// RejectLeadingPlusPhone rejects phone numbers beginning with a
	// plus sign. The leading-plus check runs before the phone's other
	// checks, so "+15551234" reports CodePhoneLeadingPlus even when the
	// number also violates the length bound.
	RejectLeadingPlusPhone bool
}

// Character whitelists used by the default rule sets.
const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	digits     = "0123456789"

	NameAllowed       = upperAlpha + lowerAlpha + " -'."
	PhoneAllowed      = digits + " ()-."
	AddressAllowed    = upperAlpha + lowerAlpha + digits + " #,.'-/"
	PostalCodeAllowed = upperAlpha + lowerAlpha + digits + " -"
	CityAllowed       = upperAlpha + lowerAlpha + " -'."
	StateAllowed      = upperAlpha + lowerAlpha + " -'."
	CountryAllowed    = upperAlpha + lowerAlpha + " "
)

// DefaultShipping returns the default shipping rule set: recipient
// name and phone are required (phone 5-20 characters, digits and
// punctuation, no leading plus), along with address line, postal code,
// city and country; state is optional.
func DefaultShipping() Config {
	return Config{
		Name:                   Rule{MinLen: 1, MaxLen: 60, Allowed: NameAllowed},
		Phone:                  Rule{MinLen: 5, MaxLen: 20, Allowed: PhoneAllowed},
		Address:                Rule{MinLen: 1, MaxLen: 200, Allowed: AddressAllowed},
		PostalCode:             Rule{MinLen: 1, MaxLen: 16, Allowed: PostalCodeAllowed},
		City:                   Rule{MinLen: 1, MaxLen: 60, Allowed: CityAllowed},
		State:                  Rule{MinLen: 0, MaxLen: 60, Allowed: StateAllowed},
		Country:                Rule{MinLen: 2, MaxLen: 60, Allowed: CountryAllowed},
		RejectLeadingPlusPhone: true,
	}
}

// DefaultBilling returns the default billing rule set. Billing differs
// from shipping in that the phone is optional and a leading plus is
// tolerated.
func DefaultBilling() Config {
	return Config{
		Name:       Rule{MinLen: 1, MaxLen: 60, Allowed: NameAllowed},
		Phone:      Rule{MinLen: 0, MaxLen: 20, Allowed: PhoneAllowed},
		Address:    Rule{MinLen: 1, MaxLen: 200, Allowed: AddressAllowed},
		PostalCode: Rule{MinLen: 1, MaxLen: 16, Allowed: PostalCodeAllowed},
		City:       Rule{MinLen: 1, MaxLen: 60, Allowed: CityAllowed},
		State:      Rule{MinLen: 0, MaxLen: 60, Allowed: StateAllowed},
		Country:    Rule{MinLen: 2, MaxLen: 60, Allowed: CountryAllowed},
	}
}

// First evaluates info against cfg and returns the first violated
// rule's code, or CodeNone when every rule passes.
func First(info *stripe.ShippingInfo, cfg Config) Code {
	if info == nil {
		return CodeNameLength
	}

	if code := checkField(info.Name, cfg.Name, CodeNameLength, CodeNameCharacters); code != CodeNone {
		return code
	}

	if cfg.RejectLeadingPlusPhone && strings.HasPrefix(info.Phone, "+") {
		return CodePhoneLeadingPlus
	}
	if code := checkField(info.Phone, cfg.Phone, CodePhoneLength, CodePhoneCharacters); code != CodeNone {
		return code
	}

	if code := checkField(info.Line1, cfg.Address, CodeAddressLength, CodeAddressCharacters); code != CodeNone {
		return code
	}
	// line2 is always optional but still bounded when present
	if info.Line2 != "" {
		optional := Rule{MaxLen: cfg.Address.MaxLen, Allowed: cfg.Address.Allowed}
		if code := checkField(info.Line2, optional, CodeAddressLength, CodeAddressCharacters); code != CodeNone {
			return code
		}
	}

	if code := checkField(info.PostalCode, cfg.PostalCode, CodePostalCodeLength, CodePostalCodeCharacters); code != CodeNone {
		return code
	}
	if code := checkField(info.City, cfg.City, CodeCityLength, CodeCityCharacters); code != CodeNone {
		return code
	}
	if code := checkField(info.State, cfg.State, CodeStateLength, CodeStateCharacters); code != CodeNone {
		return code
	}
	if code := checkField(info.Country, cfg.Country, CodeCountryLength, CodeCountryCharacters); code != CodeNone {
		return code
	}

	return CodeNone
}

// Shipping evaluates info against the default shipping rule set.
func Shipping(info *stripe.ShippingInfo) Code {
	return First(info, DefaultShipping())
}

// Billing evaluates info against the default billing rule set.
func Billing(info *stripe.ShippingInfo) Code {
	return First(info, DefaultBilling())
}

// IsValidShipping reports whether info passes the default shipping
// rule set.
func IsValidShipping(info *stripe.ShippingInfo) bool {
	return Shipping(info) == CodeNone
}

// IsValidBilling reports whether info passes the default billing rule
// set.
func IsValidBilling(info *stripe.ShippingInfo) bool {
	return Billing(info) == CodeNone
}

// checkField applies one rule: length bound first, whitelist second.
func checkField(s string, r Rule, lengthCode, charCode Code) Code {
	if s == "" && r.MinLen == 0 {
		return CodeNone
	}

	n := len([]rune(s))
	if n < r.MinLen || (r.MaxLen > 0 && n > r.MaxLen) {
		return lengthCode
	}

	if r.Allowed != "" {
		for _, ch := range s {
			if !strings.ContainsRune(r.Allowed, ch) {
				return charCode
			}
		}
	}

	return CodeNone
}
