package stripe

import "github.com/ojingolabs/stripe-go/internal/form"

// ShippingInfo describes a recipient and postal address. Name and Line1
// are required when submitting shipping information; Carrier and
// TrackingNumber are only ever populated by the server on orders.
type ShippingInfo struct {
	Name           string
	Phone          string
	Line1          string
	Line2          string
	City           string
	Country        string
	PostalCode     string
	State          string
	Carrier        string
	TrackingNumber string
}

// Equal reports whether both values carry the same user-visible fields.
func (s *ShippingInfo) Equal(other *ShippingInfo) bool {
	if s == nil || other == nil {
		return s == other
	}
	return *s == *other
}

// encode writes the wire parameters under prefix, e.g.
// shipping[name], shipping[address][line1].
func (s *ShippingInfo) encode(prefix string, v *form.Values) {
	v.Set(form.Key(prefix, "name"), s.Name)
	if s.Phone != "" {
		v.Set(form.Key(prefix, "phone"), s.Phone)
	}
	if s.Carrier != "" {
		v.Set(form.Key(prefix, "carrier"), s.Carrier)
	}
	if s.TrackingNumber != "" {
		v.Set(form.Key(prefix, "tracking_number"), s.TrackingNumber)
	}
	v.Set(form.Key(prefix, "address", "line1"), s.Line1)
	if s.Line2 != "" {
		v.Set(form.Key(prefix, "address", "line2"), s.Line2)
	}
	if s.City != "" {
		v.Set(form.Key(prefix, "address", "city"), s.City)
	}
	if s.State != "" {
		v.Set(form.Key(prefix, "address", "state"), s.State)
	}
	if s.PostalCode != "" {
		v.Set(form.Key(prefix, "address", "postal_code"), s.PostalCode)
	}
	if s.Country != "" {
		v.Set(form.Key(prefix, "address", "country"), s.Country)
	}
}

// decodeShippingInfo builds a ShippingInfo from its attribute map.
// All fields are optional on the wire; the address sub-object may be
// nested or flattened into the top level.
func decodeShippingInfo(m map[string]any) *ShippingInfo {
	s := &ShippingInfo{}
	s.Name, _ = stringField(m, "name")
	s.Phone, _ = stringField(m, "phone")
	s.Carrier, _ = stringField(m, "carrier")
	s.TrackingNumber, _ = stringField(m, "tracking_number")

	addr := m
	if nested, ok := mapField(m, "address"); ok {
		addr = nested
	}
	s.Line1, _ = stringField(addr, "line1")
	s.Line2, _ = stringField(addr, "line2")
	s.City, _ = stringField(addr, "city")
	s.State, _ = stringField(addr, "state")
	s.PostalCode, _ = stringField(addr, "postal_code")
	s.Country, _ = stringField(addr, "country")
	return s
}

// clone returns a copy, used for decode-time snapshots.
func (s *ShippingInfo) clone() *ShippingInfo {
	if s == nil {
		return nil
	}
	dup := *s
	return &dup
}
