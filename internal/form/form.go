// Package form builds form-encoded request bodies using the payments
// API's bracketed key conventions (e.g. card[number], items[0][parent]).
package form

import (
	"fmt"
	"net/url"
	"strconv"
)

// Values accumulates form parameters for a single request body or
// query string.
type Values struct {
	v url.Values
}

// New returns an empty parameter set.
func New() *Values {
	return &Values{v: url.Values{}}
}

// Set sets key to val, replacing any previous value.
func (f *Values) Set(key, val string) {
	f.v.Set(key, val)
}

// SetInt sets key to the decimal representation of n.
func (f *Values) SetInt(key string, n int64) {
	f.v.Set(key, strconv.FormatInt(n, 10))
}

// Get returns the current value for key, or "" if unset.
func (f *Values) Get(key string) string {
	return f.v.Get(key)
}

// Has reports whether key has been set.
func (f *Values) Has(key string) bool {
	return f.v.Has(key)
}

// Empty reports whether no parameters have been set.
func (f *Values) Empty() bool {
	return len(f.v) == 0
}

// Encode serializes the parameters in application/x-www-form-urlencoded
// form, with keys sorted for a deterministic wire body.
func (f *Values) Encode() string {
	return f.v.Encode()
}

// Key nests field names under a prefix: Key("card", "number") yields
// "card[number]", Key("shipping", "address", "line1") yields
// "shipping[address][line1]".
func Key(prefix string, fields ...string) string {
	key := prefix
	for _, field := range fields {
		key += "[" + field + "]"
	}
	return key
}

// IndexedKey names one field of the idx-th element of an array
// parameter: IndexedKey("items", 0, "parent") yields "items[0][parent]".
func IndexedKey(prefix string, idx int, field string) string {
	return fmt.Sprintf("%s[%d][%s]", prefix, idx, field)
}
