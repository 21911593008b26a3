package stripe

import "github.com/ojingolabs/stripe-go/internal/form"

// ListParams carries cursor pagination parameters for list operations.
// Limit is a positive page size (the server enforces an upper bound).
// Before and After are opaque entity ids from a previously returned
// page and are mutually exclusive. No cursor state is retained between
// calls.
type ListParams struct {
	Limit  int
	Before string // serialized as ending_before
	After  string // serialized as starting_after
}

// encode writes the wire parameters, omitting whatever is unset.
func (p *ListParams) encode(v *form.Values) error {
	if p == nil {
		return nil
	}
	if p.Before != "" && p.After != "" {
		return ErrConflictingCursors
	}
	if p.Limit > 0 {
		v.SetInt("limit", int64(p.Limit))
	}
	if p.Before != "" {
		v.Set("ending_before", p.Before)
	}
	if p.After != "" {
		v.Set("starting_after", p.After)
	}
	return nil
}
