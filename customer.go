package stripe

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"github.com/ojingolabs/stripe-go/internal/api"
	"github.com/ojingolabs/stripe-go/internal/form"
)

// Customer represents an API customer. ID and Delinquent are
// server-assigned and read-only; Email, DefaultSourceID, ShippingInfo
// and Metadata may be mutated and re-submitted with UpdateCustomer,
// which transmits only the fields that changed since decoding.
type Customer struct {
	ID              string
	Email           string
	Delinquent      bool
	Currency        string
	Sources         []*Card
	DefaultSourceID string // weak reference into Sources by id
	ShippingInfo    *ShippingInfo
	Metadata        map[string]string

	snap *customerSnapshot
}

// customerSnapshot captures the mutable fields at decode time so
// partial updates can send only what changed.
type customerSnapshot struct {
	email           string
	defaultSourceID string
	shippingInfo    *ShippingInfo
	metadata        map[string]string
}

// CreateCustomer creates a customer. shipping and source are optional;
// a source token becomes the customer's first payment source.
func (c *Client) CreateCustomer(ctx context.Context, email string, shipping *ShippingInfo, source *Token) *Call[*Customer] {
	v := form.New()
	v.Set("email", email)
	if shipping != nil {
		shipping.encode("shipping", v)
	}
	if source != nil {
		v.Set("source", source.ID)
	}

	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/customers",
		Body:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeCustomer)
}

// RetrieveCustomer retrieves a customer by id.
func (c *Client) RetrieveCustomer(ctx context.Context, customerID string) *Call[*Customer] {
	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodGet,
		Path:   "/customers/" + api.PathEscape(customerID),
	}
	return run(c, ctx, key, keyErr, req, decodeCustomer)
}

// UpdateCustomer submits the customer's mutated fields. Fields equal to
// their decode-time value are not transmitted; an update with nothing
// changed still issues the request and returns the server's view.
func (c *Client) UpdateCustomer(ctx context.Context, customer *Customer) *Call[*Customer] {
	if customer == nil {
		return failed[*Customer](c, ErrNilParams)
	}

	v := form.New()
	customer.updateParams(v)

	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/customers/" + api.PathEscape(customer.ID),
		Body:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeCustomer)
}

// AttachToken attaches a tokenized payment instrument to an existing
// customer and returns the updated customer.
func (c *Client) AttachToken(ctx context.Context, token *Token, customerID string) *Call[*Customer] {
	if token == nil {
		return failed[*Customer](c, ErrNilParams)
	}

	v := form.New()
	v.Set("source", token.ID)

	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/customers/" + api.PathEscape(customerID),
		Body:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeCustomer)
}

// updateParams writes the changed mutable fields. A customer that was
// never decoded (no snapshot) sends every populated mutable field.
func (cu *Customer) updateParams(v *form.Values) {
	snap := cu.snap
	if snap == nil || cu.Email != snap.email {
		if cu.Email != "" {
			v.Set("email", cu.Email)
		}
	}
	if snap == nil || cu.DefaultSourceID != snap.defaultSourceID {
		if cu.DefaultSourceID != "" {
			v.Set("default_source", cu.DefaultSourceID)
		}
	}
	if snap == nil || !cu.ShippingInfo.Equal(snap.shippingInfo) {
		if cu.ShippingInfo != nil {
			cu.ShippingInfo.encode("shipping", v)
		}
	}
	if snap == nil || !maps.Equal(cu.Metadata, snap.metadata) {
		for k, val := range cu.Metadata {
			v.Set(form.Key("metadata", k), val)
		}
	}
}

// decodeCustomer builds a Customer and its owned source graph from an
// attribute map.
func decodeCustomer(m map[string]any) (*Customer, error) {
	id, err := requireID(m, "customer")
	if err != nil {
		return nil, err
	}

	cu := &Customer{ID: id}
	cu.Email, _ = stringField(m, "email")
	cu.Delinquent, _ = boolField(m, "delinquent")
	cu.Currency, _ = stringField(m, "currency")
	cu.DefaultSourceID, _ = stringField(m, "default_source")
	cu.Metadata, _ = stringMapField(m, "metadata")

	if raw, present := m["sources"]; present {
		env, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("customer %s: sources is not a list envelope", id)
		}
		list, err := decodeCardList(env)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", id, err)
		}
		cu.Sources = list.Cards
	}

	if raw, present := m["shipping"]; present && raw != nil {
		sm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("customer %s: shipping is not an object", id)
		}
		cu.ShippingInfo = decodeShippingInfo(sm)
	}

	cu.snap = &customerSnapshot{
		email:           cu.Email,
		defaultSourceID: cu.DefaultSourceID,
		shippingInfo:    cu.ShippingInfo.clone(),
		metadata:        maps.Clone(cu.Metadata),
	}
	return cu, nil
}
