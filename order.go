package stripe

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/ojingolabs/stripe-go/internal/api"
	"github.com/ojingolabs/stripe-go/internal/form"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCanceled  OrderStatus = "canceled"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusReturned  OrderStatus = "returned"
	// OrderStatusUnknown covers wire values added after this SDK was
	// released.
	OrderStatusUnknown OrderStatus = "unknown"
)

func orderStatusFromWire(s string) OrderStatus {
	switch OrderStatus(s) {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusCanceled,
		OrderStatusFulfilled, OrderStatusReturned:
		return OrderStatus(s)
	}
	return OrderStatusUnknown
}

// OrderItemType classifies a line item.
type OrderItemType string

const (
	OrderItemTypeSku      OrderItemType = "sku"
	OrderItemTypeTax      OrderItemType = "tax"
	OrderItemTypeShipping OrderItemType = "shipping"
	OrderItemTypeDiscount OrderItemType = "discount"
	OrderItemTypeUnknown  OrderItemType = "unknown"
)

func orderItemTypeFromWire(s string) OrderItemType {
	switch OrderItemType(s) {
	case OrderItemTypeSku, OrderItemTypeTax, OrderItemTypeShipping,
		OrderItemTypeDiscount:
		return OrderItemType(s)
	}
	return OrderItemTypeUnknown
}

// OrderItem is one line of an order. Amount is in the smallest currency
// unit and may be negative for discounts. Quantity is meaningful only
// when Type is sku.
type OrderItem struct {
	Amount      int64
	Currency    string
	Description string
	Type        OrderItemType
	ParentID    string // weak reference to the parent resource (e.g. a SKU)
	Quantity    int64
}

// OrderItemFromSku builds the order item submitting quantity units of
// the given SKU.
func OrderItemFromSku(sku *Sku, quantity int64) *OrderItem {
	return &OrderItem{
		Type:     OrderItemTypeSku,
		ParentID: sku.ID,
		Quantity: quantity,
	}
}

// encode writes the item's populated fields with the element index
// embedded in every key, e.g. items[0][parent], items[0][quantity].
func (oi *OrderItem) encode(idx int, v *form.Values) {
	if oi.ParentID != "" {
		v.Set(form.IndexedKey("items", idx, "parent"), oi.ParentID)
	}
	if oi.Quantity > 0 {
		v.SetInt(form.IndexedKey("items", idx, "quantity"), oi.Quantity)
	}
	if oi.Amount != 0 {
		v.SetInt(form.IndexedKey("items", idx, "amount"), oi.Amount)
	}
	if oi.Currency != "" {
		v.Set(form.IndexedKey("items", idx, "currency"), oi.Currency)
	}
	if oi.Description != "" {
		v.Set(form.IndexedKey("items", idx, "description"), oi.Description)
	}
	if oi.Type != "" {
		v.Set(form.IndexedKey("items", idx, "type"), string(oi.Type))
	}
}

// ShippingMethod is one way an order can be shipped.
type ShippingMethod struct {
	ID          string
	Amount      int64
	Currency    string
	Description string
}

// Order represents an API order. Status, SelectedShippingMethodID and
// Metadata may be mutated and re-submitted with UpdateOrder; every
// other field is read-only after decoding.
type Order struct {
	ID             string
	CreatedAt      time.Time
	Amount         int64
	Currency       string
	Status         OrderStatus
	ApplicationFee int64
	ChargeID       string // present iff status is paid, fulfilled or returned

	Customer   *Customer // populated when the server expands the customer
	CustomerID string    // weak reference otherwise

	ShippingMethods          []*ShippingMethod
	SelectedShippingMethodID string // must match an entry in ShippingMethods if non-empty
	ShippingAddress          *ShippingInfo

	Items    []*OrderItem
	Metadata map[string]string
	Email    string

	snap *orderSnapshot
}

// orderSnapshot captures the updatable fields at decode time.
type orderSnapshot struct {
	status         OrderStatus
	selectedMethod string
	metadata       map[string]string
}

// CreateOrder creates an order for a customer. account, when non-empty,
// routes the operation to a connected account.
func (c *Client) CreateOrder(ctx context.Context, account, customerID, currency string, items []*OrderItem) *Call[*Order] {
	v := form.New()
	v.Set("currency", currency)
	v.Set("customer", customerID)
	for i, item := range items {
		item.encode(i, v)
	}

	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/orders",
		Account: account,
		Body:    v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeOrder)
}

// RetrieveOrder retrieves an order by id.
func (c *Client) RetrieveOrder(ctx context.Context, account, orderID string) *Call[*Order] {
	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodGet,
		Path:    "/orders/" + api.PathEscape(orderID),
		Account: account,
	}
	return run(c, ctx, key, keyErr, req, decodeOrder)
}

// UpdateOrder submits an order's changes. Only metadata,
// selected_shipping_method and status are ever transmitted, and each
// only if it changed since the order was decoded; the server ignores
// everything else, so nothing else is sent.
func (c *Client) UpdateOrder(ctx context.Context, account string, order *Order) *Call[*Order] {
	if order == nil {
		return failed[*Order](c, ErrNilParams)
	}
	if err := order.checkSelectedMethod(); err != nil {
		return failed[*Order](c, err)
	}

	v := form.New()
	order.updateParams(v)

	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/orders/" + api.PathEscape(order.ID),
		Account: account,
		Body:    v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeOrder)
}

// PayOrder pays an order. With a cardID the payment uses that card;
// otherwise the server charges the customer's default source.
// applicationFee, when non-empty, is transferred to the platform
// account (requires connected-account routing).
func (c *Client) PayOrder(ctx context.Context, account string, order *Order, cardID, applicationFee string) *Call[*Order] {
	if order == nil {
		return failed[*Order](c, ErrNilParams)
	}

	v := form.New()
	customerID := order.CustomerID
	if customerID == "" && order.Customer != nil {
		customerID = order.Customer.ID
	}
	if customerID != "" {
		v.Set("customer", customerID)
	}
	if cardID != "" {
		v.Set("source", cardID)
	}
	if applicationFee != "" {
		v.Set("application_fee", applicationFee)
	}

	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodPost,
		Path:    "/orders/" + api.PathEscape(order.ID) + "/pay",
		Account: account,
		Body:    v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeOrder)
}

// checkSelectedMethod enforces the weak-reference invariant before any
// network activity: a non-empty selection must name one of the order's
// shipping methods, when those are known.
func (o *Order) checkSelectedMethod() error {
	if o.SelectedShippingMethodID == "" || len(o.ShippingMethods) == 0 {
		return nil
	}
	for _, m := range o.ShippingMethods {
		if m.ID == o.SelectedShippingMethodID {
			return nil
		}
	}
	return ErrUnknownShippingMethod
}

// updateParams writes the changed subset of the update allow-list.
// An order that was never decoded sends whichever allow-listed fields
// are populated.
func (o *Order) updateParams(v *form.Values) {
	snap := o.snap
	if snap == nil || o.Status != snap.status {
		if o.Status != "" && o.Status != OrderStatusUnknown {
			v.Set("status", string(o.Status))
		}
	}
	if snap == nil || o.SelectedShippingMethodID != snap.selectedMethod {
		if o.SelectedShippingMethodID != "" {
			v.Set("selected_shipping_method", o.SelectedShippingMethodID)
		}
	}
	if snap == nil || !maps.Equal(o.Metadata, snap.metadata) {
		for k, val := range o.Metadata {
			v.Set(form.Key("metadata", k), val)
		}
	}
}

// decodeOrder builds an Order and its owned item/shipping graph from an
// attribute map.
func decodeOrder(m map[string]any) (*Order, error) {
	id, err := requireID(m, "order")
	if err != nil {
		return nil, err
	}

	o := &Order{ID: id}
	o.CreatedAt, _ = timeField(m, "created")
	o.Amount, _ = intField(m, "amount")
	o.Currency, _ = stringField(m, "currency")
	if status, ok := stringField(m, "status"); ok {
		o.Status = orderStatusFromWire(status)
	}
	o.ApplicationFee, _ = intField(m, "application_fee")
	o.ChargeID, _ = stringField(m, "charge")
	o.SelectedShippingMethodID, _ = stringField(m, "selected_shipping_method")
	o.Metadata, _ = stringMapField(m, "metadata")
	o.Email, _ = stringField(m, "email")

	// customer is either an id or an expanded object
	switch cust := m["customer"].(type) {
	case string:
		o.CustomerID = cust
	case map[string]any:
		decoded, err := decodeCustomer(cust)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
		o.Customer = decoded
		o.CustomerID = decoded.ID
	}

	if raw, present := m["shipping_methods"]; present && raw != nil {
		methods, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("order %s: shipping_methods is not an array", id)
		}
		for i, elem := range methods {
			mm, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("order %s: shipping method %d is not an object", id, i)
			}
			method, err := decodeShippingMethod(mm)
			if err != nil {
				return nil, fmt.Errorf("order %s: %w", id, err)
			}
			o.ShippingMethods = append(o.ShippingMethods, method)
		}
	}

	if raw, present := m["shipping"]; present && raw != nil {
		sm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("order %s: shipping is not an object", id)
		}
		o.ShippingAddress = decodeShippingInfo(sm)
	}

	if raw, present := m["items"]; present && raw != nil {
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("order %s: items is not an array", id)
		}
		for i, elem := range items {
			im, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("order %s: item %d is not an object", id, i)
			}
			o.Items = append(o.Items, decodeOrderItem(im))
		}
	}

	o.snap = &orderSnapshot{
		status:         o.Status,
		selectedMethod: o.SelectedShippingMethodID,
		metadata:       maps.Clone(o.Metadata),
	}
	return o, nil
}

func decodeOrderItem(m map[string]any) *OrderItem {
	oi := &OrderItem{}
	oi.Amount, _ = intField(m, "amount")
	oi.Currency, _ = stringField(m, "currency")
	oi.Description, _ = stringField(m, "description")
	if t, ok := stringField(m, "type"); ok {
		oi.Type = orderItemTypeFromWire(t)
	}
	oi.ParentID, _ = stringField(m, "parent")
	oi.Quantity, _ = intField(m, "quantity")
	return oi
}

func decodeShippingMethod(m map[string]any) (*ShippingMethod, error) {
	id, err := requireID(m, "shipping method")
	if err != nil {
		return nil, err
	}
	sm := &ShippingMethod{ID: id}
	sm.Amount, _ = intField(m, "amount")
	sm.Currency, _ = stringField(m, "currency")
	sm.Description, _ = stringField(m, "description")
	return sm, nil
}
