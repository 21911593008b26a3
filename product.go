package stripe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ojingolabs/stripe-go/internal/api"
	"github.com/ojingolabs/stripe-go/internal/form"
)

// InventoryType describes how a SKU's stock is tracked.
type InventoryType string

const (
	InventoryTypeFinite   InventoryType = "finite"
	InventoryTypeBucket   InventoryType = "bucket"
	InventoryTypeInfinite InventoryType = "infinite"
	InventoryTypeUnknown  InventoryType = "unknown"
)

func inventoryTypeFromWire(s string) InventoryType {
	switch InventoryType(s) {
	case InventoryTypeFinite, InventoryTypeBucket, InventoryTypeInfinite:
		return InventoryType(s)
	}
	return InventoryTypeUnknown
}

// InventoryValue is the coarse stock indicator of a bucket inventory.
type InventoryValue string

const (
	InventoryValueInStock    InventoryValue = "in_stock"
	InventoryValueLimited    InventoryValue = "limited"
	InventoryValueOutOfStock InventoryValue = "out_of_stock"
	InventoryValueUnknown    InventoryValue = "unknown"
)

func inventoryValueFromWire(s string) InventoryValue {
	switch InventoryValue(s) {
	case InventoryValueInStock, InventoryValueLimited, InventoryValueOutOfStock:
		return InventoryValue(s)
	}
	return InventoryValueUnknown
}

// Inventory describes a SKU's stock. Exactly one of Quantity and Value
// is meaningful, determined by Type: Quantity iff finite, Value iff
// bucket.
type Inventory struct {
	Type     InventoryType
	Quantity int64
	Value    InventoryValue
}

// Package holds shipping dimensions: Height, Length and Width in
// inches, Weight in ounces, all non-negative with 2-decimal precision.
type Package struct {
	Height decimal.Decimal
	Length decimal.Decimal
	Width  decimal.Decimal
	Weight decimal.Decimal
}

// Sku is a purchasable variant of a product. Attribute keys are drawn
// from the owning product's attribute names. PackageDimensions, when
// present, overrides the product's.
type Sku struct {
	ID                string
	ProductID         string // weak reference to the owning product
	Active            bool
	Attributes        map[string]string
	ImageURL          string
	Price             int64 // smallest currency unit, positive
	Currency          string
	Inventory         *Inventory
	PackageDimensions *Package
}

// Product is a sellable good with its active SKUs.
type Product struct {
	ID                string
	Active            bool
	Images            []string
	Name              string
	Caption           string
	Description       string
	URL               string
	Attributes        []string // up to 5 names SKUs can provide values for
	Shippable         bool
	Skus              []*Sku
	PackageDimensions *Package
}

// ProductList is one page of products, in server order.
type ProductList struct {
	Products []*Product
	HasMore  bool
}

// ListProducts lists products. account, when non-empty, routes the
// operation to a connected account.
func (c *Client) ListProducts(ctx context.Context, account string, params *ListParams) *Call[*ProductList] {
	v := form.New()
	if err := params.encode(v); err != nil {
		return failed[*ProductList](c, err)
	}

	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodGet,
		Path:    "/products",
		Account: account,
		Query:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeProductList)
}

// RetrieveProduct retrieves a product by id.
func (c *Client) RetrieveProduct(ctx context.Context, account, productID string) *Call[*Product] {
	key, keyErr := c.secret()
	req := &api.Request{
		Method:  http.MethodGet,
		Path:    "/products/" + api.PathEscape(productID),
		Account: account,
	}
	return run(c, ctx, key, keyErr, req, decodeProduct)
}

// decodeProduct builds a Product and its owned SKU graph from an
// attribute map.
func decodeProduct(m map[string]any) (*Product, error) {
	id, err := requireID(m, "product")
	if err != nil {
		return nil, err
	}

	p := &Product{ID: id}
	p.Active, _ = boolField(m, "active")
	p.Images, _ = stringSliceField(m, "images")
	p.Name, _ = stringField(m, "name")
	p.Caption, _ = stringField(m, "caption")
	p.Description, _ = stringField(m, "description")
	p.URL, _ = stringField(m, "url")
	p.Attributes, _ = stringSliceField(m, "attributes")
	p.Shippable, _ = boolField(m, "shippable")

	if raw, present := m["skus"]; present && raw != nil {
		env, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("product %s: skus is not a list envelope", id)
		}
		elems, _, err := listData(env)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		for _, elem := range elems {
			sku, err := decodeSku(elem)
			if err != nil {
				return nil, fmt.Errorf("product %s: %w", id, err)
			}
			p.Skus = append(p.Skus, sku)
		}
	}

	pkg, err := decodePackageField(m, "product "+id)
	if err != nil {
		return nil, err
	}
	p.PackageDimensions = pkg

	return p, nil
}

// decodeSku builds a Sku with its owned inventory and optional package
// override.
func decodeSku(m map[string]any) (*Sku, error) {
	id, err := requireID(m, "sku")
	if err != nil {
		return nil, err
	}

	s := &Sku{ID: id}
	s.ProductID, _ = stringField(m, "product")
	s.Active, _ = boolField(m, "active")
	s.Attributes, _ = stringMapField(m, "attributes")
	s.ImageURL, _ = stringField(m, "image")
	s.Price, _ = intField(m, "price")
	s.Currency, _ = stringField(m, "currency")

	if raw, present := m["inventory"]; present && raw != nil {
		im, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("sku %s: inventory is not an object", id)
		}
		s.Inventory = decodeInventory(im)
	}

	pkg, err := decodePackageField(m, "sku "+id)
	if err != nil {
		return nil, err
	}
	s.PackageDimensions = pkg

	return s, nil
}

// decodeInventory enforces the type-determined field split: Quantity is
// kept iff the type is finite, Value iff the type is bucket.
func decodeInventory(m map[string]any) *Inventory {
	inv := &Inventory{Type: InventoryTypeUnknown}
	if t, ok := stringField(m, "type"); ok {
		inv.Type = inventoryTypeFromWire(t)
	}
	switch inv.Type {
	case InventoryTypeFinite:
		inv.Quantity, _ = intField(m, "quantity")
	case InventoryTypeBucket:
		if v, ok := stringField(m, "value"); ok {
			inv.Value = inventoryValueFromWire(v)
		} else {
			inv.Value = InventoryValueUnknown
		}
	}
	return inv
}

// decodePackageField reads the optional package_dimensions object.
func decodePackageField(m map[string]any, owner string) (*Package, error) {
	raw, present := m["package_dimensions"]
	if !present || raw == nil {
		return nil, nil
	}
	pm, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: package_dimensions is not an object", owner)
	}
	return decodePackage(pm), nil
}

// decodePackage reads the dimension fields at 2-decimal precision.
func decodePackage(m map[string]any) *Package {
	dim := func(key string) decimal.Decimal {
		f, _ := floatField(m, key)
		return decimal.NewFromFloat(f).Round(2)
	}
	return &Package{
		Height: dim("height"),
		Length: dim("length"),
		Width:  dim("width"),
		Weight: dim("weight"),
	}
}

func decodeProductList(m map[string]any) (*ProductList, error) {
	elems, hasMore, err := listData(m)
	if err != nil {
		return nil, err
	}

	list := &ProductList{
		Products: make([]*Product, 0, len(elems)),
		HasMore:  hasMore,
	}
	for _, elem := range elems {
		p, err := decodeProduct(elem)
		if err != nil {
			return nil, err
		}
		list.Products = append(list.Products, p)
	}
	return list, nil
}
