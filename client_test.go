package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

// recordedRequest captures what the server saw for body/header assertions.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   url.Values
	Header http.Header
}

// newTestServer serves status/payload for every request and records the
// last request it saw.
func newTestServer(t *testing.T, status int, payload any) (*httptest.Server, *recordedRequest, *atomic.Int64) {
	t.Helper()

	last := &recordedRequest{}
	hits := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		raw, _ := io.ReadAll(r.Body)
		body, _ := url.ParseQuery(string(raw))
		*last = recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
			Header: r.Header.Clone(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv, last, hits
}

func newTestClient(t *testing.T, baseURL string, extra ...Option) *Client {
	t.Helper()

	opts := append([]Option{
		WithPublishableKey("pk_test_123"),
		WithSecretKey("sk_test_123"),
		WithBaseURL(baseURL),
	}, extra...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RequiresAKey(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("New() error = %v, want ErrMissingAPIKey", err)
	}

	if _, err := New(WithPublishableKey("pk_test_123")); err != nil {
		t.Errorf("New() with publishable key error = %v", err)
	}
	if _, err := New(WithSecretKey("sk_test_123")); err != nil {
		t.Errorf("New() with secret key error = %v", err)
	}
}

func TestCreateToken_EndToEnd(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, map[string]any{
		"id":      "tok_abc",
		"object":  "token",
		"created": 1500000000,
		"card": map[string]any{
			"id":        "card_1",
			"brand":     "Visa",
			"last4":     "4242",
			"exp_month": 12,
			"exp_year":  2030,
		},
	})
	c := newTestClient(t, srv.URL)

	tok, err := c.CreateToken(context.Background(), &CardParams{
		Number:   "4242424242424242",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
	}).Result()
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	if tok.ID != "tok_abc" || tok.Card == nil || tok.Card.Last4 != "4242" {
		t.Errorf("token = %+v", tok)
	}

	if last.Method != http.MethodPost || last.Path != "/tokens" {
		t.Errorf("request = %s %s", last.Method, last.Path)
	}
	if got := last.Header.Get("Authorization"); got != "Bearer pk_test_123" {
		t.Errorf("Authorization = %q, want publishable key", got)
	}
	if got := last.Body.Get("card[number]"); got != "4242424242424242" {
		t.Errorf("card[number] = %q", got)
	}
	if got := last.Body.Get("card[exp_month]"); got != "12" {
		t.Errorf("card[exp_month] = %q", got)
	}
	if got := last.Body.Get("card[cvc]"); got != "123" {
		t.Errorf("card[cvc] = %q", got)
	}
}

func TestCreateToken_InvalidCVC(t *testing.T) {
	srv, _, _ := newTestServer(t, http.StatusPaymentRequired, map[string]any{
		"error": map[string]any{
			"type":    "card_error",
			"message": "Your card's security code is invalid.",
			"param":   "cvc",
			"code":    "invalid_cvc",
		},
	})
	c := newTestClient(t, srv.URL)

	_, err := c.CreateToken(context.Background(), &CardParams{
		Number:   "4242424242424242",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "12",
	}).Result()

	var cardErr *CardError
	if !errors.As(err, &cardErr) {
		t.Fatalf("CreateToken() error = %T (%v), want *CardError", err, err)
	}
	if cardErr.Code != CardInvalidCVC {
		t.Errorf("Code = %q, want %q", cardErr.Code, CardInvalidCVC)
	}
}

func TestCreateToken_MissingPublishableKey(t *testing.T) {
	srv, _, hits := newTestServer(t, http.StatusOK, map[string]any{"id": "tok_abc"})
	c, err := New(WithSecretKey("sk_test_123"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.CreateToken(context.Background(), &CardParams{Number: "4242424242424242"}).Result()
	if !errors.Is(err, ErrMissingPublishableKey) {
		t.Errorf("CreateToken() error = %v, want ErrMissingPublishableKey", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was hit %d times for a config error", hits.Load())
	}
}

func TestRetrieveCustomer_MissingSecretKey(t *testing.T) {
	srv, _, hits := newTestServer(t, http.StatusOK, map[string]any{"id": "cus_123"})
	c, err := New(WithPublishableKey("pk_test_123"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.RetrieveCustomer(context.Background(), "cus_123").Result()
	if !errors.Is(err, ErrMissingSecretKey) {
		t.Errorf("RetrieveCustomer() error = %v, want ErrMissingSecretKey", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was hit %d times for a config error", hits.Load())
	}
}

func TestCreateToken_NilParams(t *testing.T) {
	srv, _, hits := newTestServer(t, http.StatusOK, map[string]any{"id": "tok_abc"})
	c := newTestClient(t, srv.URL)

	_, err := c.CreateToken(context.Background(), nil).Result()
	if !errors.Is(err, ErrNilParams) {
		t.Errorf("CreateToken(nil) error = %v, want ErrNilParams", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was hit %d times for nil params", hits.Load())
	}
}

func TestListCards_EndToEnd(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, map[string]any{
		"object":   "list",
		"has_more": true,
		"data": []any{
			map[string]any{"id": "card_1", "brand": "Visa", "last4": "4242"},
		},
	})
	c := newTestClient(t, srv.URL)

	list, err := c.ListCards(context.Background(), "cus_123", &ListParams{Limit: 3, After: "card_0"}).Result()
	if err != nil {
		t.Fatalf("ListCards() error = %v", err)
	}

	if !list.HasMore || len(list.Cards) != 1 || list.Cards[0].ID != "card_1" {
		t.Errorf("list = %+v", list)
	}

	if last.Method != http.MethodGet || last.Path != "/customers/cus_123/cards" {
		t.Errorf("request = %s %s", last.Method, last.Path)
	}
	if got := last.Query.Get("limit"); got != "3" {
		t.Errorf("limit = %q", got)
	}
	if got := last.Query.Get("starting_after"); got != "card_0" {
		t.Errorf("starting_after = %q", got)
	}
	if last.Query.Has("ending_before") {
		t.Error("ending_before sent without a before cursor")
	}
}

func TestListCards_ConflictingCursors(t *testing.T) {
	srv, _, hits := newTestServer(t, http.StatusOK, map[string]any{"object": "list", "data": []any{}})
	c := newTestClient(t, srv.URL)

	_, err := c.ListCards(context.Background(), "cus_123", &ListParams{Before: "a", After: "b"}).Result()
	if !errors.Is(err, ErrConflictingCursors) {
		t.Errorf("ListCards() error = %v, want ErrConflictingCursors", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was hit %d times for conflicting cursors", hits.Load())
	}
}

func TestDeleteCard_EndToEnd(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, map[string]any{"id": "card_1", "deleted": true})
	c := newTestClient(t, srv.URL)

	del, err := c.DeleteCard(context.Background(), "card_1", "cus_123").Result()
	if err != nil {
		t.Fatalf("DeleteCard() error = %v", err)
	}

	if !del.Deleted || del.ID != "card_1" {
		t.Errorf("deleted = %+v", del)
	}
	if last.Method != http.MethodDelete || last.Path != "/customers/cus_123/cards/card_1" {
		t.Errorf("request = %s %s", last.Method, last.Path)
	}
}

func TestUpdateOrder_TransmitsOnlyChangedAllowListed(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, orderAttrs())
	c := newTestClient(t, srv.URL)

	order, err := decodeOrder(orderAttrs())
	if err != nil {
		t.Fatalf("decodeOrder() error = %v", err)
	}
	order.Status = OrderStatusCanceled
	order.Amount = 31337 // read-only

	if _, err := c.UpdateOrder(context.Background(), "acct_1", order).Result(); err != nil {
		t.Fatalf("UpdateOrder() error = %v", err)
	}

	if last.Method != http.MethodPost || last.Path != "/orders/or_123" {
		t.Errorf("request = %s %s", last.Method, last.Path)
	}
	if got := last.Body.Get("status"); got != "canceled" {
		t.Errorf("status = %q", got)
	}
	for _, key := range []string{"amount", "currency", "selected_shipping_method", "metadata[gift]", "email"} {
		if last.Body.Has(key) {
			t.Errorf("%s was transmitted", key)
		}
	}
	if got := last.Header.Get("Stripe-Account"); got != "acct_1" {
		t.Errorf("Stripe-Account = %q", got)
	}
}

func TestUpdateOrder_UnknownSelectedMethod(t *testing.T) {
	srv, _, hits := newTestServer(t, http.StatusOK, orderAttrs())
	c := newTestClient(t, srv.URL)

	order, err := decodeOrder(orderAttrs())
	if err != nil {
		t.Fatalf("decodeOrder() error = %v", err)
	}
	order.SelectedShippingMethodID = "ship_drone"

	_, err = c.UpdateOrder(context.Background(), "", order).Result()
	if !errors.Is(err, ErrUnknownShippingMethod) {
		t.Errorf("UpdateOrder() error = %v, want ErrUnknownShippingMethod", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was hit %d times for an unknown shipping method", hits.Load())
	}
}

func TestPayOrder_EndToEnd(t *testing.T) {
	paid := orderAttrs()
	paid["status"] = "paid"
	paid["charge"] = "ch_1"
	srv, last, _ := newTestServer(t, http.StatusOK, paid)
	c := newTestClient(t, srv.URL)

	order, err := decodeOrder(orderAttrs())
	if err != nil {
		t.Fatalf("decodeOrder() error = %v", err)
	}

	got, err := c.PayOrder(context.Background(), "", order, "card_1", "150").Result()
	if err != nil {
		t.Fatalf("PayOrder() error = %v", err)
	}

	if got.Status != OrderStatusPaid || got.ChargeID != "ch_1" {
		t.Errorf("order = %+v", got)
	}
	if last.Path != "/orders/or_123/pay" {
		t.Errorf("path = %s", last.Path)
	}
	if gotBody := last.Body.Get("customer"); gotBody != "cus_123" {
		t.Errorf("customer = %q", gotBody)
	}
	if gotBody := last.Body.Get("source"); gotBody != "card_1" {
		t.Errorf("source = %q", gotBody)
	}
	if gotBody := last.Body.Get("application_fee"); gotBody != "150" {
		t.Errorf("application_fee = %q", gotBody)
	}
}

func TestCreateCustomer_EndToEnd(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, customerAttrs())
	c := newTestClient(t, srv.URL)

	shipping := &ShippingInfo{Name: "Jane Doe", Line1: "123 Main St", City: "Springfield"}
	cu, err := c.CreateCustomer(context.Background(), "jane@example.com", shipping, &Token{ID: "tok_abc"}).Result()
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	if cu.ID != "cus_123" {
		t.Errorf("customer = %+v", cu)
	}
	if got := last.Header.Get("Authorization"); got != "Bearer sk_test_123" {
		t.Errorf("Authorization = %q, want secret key", got)
	}
	if got := last.Body.Get("email"); got != "jane@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := last.Body.Get("source"); got != "tok_abc" {
		t.Errorf("source = %q", got)
	}
	if got := last.Body.Get("shipping[address][line1]"); got != "123 Main St" {
		t.Errorf("shipping line1 = %q", got)
	}
}

func TestCreateOrder_IndexedItems(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, orderAttrs())
	c := newTestClient(t, srv.URL)

	items := []*OrderItem{
		OrderItemFromSku(&Sku{ID: "sku_9"}, 2),
		OrderItemFromSku(&Sku{ID: "sku_5"}, 1),
	}
	if _, err := c.CreateOrder(context.Background(), "", "cus_123", "usd", items).Result(); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if got := last.Body.Get("currency"); got != "usd" {
		t.Errorf("currency = %q", got)
	}
	if got := last.Body.Get("items[0][parent]"); got != "sku_9" {
		t.Errorf("items[0][parent] = %q", got)
	}
	if got := last.Body.Get("items[0][quantity]"); got != "2" {
		t.Errorf("items[0][quantity] = %q", got)
	}
	if got := last.Body.Get("items[1][parent]"); got != "sku_5" {
		t.Errorf("items[1][parent] = %q", got)
	}
}

func TestListProducts_AccountRouting(t *testing.T) {
	srv, last, _ := newTestServer(t, http.StatusOK, map[string]any{
		"object":   "list",
		"has_more": false,
		"data":     []any{},
	})
	c := newTestClient(t, srv.URL)

	if _, err := c.ListProducts(context.Background(), "acct_1", nil).Result(); err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}

	if got := last.Header.Get("Stripe-Account"); got != "acct_1" {
		t.Errorf("Stripe-Account = %q", got)
	}
	if last.Path != "/products" {
		t.Errorf("path = %s", last.Path)
	}
}

func TestRun_DecodeFailureBecomesAPIError(t *testing.T) {
	// a 200 whose payload is missing the entity id
	srv, _, _ := newTestServer(t, http.StatusOK, map[string]any{"email": "x@example.com"})
	c := newTestClient(t, srv.URL)

	_, err := c.RetrieveCustomer(context.Background(), "cus_123").Result()

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("RetrieveCustomer() error = %T (%v), want *APIError", err, err)
	}
}

func TestClient_ExecutorRunsCallbacks(t *testing.T) {
	srv, _, _ := newTestServer(t, http.StatusOK, customerAttrs())

	ran := make(chan struct{}, 1)
	exec := func(fn func()) {
		ran <- struct{}{}
		fn()
	}
	c := newTestClient(t, srv.URL, WithExecutor(exec))

	done := make(chan struct{})
	c.RetrieveCustomer(context.Background(), "cus_123").Then(func(*Customer, error) {
		close(done)
	})

	<-done
	select {
	case <-ran:
	default:
		t.Error("callback did not run on the configured executor")
	}
}
