package stripe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ojingolabs/stripe-go/internal/api"
	"github.com/ojingolabs/stripe-go/internal/form"
)

// Card is a stored payment source attached to a customer. Cards are
// decoded from responses only; callers submit CardParams to tokenize
// new card details instead.
type Card struct {
	ID       string
	Brand    string
	Funding  string
	Last4    string
	ExpMonth int64
	ExpYear  int64
	Name     string
	Country  string
}

// CardList is one page of a customer's cards, in server order.
type CardList struct {
	Cards   []*Card
	HasMore bool
}

// Deleted confirms a successful deletion.
type Deleted struct {
	ID      string
	Deleted bool
}

// ListCards lists a customer's cards. Pagination is a pure function of
// params; both cursors set is rejected before any network activity.
func (c *Client) ListCards(ctx context.Context, customerID string, params *ListParams) *Call[*CardList] {
	v := form.New()
	if err := params.encode(v); err != nil {
		return failed[*CardList](c, err)
	}

	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/customers/%s/cards", api.PathEscape(customerID)),
		Query:  v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeCardList)
}

// RetrieveCard retrieves one of a customer's cards by id.
func (c *Client) RetrieveCard(ctx context.Context, cardID, customerID string) *Call[*Card] {
	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodGet,
		Path: fmt.Sprintf("/customers/%s/cards/%s",
			api.PathEscape(customerID), api.PathEscape(cardID)),
	}
	return run(c, ctx, key, keyErr, req, decodeCard)
}

// DeleteCard detaches a card from a customer.
func (c *Client) DeleteCard(ctx context.Context, cardID, customerID string) *Call[*Deleted] {
	key, keyErr := c.secret()
	req := &api.Request{
		Method: http.MethodDelete,
		Path: fmt.Sprintf("/customers/%s/cards/%s",
			api.PathEscape(customerID), api.PathEscape(cardID)),
	}
	return run(c, ctx, key, keyErr, req, decodeDeleted)
}

// decodeCard builds a Card from its attribute map.
func decodeCard(m map[string]any) (*Card, error) {
	id, err := requireID(m, "card")
	if err != nil {
		return nil, err
	}

	card := &Card{ID: id}
	card.Brand, _ = stringField(m, "brand")
	card.Funding, _ = stringField(m, "funding")
	card.Last4, _ = stringField(m, "last4")
	card.ExpMonth, _ = intField(m, "exp_month")
	card.ExpYear, _ = intField(m, "exp_year")
	card.Name, _ = stringField(m, "name")
	card.Country, _ = stringField(m, "country")
	return card, nil
}

func decodeCardList(m map[string]any) (*CardList, error) {
	elems, hasMore, err := listData(m)
	if err != nil {
		return nil, err
	}

	list := &CardList{
		Cards:   make([]*Card, 0, len(elems)),
		HasMore: hasMore,
	}
	for _, elem := range elems {
		card, err := decodeCard(elem)
		if err != nil {
			return nil, err
		}
		list.Cards = append(list.Cards, card)
	}
	return list, nil
}

func decodeDeleted(m map[string]any) (*Deleted, error) {
	id, err := requireID(m, "deleted resource")
	if err != nil {
		return nil, err
	}
	deleted, _ := boolField(m, "deleted")
	return &Deleted{ID: id, Deleted: deleted}, nil
}
