package stripe

import (
	"context"
	"net/http"
	"time"

	"github.com/ojingolabs/stripe-go/internal/api"
	"github.com/ojingolabs/stripe-go/internal/form"
)

// Token represents a tokenized payment instrument or bank account.
// Tokens are produced server-side and never constructed by the caller.
type Token struct {
	ID       string
	LiveMode bool
	Created  time.Time
	Used     bool
	Card     *Card        // present for card tokens
	Bank     *BankAccount // present for bank account tokens
}

// BankAccount is the bank counterpart of Card on a Token.
type BankAccount struct {
	ID       string
	BankName string
	Country  string
	Currency string
	Last4    string
}

// CardParams collects the card details submitted for tokenization.
type CardParams struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Name     string

	AddressLine1   string
	AddressLine2   string
	AddressCity    string
	AddressState   string
	AddressZip     string
	AddressCountry string

	Currency string
}

// encode nests the card fields under the card key.
func (p *CardParams) encode(v *form.Values) {
	v.Set(form.Key("card", "number"), p.Number)
	v.SetInt(form.Key("card", "exp_month"), int64(p.ExpMonth))
	v.SetInt(form.Key("card", "exp_year"), int64(p.ExpYear))
	if p.CVC != "" {
		v.Set(form.Key("card", "cvc"), p.CVC)
	}
	if p.Name != "" {
		v.Set(form.Key("card", "name"), p.Name)
	}
	if p.AddressLine1 != "" {
		v.Set(form.Key("card", "address_line1"), p.AddressLine1)
	}
	if p.AddressLine2 != "" {
		v.Set(form.Key("card", "address_line2"), p.AddressLine2)
	}
	if p.AddressCity != "" {
		v.Set(form.Key("card", "address_city"), p.AddressCity)
	}
	if p.AddressState != "" {
		v.Set(form.Key("card", "address_state"), p.AddressState)
	}
	if p.AddressZip != "" {
		v.Set(form.Key("card", "address_zip"), p.AddressZip)
	}
	if p.AddressCountry != "" {
		v.Set(form.Key("card", "address_country"), p.AddressCountry)
	}
	if p.Currency != "" {
		v.Set(form.Key("card", "currency"), p.Currency)
	}
}

// BankAccountParams collects the bank account details submitted for
// tokenization.
type BankAccountParams struct {
	Country           string
	Currency          string
	AccountNumber     string
	RoutingNumber     string
	AccountHolderName string
	AccountHolderType string // "individual" or "company"
}

func (p *BankAccountParams) encode(v *form.Values) {
	v.Set(form.Key("bank_account", "country"), p.Country)
	v.Set(form.Key("bank_account", "currency"), p.Currency)
	v.Set(form.Key("bank_account", "account_number"), p.AccountNumber)
	if p.RoutingNumber != "" {
		v.Set(form.Key("bank_account", "routing_number"), p.RoutingNumber)
	}
	if p.AccountHolderName != "" {
		v.Set(form.Key("bank_account", "account_holder_name"), p.AccountHolderName)
	}
	if p.AccountHolderType != "" {
		v.Set(form.Key("bank_account", "account_holder_type"), p.AccountHolderType)
	}
}

// CreateToken converts card details into a single-use token.
// Tokenization uses the publishable key.
func (c *Client) CreateToken(ctx context.Context, card *CardParams) *Call[*Token] {
	if card == nil {
		return failed[*Token](c, ErrNilParams)
	}

	v := form.New()
	card.encode(v)

	key, keyErr := c.publishable()
	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/tokens",
		Body:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeToken)
}

// CreateBankAccountToken converts bank account details into a
// single-use token. Tokenization uses the publishable key.
func (c *Client) CreateBankAccountToken(ctx context.Context, bank *BankAccountParams) *Call[*Token] {
	if bank == nil {
		return failed[*Token](c, ErrNilParams)
	}

	v := form.New()
	bank.encode(v)

	key, keyErr := c.publishable()
	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/tokens",
		Body:   v.Encode(),
	}
	return run(c, ctx, key, keyErr, req, decodeToken)
}

// decodeToken builds a Token from its attribute map.
func decodeToken(m map[string]any) (*Token, error) {
	id, err := requireID(m, "token")
	if err != nil {
		return nil, err
	}

	t := &Token{ID: id}
	t.LiveMode, _ = boolField(m, "livemode")
	t.Created, _ = timeField(m, "created")
	t.Used, _ = boolField(m, "used")

	if cardMap, ok := mapField(m, "card"); ok {
		card, err := decodeCard(cardMap)
		if err != nil {
			return nil, err
		}
		t.Card = card
	}
	if bankMap, ok := mapField(m, "bank_account"); ok {
		bank := &BankAccount{}
		bank.ID, _ = stringField(bankMap, "id")
		bank.BankName, _ = stringField(bankMap, "bank_name")
		bank.Country, _ = stringField(bankMap, "country")
		bank.Currency, _ = stringField(bankMap, "currency")
		bank.Last4, _ = stringField(bankMap, "last4")
		t.Bank = bank
	}

	return t, nil
}
