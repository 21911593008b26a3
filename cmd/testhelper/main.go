package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	stripe "github.com/ojingolabs/stripe-go"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: testhelper <command> [args]")
	}

	// Load .env if present; missing is fine.
	godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	opts := []stripe.Option{
		stripe.WithPublishableKey(os.Getenv("STRIPE_PUBLISHABLE_KEY")),
		stripe.WithSecretKey(os.Getenv("STRIPE_SECRET_KEY")),
	}
	if url := os.Getenv("STRIPE_API_URL"); url != "" {
		opts = append(opts, stripe.WithBaseURL(url))
	}

	client, err := stripe.New(opts...)
	if err != nil {
		fatal("create client: %v", err)
	}

	switch os.Args[1] {
	case "create-token":
		createToken(ctx, client)
	case "create-customer":
		if len(os.Args) < 3 {
			fatal("usage: testhelper create-customer <email>")
		}
		createCustomer(ctx, client, os.Args[2])
	case "list-products":
		listProducts(ctx, client)
	case "retrieve-order":
		if len(os.Args) < 3 {
			fatal("usage: testhelper retrieve-order <order-id>")
		}
		retrieveOrder(ctx, client, os.Args[2])
	default:
		fatal("unknown command: %s", os.Args[1])
	}
}

// createToken tokenizes the standard test card and prints the token id.
func createToken(ctx context.Context, client *stripe.Client) {
	tok, err := client.CreateToken(ctx, &stripe.CardParams{
		Number:   "4242424242424242",
		ExpMonth: 12,
		ExpYear:  time.Now().Year() + 2,
		CVC:      "123",
	}).Wait(ctx)
	if err != nil {
		fatal("create token: %v", err)
	}

	out := map[string]any{"id": tok.ID}
	if tok.Card != nil {
		out["brand"] = tok.Card.Brand
		out["last4"] = tok.Card.Last4
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

func createCustomer(ctx context.Context, client *stripe.Client, email string) {
	cu, err := client.CreateCustomer(ctx, email, nil, nil).Wait(ctx)
	if err != nil {
		fatal("create customer: %v", err)
	}

	json.NewEncoder(os.Stdout).Encode(map[string]string{
		"id":    cu.ID,
		"email": cu.Email,
	})
}

type productOutput struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Active   bool     `json:"active"`
	SkuCount int      `json:"skuCount"`
	Images   []string `json:"images,omitempty"`
}

func listProducts(ctx context.Context, client *stripe.Client) {
	list, err := client.ListProducts(ctx, "", &stripe.ListParams{Limit: 25}).Wait(ctx)
	if err != nil {
		fatal("list products: %v", err)
	}

	output := struct {
		Products []productOutput `json:"products"`
		HasMore  bool            `json:"hasMore"`
	}{
		Products: make([]productOutput, 0, len(list.Products)),
		HasMore:  list.HasMore,
	}
	for _, p := range list.Products {
		output.Products = append(output.Products, productOutput{
			ID:       p.ID,
			Name:     p.Name,
			Active:   p.Active,
			SkuCount: len(p.Skus),
			Images:   p.Images,
		})
	}

	if err := json.NewEncoder(os.Stdout).Encode(output); err != nil {
		fatal("encode output: %v", err)
	}
}

func retrieveOrder(ctx context.Context, client *stripe.Client, orderID string) {
	order, err := client.RetrieveOrder(ctx, "", orderID).Wait(ctx)
	if err != nil {
		fatal("retrieve order: %v", err)
	}

	json.NewEncoder(os.Stdout).Encode(map[string]any{
		"id":       order.ID,
		"status":   string(order.Status),
		"amount":   order.Amount,
		"currency": order.Currency,
		"items":    len(order.Items),
	})
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
