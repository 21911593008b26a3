// Package stripe provides a Go client SDK for the payments API:
// payment-instrument tokenization, customer management, and
// order/product/SKU management.
//
// Every operation returns immediately with a Call carrying the eventual
// result; the request runs on its own goroutine and completes exactly
// once.
//
// Basic usage:
//
//	client, err := stripe.New(
//	    stripe.WithPublishableKey("pk_test_..."),
//	    stripe.WithSecretKey("sk_test_..."),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	call := client.CreateToken(ctx, &stripe.CardParams{
//	    Number:   "4242424242424242",
//	    ExpMonth: 12,
//	    ExpYear:  2030,
//	    CVC:      "123",
//	})
//	token, err := call.Wait(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Token:", token.ID)
package stripe
