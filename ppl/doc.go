// Package ppl is a client for the PPL CZ myAPI2 shipping API.
//
// A Client authenticates with OAuth2 client credentials (handled by
// oauth2client.TokenManager behind an httpclient.BearerTransport), targets
// either the production or the test deployment, and exposes both a generic
// request surface (Do, DoJSON, Header, RelativizeURL) and typed shipment
// operations (CreateShipments, GetShipmentBatch, GetLabel, TrackPackages,
// CancelShipment).
//
// # Quick Start
//
//	client, err := ppl.NewClient(ctx, ppl.Config{
//	    ClientID:     os.Getenv("PPL_CLIENT_ID"),
//	    ClientSecret: os.Getenv("PPL_CLIENT_SECRET"),
//	    Production:   true,
//	    TokenStore:   tokenstore.NewMemory(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, err := client.CreateShipments(ctx, ppl.ShipmentBatchRequest{
//	    Shipments: []ppl.Shipment{{
//	        ProductType: "BUSS",
//	        Recipient: ppl.Address{
//	            Name: "Jana Nováková", Street: "Technická 15",
//	            City: "Praha", ZipCode: "16000", Country: "CZ",
//	        },
//	    }},
//	})
//
// # Error handling
//
// Do returns raw responses without status interpretation and propagates
// transport errors unmodified; there are no retries. The typed operations
// convert non-2xx statuses into *APIError. DoJSON deliberately swallows
// body decode failures: informational endpoints occasionally answer with an
// empty body, which callers observe as the zero value of their out struct.
package ppl
