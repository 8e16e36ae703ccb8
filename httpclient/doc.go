// Package httpclient constructs HTTP clients that authenticate against the PPL API.
//
// The fluent Builder produces an http.Client whose transport injects Bearer
// tokens from an oauth2client.TokenManager, with configurable TLS (custom CA,
// mTLS, insecure for tests), timeouts, base transports, and redirect handling.
// BearerTransport can also wrap any RoundTripper directly.
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithClientCredentials(ctx,
//	        "https://api.dhl.com/ecs/ppl/myapi2/login/getAccessToken",
//	        "client-id",
//	        "client-secret",
//	        "myapi2",
//	    ).
//	    WithTimeout(60 * time.Second).
//	    WithoutRedirects().
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://api.dhl.com/ecs/ppl/myapi2/codelist/country")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewBearerTransport(tm, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided TokenManager is.
package httpclient
