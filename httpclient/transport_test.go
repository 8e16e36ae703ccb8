package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/OndrejVasicek/go-ppl-myapi/internal/testutil"
	"github.com/OndrejVasicek/go-ppl-myapi/oauth2client"
)

func newMockOAuth2Server(tb testing.TB) *testutil.MockOAuth2Server {
	tb.Helper()

	return testutil.NewMockOAuth2Server(tb, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/token" {
			tb.Fatalf("unexpected token path: %s", req.URL.Path)
		}
		if req.Method != http.MethodPost {
			tb.Fatalf("unexpected token method: %s", req.Method)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body: io.NopCloser(strings.NewReader(`{
			"access_token": "mock-access-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`)),
			Request: req,
		}, nil
	})
}

func TestNewBearerTransport(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := oauth2client.NewTokenManager(authServer.Ctx, authServer.URL+"/token", "client", "secret", "myapi2")

	transport := NewBearerTransport(tm, nil)
	if transport.TokenManager != tm {
		t.Error("TokenManager not set correctly")
	}
	if transport.Base == nil {
		t.Error("Base should default to a transport")
	}

	custom := &http.Transport{}
	if got := NewBearerTransport(tm, custom); got.Base != custom {
		t.Error("Base should be set to custom transport")
	}
}

func TestBearerTransport_RoundTrip(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := oauth2client.NewTokenManager(authServer.Ctx, authServer.URL+"/token", "client", "secret", "myapi2")

	base := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		auth := req.Header.Get("Authorization")
		if auth != "Bearer mock-access-token" {
			t.Errorf("unexpected Authorization header: %q", auth)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("success")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewBearerTransport(tm, base)}

	resp, err := client.Get("https://api.example.com")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func TestBearerTransport_DoesNotMutateOriginalRequest(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := oauth2client.NewTokenManager(authServer.Ctx, authServer.URL+"/token", "client", "secret", "myapi2")

	base := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	transport := NewBearerTransport(tm, base)
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("original request was mutated, Authorization = %q", got)
	}
}

func TestBearerTransport_NilTokenManager(t *testing.T) {
	transport := &BearerTransport{}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	if _, err := transport.RoundTrip(req); err == nil {
		t.Error("expected error for nil TokenManager")
	}
}

func TestBearerTransport_TokenFetchError(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("token fetch failed")
	})
	defer authServer.Close()

	tm := oauth2client.NewTokenManager(authServer.Ctx, authServer.URL+"/token", "client", "secret", "myapi2")

	base := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Error("base transport should not be called when token fetch fails")
		return nil, nil
	})

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	if _, err := NewBearerTransport(tm, base).RoundTrip(req); err == nil {
		t.Error("expected error when token fetch fails")
	}
}
