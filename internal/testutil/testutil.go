package testutil

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// StaticJSONResponse returns a RoundTripper answering every request with 200
// and the given JSON body.
func StaticJSONResponse(body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	return server
}

// MockOAuth2Server fakes a token endpoint without opening a socket. Requests
// holds every request the mock transport saw, in order, so tests can count
// exchanges.
type MockOAuth2Server struct {
	URL      string
	Ctx      context.Context
	Requests []*http.Request
}

// NewMockOAuth2Server installs an in-memory transport in place of
// http.DefaultTransport and http.DefaultClient for the duration of the test.
// A nil handler serves a token valid for an hour. Token managers must be
// built with the returned Ctx, which routes the x/oauth2 exchange through
// the mock transport.
func NewMockOAuth2Server(tb testing.TB, handler RoundTripFunc) *MockOAuth2Server {
	tb.Helper()

	if handler == nil {
		handler = StaticJSONResponse(`{
			"access_token": "mock-access-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`)
	}

	mock := &MockOAuth2Server{URL: "https://login.mock.invalid"}
	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		mock.Requests = append(mock.Requests, req)
		return handler(req)
	})

	prevTransport, prevClient := http.DefaultTransport, http.DefaultClient
	http.DefaultTransport = rt
	http.DefaultClient = &http.Client{Transport: rt}
	tb.Cleanup(func() {
		http.DefaultTransport = prevTransport
		http.DefaultClient = prevClient
	})

	mock.Ctx = context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: rt})
	return mock
}

// Close is a no-op to mirror httptest.Server usage in tests.
func (m *MockOAuth2Server) Close() {}

// WriteTestCACert writes a self-signed CA certificate PEM to path.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	key := newTestKey(tb)
	der := signTestCert(tb, &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "fakeapi-test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}, key)

	writePEM(tb, path, "CERTIFICATE", der)
}

// WriteTestCertAndKey writes a self-signed leaf certificate and its RSA key,
// usable for both client and server auth in mTLS tests.
func WriteTestCertAndKey(tb testing.TB, certPath, keyPath string) {
	tb.Helper()

	key := newTestKey(tb)
	der := signTestCert(tb, &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "fakeapi-test-leaf"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}, key)

	writePEM(tb, certPath, "CERTIFICATE", der)
	writePEM(tb, keyPath, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))
}

func newTestKey(tb testing.TB) *rsa.PrivateKey {
	tb.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func signTestCert(tb testing.TB, template *x509.Certificate, key *rsa.PrivateKey) []byte {
	tb.Helper()
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		tb.Fatalf("failed to create certificate: %v", err)
	}
	return der
}

func writePEM(tb testing.TB, path, blockType string, der []byte) {
	tb.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("failed to write %s: %v", path, err)
	}
}
