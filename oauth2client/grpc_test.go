package oauth2client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/OndrejVasicek/go-ppl-myapi/internal/testutil"
)

func TestTokenManager_UnaryClientInterceptor(t *testing.T) {
	server := newMockOAuth2Server(t)
	defer server.Close()

	tm := NewTokenManager(server.Ctx, server.URL+"/token", "client", "secret", "myapi2")
	interceptor := tm.UnaryClientInterceptor()

	called := false
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		called = true

		md, ok := metadata.FromOutgoingContext(ctx)
		if !ok {
			t.Error("metadata not found in context")
			return nil
		}
		auth := md.Get("authorization")
		if len(auth) == 0 {
			t.Error("authorization header not found")
			return nil
		}
		if !strings.HasPrefix(auth[0], "Bearer ") {
			t.Errorf("expected Bearer token, got: %s", auth[0])
		}
		return nil
	}

	if err := interceptor(server.Ctx, "/ppl.Shipments/Create", nil, nil, nil, invoker); err != nil {
		t.Errorf("interceptor failed: %v", err)
	}
	if !called {
		t.Error("invoker was not called")
	}
}

func TestTokenManager_StreamClientInterceptor(t *testing.T) {
	server := newMockOAuth2Server(t)
	defer server.Close()

	tm := NewTokenManager(server.Ctx, server.URL+"/token", "client", "secret", "myapi2")
	interceptor := tm.StreamClientInterceptor()

	called := false
	streamer := func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		called = true

		md, ok := metadata.FromOutgoingContext(ctx)
		if !ok {
			t.Error("metadata not found in context")
			return nil, nil
		}
		auth := md.Get("authorization")
		if len(auth) == 0 || !strings.HasPrefix(auth[0], "Bearer ") {
			t.Errorf("expected Bearer token in metadata, got: %v", auth)
		}
		return nil, nil
	}

	if _, err := interceptor(server.Ctx, &grpc.StreamDesc{}, nil, "/ppl.Shipments/Track", streamer); err != nil {
		t.Errorf("interceptor failed: %v", err)
	}
	if !called {
		t.Error("streamer was not called")
	}
}

func TestTokenManager_Interceptor_TokenFetchError(t *testing.T) {
	server := testutil.NewMockOAuth2Server(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("token fetch failed")
	})
	defer server.Close()

	tm := NewTokenManager(server.Ctx, server.URL+"/token", "client", "secret", "myapi2")

	err := tm.UnaryClientInterceptor()(server.Ctx, "/test", nil, nil, nil,
		func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
			t.Error("invoker should not be called when token fetch fails")
			return nil
		})
	if err == nil {
		t.Error("expected error from unary interceptor, got nil")
	}

	_, err = tm.StreamClientInterceptor()(server.Ctx, &grpc.StreamDesc{}, nil, "/test",
		func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			t.Error("streamer should not be called when token fetch fails")
			return nil, nil
		})
	if err == nil {
		t.Error("expected error from stream interceptor, got nil")
	}
}
