// Package testutil provides a fake PPL myAPI2 server for tests.
//
// FakeAPI implements the token endpoint and the shipment batch, label,
// tracking and cancel routes with canned payloads. It is used by this
// module's own tests and is exported so SDK consumers can test their
// integration without touching the real API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	itestutil "github.com/OndrejVasicek/go-ppl-myapi/internal/testutil"
	"github.com/OndrejVasicek/go-ppl-myapi/ppl"
)

// FakeAPI is an in-process PPL myAPI2 double backed by httptest.
//
// Every API route requires "Authorization: Bearer <AccessToken>" and answers
// 401 otherwise, so tests exercise the real token flow. The zero batch
// starts empty; each CreateShipments call adds one batch whose items are
// immediately Complete with a label URL.
type FakeAPI struct {
	Server *httptest.Server

	// AccessToken is the token the fake endpoint hands out and expects
	// back. ExpiresIn is the advertised token lifetime in seconds.
	AccessToken string
	ExpiresIn   int

	mu            sync.Mutex
	tokenRequests int
	batchSeq      int
	batches       map[string][]ppl.Shipment
	cancelled     []string
}

// NewFakeAPI starts a fake server and registers its shutdown with tb.
func NewFakeAPI(tb testing.TB) *FakeAPI {
	tb.Helper()

	f := &FakeAPI{
		AccessToken: "fake-access-token",
		ExpiresIn:   3600,
		batches:     make(map[string][]ppl.Shipment),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/getAccessToken", f.handleToken)
	mux.HandleFunc("POST /shipment/batch", f.authenticated(f.handleCreateBatch))
	mux.HandleFunc("GET /shipment/batch/{id}", f.authenticated(f.handleGetBatch))
	mux.HandleFunc("GET /label/{id}", f.authenticated(f.handleLabel))
	mux.HandleFunc("GET /shipment", f.authenticated(f.handleTracking))
	mux.HandleFunc("POST /shipment/{number}/cancel", f.authenticated(f.handleCancel))

	f.Server = itestutil.NewLocalHTTPServer(tb, mux)
	tb.Cleanup(f.Server.Close)

	return f
}

// Environment returns a ppl.Environment pointing at the fake server,
// suitable for ppl.Config.Environment.
func (f *FakeAPI) Environment() *ppl.Environment {
	return &ppl.Environment{
		Name:     "fake",
		TokenURL: f.Server.URL + "/login/getAccessToken",
		BaseURL:  f.Server.URL + "/",
	}
}

// TokenRequests reports how many token exchanges the fake has served.
func (f *FakeAPI) TokenRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenRequests
}

// CancelledShipments returns the shipment numbers cancelled so far.
func (f *FakeAPI) CancelledShipments() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cancelled...)
}

// Batch returns the shipments submitted under the given batch id.
func (f *FakeAPI) Batch(id string) ([]ppl.Shipment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	shipments, ok := f.batches[id]
	return shipments, ok
}

func (f *FakeAPI) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.AccessToken {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) handleToken(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.tokenRequests++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": f.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   f.ExpiresIn,
	})
}

func (f *FakeAPI) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != ppl.ContentType {
		http.Error(w, fmt.Sprintf(`{"error":"unexpected content type %s"}`, ct), http.StatusUnsupportedMediaType)
		return
	}

	var req ppl.ShipmentBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Shipments) == 0 {
		http.Error(w, `{"error":"invalid batch"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.batchSeq++
	id := fmt.Sprintf("batch-%d", f.batchSeq)
	f.batches[id] = req.Shipments
	f.mu.Unlock()

	w.Header().Set("Location", f.Server.URL+"/shipment/batch/"+id)
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeAPI) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	shipments, ok := f.batches[id]
	f.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"unknown batch"}`, http.StatusNotFound)
		return
	}

	batch := ppl.ShipmentBatch{}
	for i, shipment := range shipments {
		batch.Items = append(batch.Items, ppl.BatchItem{
			ReferenceID:    shipment.ReferenceID,
			ShipmentNumber: fmt.Sprintf("%s-nr-%d", id, i+1),
			ImportState:    ppl.ImportStateComplete,
			LabelURL:       fmt.Sprintf("%s/label/%s-%d.pdf", f.Server.URL, id, i+1),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(batch)
}

func (f *FakeAPI) handleLabel(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write([]byte("%PDF-1.4 fake label"))
}

func (f *FakeAPI) handleTracking(w http.ResponseWriter, r *http.Request) {
	numbers := r.URL.Query()["ShipmentNumbers"]
	if len(numbers) == 0 {
		http.Error(w, `{"error":"missing ShipmentNumbers"}`, http.StatusBadRequest)
		return
	}

	var items []ppl.PackageTracking
	for _, number := range numbers {
		items = append(items, ppl.PackageTracking{
			ShipmentNumber: number,
			Events: []ppl.TrackingEvent{
				{Time: time.Now().Add(-2 * time.Hour).Truncate(time.Second), Code: "ACC", Name: "Accepted at depot"},
				{Time: time.Now().Truncate(time.Second), Code: "DEL", Name: "Out for delivery"},
			},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (f *FakeAPI) handleCancel(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.PathValue("number"))
	if number == "" {
		http.Error(w, `{"error":"missing shipment number"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.cancelled = append(f.cancelled, number)
	f.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
