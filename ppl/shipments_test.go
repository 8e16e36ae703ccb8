package ppl_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/OndrejVasicek/go-ppl-myapi/ppl"
	"github.com/OndrejVasicek/go-ppl-myapi/testutil"
)

func TestClient_CreateShipments(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	batch, err := client.CreateShipments(context.Background(), ppl.ShipmentBatchRequest{
		Shipments: []ppl.Shipment{{
			ReferenceID: "order-42",
			ProductType: "BUSS",
			Recipient: ppl.Address{
				Name: "Jana Nováková", Street: "Technická 15",
				City: "Praha", ZipCode: "16000", Country: "CZ",
			},
		}},
	})
	if err != nil {
		t.Fatalf("CreateShipments failed: %v", err)
	}

	// The Location header comes back relativized against the base URL.
	if !strings.HasPrefix(batch, "shipment/batch/") {
		t.Errorf("batch path = %q, want relative shipment/batch/... path", batch)
	}

	id := strings.TrimPrefix(batch, "shipment/batch/")
	shipments, ok := fake.Batch(id)
	if !ok {
		t.Fatalf("batch %q not recorded by fake", id)
	}
	if len(shipments) != 1 || shipments[0].ReferenceID != "order-42" {
		t.Errorf("unexpected recorded shipments: %+v", shipments)
	}
}

func TestClient_CreateShipments_DefaultsReferenceID(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	batch, err := client.CreateShipments(context.Background(), ppl.ShipmentBatchRequest{
		Shipments: []ppl.Shipment{{ProductType: "BUSS"}},
	})
	if err != nil {
		t.Fatalf("CreateShipments failed: %v", err)
	}

	id := strings.TrimPrefix(batch, "shipment/batch/")
	shipments, ok := fake.Batch(id)
	if !ok {
		t.Fatalf("batch %q not recorded by fake", id)
	}
	if shipments[0].ReferenceID == "" {
		t.Error("expected a generated reference ID")
	}
}

func TestClient_CreateShipments_RequiresShipments(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	if _, err := client.CreateShipments(context.Background(), ppl.ShipmentBatchRequest{}); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestClient_GetShipmentBatch(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)
	ctx := context.Background()

	batch, err := client.CreateShipments(ctx, ppl.ShipmentBatchRequest{
		Shipments: []ppl.Shipment{
			{ReferenceID: "a", ProductType: "BUSS"},
			{ReferenceID: "b", ProductType: "BUSS"},
		},
	})
	if err != nil {
		t.Fatalf("CreateShipments failed: %v", err)
	}

	state, err := client.GetShipmentBatch(ctx, batch)
	if err != nil {
		t.Fatalf("GetShipmentBatch failed: %v", err)
	}
	if len(state.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(state.Items))
	}
	if !state.Complete() {
		t.Error("fake batches are immediately complete")
	}
	for _, item := range state.Items {
		if item.ShipmentNumber == "" {
			t.Error("expected shipment numbers to be assigned")
		}
		if item.LabelURL == "" {
			t.Error("expected label URLs to be assigned")
		}
	}
}

func TestShipmentBatch_Complete(t *testing.T) {
	tests := []struct {
		name  string
		batch ppl.ShipmentBatch
		want  bool
	}{
		{"empty", ppl.ShipmentBatch{}, true},
		{"all complete", ppl.ShipmentBatch{Items: []ppl.BatchItem{
			{ImportState: ppl.ImportStateComplete},
			{ImportState: ppl.ImportStateError},
		}}, true},
		{"one pending", ppl.ShipmentBatch{Items: []ppl.BatchItem{
			{ImportState: ppl.ImportStateComplete},
			{ImportState: ppl.ImportStateInProcess},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.batch.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_GetShipmentBatch_UnknownBatch(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	_, err := client.GetShipmentBatch(context.Background(), "shipment/batch/nope")
	if err == nil {
		t.Fatal("expected error for unknown batch")
	}

	var apiErr *ppl.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestClient_GetLabel(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)
	ctx := context.Background()

	batch, err := client.CreateShipments(ctx, ppl.ShipmentBatchRequest{
		Shipments: []ppl.Shipment{{ReferenceID: "a", ProductType: "BUSS"}},
	})
	if err != nil {
		t.Fatalf("CreateShipments failed: %v", err)
	}

	state, err := client.GetShipmentBatch(ctx, batch)
	if err != nil {
		t.Fatalf("GetShipmentBatch failed: %v", err)
	}

	// LabelURL is absolute; GetLabel relativizes it internally.
	label, err := client.GetLabel(ctx, state.Items[0].LabelURL)
	if err != nil {
		t.Fatalf("GetLabel failed: %v", err)
	}
	if !strings.HasPrefix(string(label), "%PDF") {
		t.Errorf("expected PDF bytes, got %q", label)
	}
}

func TestClient_GetLabel_RequiresURL(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	if _, err := client.GetLabel(context.Background(), ""); err == nil {
		t.Error("expected error for empty label URL")
	}
}

func TestClient_TrackPackages(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	tracking, err := client.TrackPackages(context.Background(), []string{"nr-1", "nr-2"})
	if err != nil {
		t.Fatalf("TrackPackages failed: %v", err)
	}
	if len(tracking) != 2 {
		t.Fatalf("expected 2 tracked packages, got %d", len(tracking))
	}
	if tracking[0].ShipmentNumber != "nr-1" || tracking[1].ShipmentNumber != "nr-2" {
		t.Errorf("unexpected order: %+v", tracking)
	}
	if len(tracking[0].Events) == 0 {
		t.Error("expected tracking events")
	}
}

func TestClient_TrackPackages_RequiresNumbers(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	if _, err := client.TrackPackages(context.Background(), nil); err == nil {
		t.Error("expected error for missing shipment numbers")
	}
}

func TestClient_CancelShipment(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	if err := client.CancelShipment(context.Background(), "nr-7"); err != nil {
		t.Fatalf("CancelShipment failed: %v", err)
	}

	cancelled := fake.CancelledShipments()
	if len(cancelled) != 1 || cancelled[0] != "nr-7" {
		t.Errorf("unexpected cancelled list: %v", cancelled)
	}
}

func TestClient_CancelShipment_RequiresNumber(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	if err := client.CancelShipment(context.Background(), ""); err == nil {
		t.Error("expected error for empty shipment number")
	}
}

func TestAPIError_Message(t *testing.T) {
	withBody := &ppl.APIError{StatusCode: 400, Body: []byte(`{"error":"bad"}`)}
	if !strings.Contains(withBody.Error(), "400") || !strings.Contains(withBody.Error(), "bad") {
		t.Errorf("unexpected message: %s", withBody.Error())
	}

	withoutBody := &ppl.APIError{StatusCode: 502}
	if !strings.Contains(withoutBody.Error(), "502") {
		t.Errorf("unexpected message: %s", withoutBody.Error())
	}
}
