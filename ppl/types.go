package ppl

import "time"

// Address identifies a sender or recipient.
type Address struct {
	Name    string `json:"name"`
	Name2   string `json:"name2,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Contact string `json:"contact,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CashOnDelivery carries COD collection details for a shipment.
type CashOnDelivery struct {
	Price          float64 `json:"codPrice"`
	Currency       string  `json:"codCurrency"`
	VariableSymbol string  `json:"codVarSym,omitempty"`
}

// Shipment describes one package in a batch request.
type Shipment struct {
	// ReferenceID is the caller's identifier for the package.
	// CreateShipments fills in a UUID when left empty.
	ReferenceID string `json:"referenceId"`

	// ProductType is the PPL product code, e.g. "BUSS" or "CONN".
	ProductType string `json:"productType"`

	Note           string          `json:"note,omitempty"`
	Depot          string          `json:"depot,omitempty"`
	Sender         *Address        `json:"sender,omitempty"`
	Recipient      Address         `json:"recipient"`
	CashOnDelivery *CashOnDelivery `json:"cashOnDelivery,omitempty"`
	WeightKg       float64         `json:"weight,omitempty"`
}

// LabelSettings controls the label format returned for a batch.
type LabelSettings struct {
	Format string `json:"format"` // "Pdf" or "Zpl"
	DPI    int    `json:"dpi,omitempty"`
}

// ShipmentBatchRequest is the payload of the shipment batch endpoint.
type ShipmentBatchRequest struct {
	Shipments     []Shipment     `json:"shipments"`
	LabelSettings *LabelSettings `json:"labelSettings,omitempty"`
}

// Import states reported per batch item.
const (
	ImportStateInProcess = "InProcess"
	ImportStateComplete  = "Complete"
	ImportStateError     = "Error"
)

// BatchItem is the per-shipment result inside a batch.
type BatchItem struct {
	ReferenceID    string `json:"referenceId"`
	ShipmentNumber string `json:"shipmentNumber"`
	ImportState    string `json:"importState"`
	LabelURL       string `json:"labelUrl,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// ShipmentBatch is the state of a previously created batch.
type ShipmentBatch struct {
	Items []BatchItem `json:"items"`
}

// Complete reports whether every item finished importing, successfully or not.
func (b *ShipmentBatch) Complete() bool {
	for _, item := range b.Items {
		if item.ImportState == ImportStateInProcess {
			return false
		}
	}
	return true
}

// TrackingEvent is one scan in a package's history.
type TrackingEvent struct {
	Time time.Time `json:"dateTime"`
	Code string    `json:"code,omitempty"`
	Name string    `json:"name,omitempty"`
}

// PackageTracking is the tracking history of one shipment number.
type PackageTracking struct {
	ShipmentNumber string          `json:"shipmentNumber"`
	Events         []TrackingEvent `json:"events"`
}
