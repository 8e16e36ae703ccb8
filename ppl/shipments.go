package ppl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CreateShipments submits a shipment batch and returns the relative batch
// path (e.g. "shipment/batch/4f9e...") to poll with GetShipmentBatch.
// Shipments without a ReferenceID are assigned a generated UUID in place.
func (c *Client) CreateShipments(ctx context.Context, req ShipmentBatchRequest) (string, error) {
	if len(req.Shipments) == 0 {
		return "", errors.New("ppl: at least one shipment is required")
	}
	for i := range req.Shipments {
		if req.Shipments[i].ReferenceID == "" {
			req.Shipments[i].ReferenceID = uuid.NewString()
		}
	}

	resp, err := c.Do(ctx, http.MethodPost, "shipment/batch", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", err
	}

	batch := c.Location(resp)
	if batch == "" {
		return "", errors.New("ppl: batch response carries no Location header")
	}
	return batch, nil
}

// GetShipmentBatch returns the state of a batch created by CreateShipments.
// The batch argument is the relative path CreateShipments returned.
func (c *Client) GetShipmentBatch(ctx context.Context, batch string) (*ShipmentBatch, error) {
	resp, err := c.Do(ctx, http.MethodGet, batch, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var result ShipmentBatch
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ppl: decode batch response: %w", err)
	}
	return &result, nil
}

// GetLabel downloads the label referenced by a BatchItem's LabelURL.
// Absolute URLs under the environment base are accepted.
func (c *Client) GetLabel(ctx context.Context, labelURL string) ([]byte, error) {
	if labelURL == "" {
		return nil, errors.New("ppl: label URL is empty")
	}

	resp, err := c.Do(ctx, http.MethodGet, c.RelativizeURL(labelURL), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	label, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ppl: read label: %w", err)
	}
	return label, nil
}

// TrackPackages returns the tracking history of the given shipment numbers.
func (c *Client) TrackPackages(ctx context.Context, shipmentNumbers []string) ([]PackageTracking, error) {
	if len(shipmentNumbers) == 0 {
		return nil, errors.New("ppl: at least one shipment number is required")
	}

	query := url.Values{}
	for _, number := range shipmentNumbers {
		query.Add("ShipmentNumbers", number)
	}

	resp, err := c.Do(ctx, http.MethodGet, "shipment?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var result struct {
		Items []PackageTracking `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ppl: decode tracking response: %w", err)
	}
	return result.Items, nil
}

// CancelShipment cancels a shipment that has not been handed to PPL yet.
func (c *Client) CancelShipment(ctx context.Context, shipmentNumber string) error {
	if shipmentNumber == "" {
		return errors.New("ppl: shipment number is required")
	}

	resp, err := c.Do(ctx, http.MethodPost, "shipment/"+url.PathEscape(shipmentNumber)+"/cancel", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkResponse(resp)
}
