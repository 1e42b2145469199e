// Package shipping is a thin client for the external shipment-tracking
// collaborator. The wallet core never calls it directly; shipments are
// created as a deferred side effect of an order becoming paid, via the
// outbox worker.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ShipmentRequest struct {
	OrderID       uint   `json:"order_id"`
	TenantID      uint   `json:"tenant_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	RecipientName string `json:"recipient_name"`
	Address       string `json:"address"`
}

type Shipment struct {
	TrackingID string `json:"tracking_id"`
	Status     string `json:"status"`
}

type Client interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error)
}

// HTTPClient posts shipment requests to the carrier integration service.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/shipments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("shipping api: %d %s", resp.StatusCode, string(respBody))
	}
	var out Shipment
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StubClient fakes shipment creation for development.
type StubClient struct{}

func (s *StubClient) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	return &Shipment{TrackingID: fmt.Sprintf("stub-track-%d", req.OrderID), Status: "created"}, nil
}
