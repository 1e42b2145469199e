package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	SandboxBaseURL    = "https://api-m.sandbox.paypal.com"
	ProductionBaseURL = "https://api-m.paypal.com"
)

// PayPalClient talks to the PayPal REST API: checkout orders for buyer
// payments and the Payouts API for vendor disbursements. Access tokens come
// from the client-credentials flow and are refreshed transparently.
type PayPalClient struct {
	BaseURL string
	client  *http.Client
}

func NewPayPalClient(baseURL, clientID, clientSecret string) *PayPalClient {
	if baseURL == "" {
		baseURL = SandboxBaseURL
	}
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
	}
	c := cc.Client(context.Background())
	c.Timeout = 30 * time.Second
	return &PayPalClient{BaseURL: baseURL, client: c}
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrderResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateOrder creates a CAPTURE-intent checkout order for the given items.
func (p *PayPalClient) CreateOrder(ctx context.Context, items []CheckoutItem, totalCents int64) (*CheckoutOrder, error) {
	type orderItem struct {
		Name       string       `json:"name"`
		UnitAmount paypalAmount `json:"unit_amount"`
		Quantity   string       `json:"quantity"`
	}
	reqItems := make([]orderItem, 0, len(items))
	for _, it := range items {
		reqItems = append(reqItems, orderItem{
			Name:       it.Name,
			UnitAmount: paypalAmount{CurrencyCode: "USD", Value: Dollars(it.PriceCents)},
			Quantity:   fmt.Sprintf("%d", it.Quantity),
		})
	}
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"amount": map[string]interface{}{
				"currency_code": "USD",
				"value":         Dollars(totalCents),
				"breakdown": map[string]interface{}{
					"item_total": paypalAmount{CurrencyCode: "USD", Value: Dollars(totalCents)},
				},
			},
			"items": reqItems,
		}},
		"application_context": map[string]interface{}{
			"brand_name":  "Obazaar Marketplace",
			"user_action": "PAY_NOW",
		},
	}
	var out paypalOrderResp
	if err := p.post(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := &CheckoutOrder{OrderID: out.ID, Status: out.Status, CreatedAt: time.Now()}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			order.ApprovalURL = l.Href
		}
	}
	return order, nil
}

type paypalCaptureResp struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder captures an approved checkout order.
func (p *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	var out paypalCaptureResp
	if err := p.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &out); err != nil {
		return nil, fmt.Errorf("capture order %s: %w", orderID, err)
	}
	res := &CaptureResult{OrderID: out.ID, Status: out.Status}
	if len(out.PurchaseUnits) > 0 && len(out.PurchaseUnits[0].Payments.Captures) > 0 {
		res.CaptureID = out.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return res, nil
}

type paypalPayoutResp struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
	Items []struct {
		PayoutItemID string `json:"payout_item_id"`
	} `json:"items"`
}

// SendPayout dispatches a single-item payout batch to recipientEmail.
// The sender batch id doubles as an idempotency key on the PayPal side.
func (p *PayPalClient) SendPayout(ctx context.Context, recipientEmail string, amountCents int64, note string) (*PayoutDispatch, error) {
	batchID := "payout-" + uuid.New().String()
	body := map[string]interface{}{
		"sender_batch_header": map[string]interface{}{
			"sender_batch_id": batchID,
			"email_subject":   "You have a payment from Obazaar Marketplace",
			"email_message":   "You have received a payment from Obazaar Marketplace. Thank you for your business!",
		},
		"items": []map[string]interface{}{{
			"recipient_type": "EMAIL",
			"amount":         paypalAmount{CurrencyCode: "USD", Value: Dollars(amountCents)},
			"receiver":       recipientEmail,
			"note":           note,
			"sender_item_id": "item-" + uuid.New().String(),
		}},
	}
	var out paypalPayoutResp
	if err := p.post(ctx, "/v1/payments/payouts", body, &out); err != nil {
		return nil, fmt.Errorf("send payout: %w", err)
	}
	d := &PayoutDispatch{
		BatchID:     out.BatchHeader.PayoutBatchID,
		BatchStatus: out.BatchHeader.BatchStatus,
	}
	if len(out.Items) > 0 {
		d.ItemID = out.Items[0].PayoutItemID
	}
	return d, nil
}

// PayoutBatchStatus fetches the current status of a payout batch.
func (p *PayPalClient) PayoutBatchStatus(ctx context.Context, batchID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/payments/payouts/"+batchID, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payout status: %d %s", resp.StatusCode, string(respBody))
	}
	var out paypalPayoutResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	return out.BatchHeader.BatchStatus, nil
}

func (p *PayPalClient) post(ctx context.Context, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[PayPal] POST %s status=%d body=%s", path, resp.StatusCode, string(respBody))
		return fmt.Errorf("paypal api: %d %s", resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}
	return nil
}
