package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"car-rental-platform/internal/core/domain"
)

// PaymentClient forwards payment initiation to the payment service and hands
// the approval URL back to the reservation core. It implements the
// PaymentGateway port.
type PaymentClient struct {
	client  *http.Client
	baseURL string
}

func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *PaymentClient) InitiatePayment(ctx context.Context, paymentReq domain.PaymentRequest) (string, error) {
	body, err := json.Marshal(paymentReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/payments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment service returned unexpected status: %s", resp.Status)
	}

	var out struct {
		ApprovalURL string `json:"approval_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode payment service response: %w", err)
	}
	return out.ApprovalURL, nil
}
