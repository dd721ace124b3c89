package parking

import (
	"context"

	"github.com/smartpark/parking-portal/internal/models"
)

// CreatePayment opens a payment order for a ticket's fee.
func (c *Client) CreatePayment(ctx context.Context, req models.PaymentRequest) (models.Payment, error) {
	var payment models.Payment
	if err := c.post(ctx, "/payments/create", nil, req, &payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

// VerifyPayment relays the gateway callback. The remote service owns the
// verification; the portal just forwards the fields.
func (c *Client) VerifyPayment(ctx context.Context, verification models.PaymentVerification) (models.Payment, error) {
	var payment models.Payment
	if err := c.post(ctx, "/payments/verify", nil, verification, &payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}
