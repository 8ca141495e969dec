package api

import (
	"context"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

type orderRequest struct {
	SelectedAddressID       int64 `json:"selectedAddressId"`
	SelectedPaymentMethodID int64 `json:"selectedPaymentMethodId"`
}

// PlaceOrder submits the order built from the server-side cart plus the two
// selected IDs. The backend owns pricing and fulfillment.
func (c *Client) PlaceOrder(ctx context.Context, addressID, paymentMethodID int64) (model.Order, error) {
	var o model.Order
	err := c.do(ctx, http.MethodPost, "/user/orders", orderRequest{
		SelectedAddressID:       addressID,
		SelectedPaymentMethodID: paymentMethodID,
	}, &o)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// Orders fetches the user's order history.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/user/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
