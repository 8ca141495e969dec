package api

import (
	"context"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Addresses fetches the user's saved shipping addresses.
func (c *Client) Addresses(ctx context.Context) ([]model.Address, error) {
	var out []model.Address
	if err := c.do(ctx, http.MethodGet, "/user/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type addressListResponse struct {
	Addresses []model.Address `json:"addresses"`
}

// CreateAddress stores a new address; the backend answers with the full
// updated list so the caller can re-select.
func (c *Client) CreateAddress(ctx context.Context, a model.NewAddress) ([]model.Address, error) {
	var resp addressListResponse
	if err := c.do(ctx, http.MethodPost, "/user/addresses", a, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// Payments fetches the user's saved payment methods.
func (c *Client) Payments(ctx context.Context) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/user/payments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type paymentListResponse struct {
	Payments []model.PaymentMethod `json:"payments"`
}

// CreatePayment stores a new payment method; same full-list protocol as
// CreateAddress. The raw card data exists only in the request payload.
func (c *Client) CreatePayment(ctx context.Context, p model.NewPayment) ([]model.PaymentMethod, error) {
	var resp paymentListResponse
	if err := c.do(ctx, http.MethodPost, "/user/payments", p, &resp); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}
