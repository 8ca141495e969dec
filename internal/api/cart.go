package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Cart fetches the server-side cart contents for the authenticated user.
func (c *Client) Cart(ctx context.Context) ([]model.Product, error) {
	var items []model.Product
	if err := c.do(ctx, http.MethodGet, "/user/cart", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type countResponse struct {
	Count int `json:"count"`
}

// CartCount fetches the badge count.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.do(ctx, http.MethodGet, "/user/cart/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

type addedResponse struct {
	IsAdded bool `json:"isAdded"`
}

// AddToCart adds a product. added=false means it was already in the cart;
// that is an outcome, not an error.
func (c *Client) AddToCart(ctx context.Context, productID int64) (added bool, err error) {
	var resp addedResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/user/cart/%d", productID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsAdded, nil
}

type removedResponse struct {
	IsRemoved bool `json:"isRemoved"`
}

// RemoveFromCart removes a product. removed=false means the backend did not
// have the item; callers must treat that as a failed mutation.
func (c *Client) RemoveFromCart(ctx context.Context, productID int64) (removed bool, err error) {
	var resp removedResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/cart/%d", productID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsRemoved, nil
}

type clearedResponse struct {
	IsCleared bool `json:"isCleared"`
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) (cleared bool, err error) {
	var resp clearedResponse
	if err := c.do(ctx, http.MethodDelete, "/user/cart", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsCleared, nil
}
