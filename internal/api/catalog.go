package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Products fetches the catalog listing. Works anonymously.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductByID fetches one catalog record.
func (c *Client) ProductByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}
