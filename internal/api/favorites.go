package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Favorites fetches the user's liked products.
func (c *Client) Favorites(ctx context.Context) ([]model.Product, error) {
	var items []model.Product
	if err := c.do(ctx, http.MethodGet, "/user/favorites", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type likedResponse struct {
	IsLiked bool `json:"isLiked"`
}

// FavoriteStatus reports whether the product is currently liked.
func (c *Client) FavoriteStatus(ctx context.Context, productID int64) (bool, error) {
	var resp likedResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/favorites/status/%d", productID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsLiked, nil
}

// AddFavorite likes a product.
func (c *Client) AddFavorite(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/user/favorites/%d", productID), nil, nil)
}

// RemoveFavorite unlikes a product.
func (c *Client) RemoveFavorite(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/favorites/%d", productID), nil, nil)
}
