package api

import (
	"context"
	"net/http"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       int64    `json:"id"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Token    string   `json:"token"`
}

// Login authenticates and returns the user record plus the bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return model.User{}, "", err
	}
	u := model.User{ID: resp.ID, FullName: resp.FullName, Email: resp.Email, Roles: resp.Roles}
	return u, resp.Token, nil
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and returns the backend's confirmation message.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{FullName: fullName, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
