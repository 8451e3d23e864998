package service

import (
	"context"
	"errors"
	"strings"

	"cinema-cli/model"
)

// Login exchanges credentials for a token, the user id and the role.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	if strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return model.LoginResponse{}, errors.New("name and password are required")
	}
	var res model.LoginResponse
	if err := c.postJSON(ctx, c.endpoint("/auth/login", nil), req, &res); err != nil {
		return model.LoginResponse{}, err
	}
	if res.Token == "" {
		return model.LoginResponse{}, errors.New("login response carried no token")
	}
	return res, nil
}

// Logout invalidates the token carried by ctx on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, c.endpoint("/auth/logout", nil), struct{}{}, nil)
}

// CreateUser registers an account. Admin accounts are created with RoleId 1.
func (c *Client) CreateUser(ctx context.Context, req model.SignupRequest) error {
	return c.postJSON(ctx, c.endpoint("/users", nil), req, nil)
}
