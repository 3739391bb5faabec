package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return c.adoptSession(resp)
}

// Register creates an account and returns its session
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", domain.ErrInvalidInput)
	}

	body := registerRequest{
		Email:    reg.Email,
		Password: reg.Password,
		Name:     reg.Name,
		Phone:    reg.Phone,
		Role:     reg.Role,
	}
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.adoptSession(resp)
}

// adoptSession validates an auth response and switches the client to it
func (c *Client) adoptSession(resp AuthResponse) (*domain.Session, error) {
	session := MapSession(resp)
	if !session.Valid() {
		return nil, fmt.Errorf("auth response is missing token or user")
	}
	c.SetSession(session.Token, session.User.ID)
	return session, nil
}
