package posapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const authPath = "/api/auth"

func (c *APIClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	result := new(models.LoginResponse)
	if err := c.do(ctx, http.MethodPost, authPath+"/login", result, jsonBody(creds)); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return result, nil
}

func (c *APIClient) Register(ctx context.Context, reg models.Registration) error {
	if err := c.do(ctx, http.MethodPost, authPath+"/register", nil, jsonBody(reg)); err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, authPath+"/users", &users, nil); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUserRole changes a role; the backend audits the change against adminEmail.
func (c *APIClient) UpdateUserRole(ctx context.Context, userID int, newRole, adminEmail string) error {
	body := map[string]string{"newRole": newRole}
	path := fmt.Sprintf("%s/update-role/%d", authPath, userID)
	err := c.do(ctx, http.MethodPut, path, nil, func(r *resty.Request) {
		jsonBody(body)(r)
		r.SetHeader("adminEmail", adminEmail)
	})
	if err != nil {
		return fmt.Errorf("update role of user %d: %w", userID, err)
	}
	return nil
}
