package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
)

const requestTimeout = 30 * time.Second

// the token is empty until Login succeeds
func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.Status)
}

// exchanges admin credentials for a token; non-admin accounts are refused
func (c *RESTClient) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
		User  struct {
			IsAdmin bool `json:"is_admin"`
		} `json:"user"`
	}

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}

	if !resp.User.IsAdmin {
		return fmt.Errorf("%s is not an admin account", username)
	}

	c.token = resp.Token

	return nil
}

func (c *RESTClient) Token() string {
	return c.token
}

// the console asks for confirmation itself, so every destructive call confirms
func (c *RESTClient) SetActive(ctx context.Context, id string, active bool) (*users.User, error) {
	var u users.User

	err := c.do(ctx, http.MethodPut, "/api/v1/admin/users/"+url.PathEscape(id)+"/active", map[string]bool{
		"active":  active,
		"confirm": true,
	}, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// asks the server for a generated password and returns it
func (c *RESTClient) ResetPassword(ctx context.Context, id string) (string, error) {
	var resp struct {
		Password string `json:"password"`
	}

	err := c.do(ctx, http.MethodPut, "/api/v1/admin/users/"+url.PathEscape(id)+"/password", map[string]bool{
		"confirm": true,
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Password, nil
}

func (c *RESTClient) UpdateQuota(ctx context.Context, id string, quota int) error {
	return c.do(ctx, http.MethodPut, "/api/v1/admin/users/"+url.PathEscape(id)+"/quota", map[string]int{
		"daily_quota": quota,
	}, nil)
}

func (c *RESTClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/users/"+url.PathEscape(id)+"?confirm=true", nil, nil)
}

func (c *RESTClient) CreateUser(ctx context.Context, req users.CreateRequest) (*users.User, error) {
	var u users.User

	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/users", req, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// masked form of the operator key; empty when none is stored
func (c *RESTClient) APIKeyMask(ctx context.Context) (string, error) {
	var resp keyResponse

	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/settings/api-key", nil, &resp); err != nil {
		return "", err
	}

	return resp.Masked, nil
}

// stores the operator key on the server and returns its masked form
func (c *RESTClient) SetAPIKey(ctx context.Context, key string) (string, error) {
	var resp keyResponse

	err := c.do(ctx, http.MethodPut, "/api/v1/admin/settings/api-key", map[string]string{
		"api_key": key,
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Masked, nil
}

func (c *RESTClient) ClearAPIKey(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/settings/api-key", nil, nil)
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}

		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
