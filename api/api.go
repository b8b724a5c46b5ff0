package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swoga/achievements-login/model"
	"go.uber.org/zap"
)

const prefix = "/api/v1/auth/"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyBody        = errors.New("null response body")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New returns a client for the authentication service at baseURL.
// Timeouts are left to the caller's context.
func New(log *zap.Logger, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

func (c *Client) request(ctx context.Context, token string, method string, path string, data interface{}) (*http.Response, error) {
	var buf io.Reader
	if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(body)
	}

	url := c.baseURL + prefix + path
	c.log.Debug("send request", zap.String("method", method), zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return nil, err
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

type LoginResult struct {
	StatusCode int
	Body       model.LoginResponse
}

func (r LoginResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Login posts the credentials. An error means the request did not complete
// or the response body was not JSON, service rejections come back as a
// LoginResult that is not OK.
func (c *Client) Login(ctx context.Context, credentials model.Credentials) (*LoginResult, error) {
	res, err := c.request(ctx, "", http.MethodPost, "login", model.NewLoginRequest(credentials))
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer res.Body.Close()

	var data *model.LoginResponse
	decoder := json.NewDecoder(res.Body)
	err = decoder.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("decode login response (status %d): %w", res.StatusCode, err)
	}
	if data == nil {
		return nil, fmt.Errorf("decode login response (status %d): %w", res.StatusCode, ErrEmptyBody)
	}

	c.log.Debug("response", zap.Int("status", res.StatusCode), zap.Bool("has_access_token", data.AccessToken != ""))

	return &LoginResult{
		StatusCode: res.StatusCode,
		Body:       *data,
	}, nil
}

// Me checks the access token against the identity endpoint.
func (c *Client) Me(ctx context.Context, token string) error {
	return c.expectOK(ctx, token, http.MethodGet, "me")
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.expectOK(ctx, token, http.MethodPost, "logout")
}

func (c *Client) expectOK(ctx context.Context, token string, method string, path string) error {
	res, err := c.request(ctx, token, method, path, nil)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.log.Debug("error from API", zap.Int("status", res.StatusCode), zap.String("response", string(data)))
		return fmt.Errorf("%s: %w %d", path, ErrUnexpectedStatus, res.StatusCode)
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
