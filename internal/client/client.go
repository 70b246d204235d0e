// Package client talks to the farm REST API on behalf of the dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"farm-service/internal/model"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Client performs one HTTP request per call and never retries.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
	log        zerolog.Logger
}

func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession(nil)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/user/register/", nil, body, nil, false)
}

// Login exchanges credentials for tokens and stores them in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/token/", nil, body, &pair, false); err != nil {
		return err
	}
	return c.session.Set(Tokens{Username: username, Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh replaces the access token using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) error {
	var out struct {
		Access string `json:"access"`
	}
	body := map[string]string{"refresh": c.session.RefreshToken()}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", nil, body, &out, false); err != nil {
		return err
	}
	return c.session.SetAccess(out.Access)
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) Companies() Resource[model.Company] {
	return Resource[model.Company]{c: c, path: "/api/companies/"}
}

func (c *Client) Regions() Resource[model.Region] {
	return Resource[model.Region]{c: c, path: "/api/regions/"}
}

func (c *Client) Sectors() Resource[model.Sector] {
	return Resource[model.Sector]{c: c, path: "/api/sectors/"}
}

func (c *Client) Pivots() Resource[model.Pivot] {
	return Resource[model.Pivot]{c: c, path: "/api/pivots/"}
}

func (c *Client) Fields() Resource[model.Field] {
	return Resource[model.Field]{c: c, path: "/api/fields/"}
}

func (c *Client) CropRotations() Resource[model.CropRotation] {
	return Resource[model.CropRotation]{c: c, path: "/api/crop-rotations/"}
}

// Resource is one REST collection under /api/.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.c.do(ctx, http.MethodGet, r.path, query, nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

func (r Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item, true); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Resource[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodPost, r.path, nil, body, &item, true); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Resource[T]) Update(ctx context.Context, id uint, body interface{}) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodPut, r.itemPath(id), nil, body, &item, true); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Resource[T]) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil, true)
}

func (r Resource[T]) itemPath(id uint) string {
	return r.path + strconv.FormatUint(uint64(id), 10) + "/"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func errorMessage(status int, body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
		return text
	}
	return http.StatusText(status)
}
