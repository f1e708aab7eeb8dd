// Package geo is an HTTP client for the Geo Directory service.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventmarket/models"
)

var (
	ErrNotFound    = errors.New("geo: place not found")
	ErrUnavailable = errors.New("geo: directory unavailable")
)

// Client talks to the Geo Directory over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client. Each call is bounded by timeout on top of
// the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

type upsertRequest struct {
	RefType      models.EntityType `json:"refType"`
	RefID        string            `json:"refId"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Radius       *float64          `json:"radius"`
	AddressLabel *string           `json:"addressLabel"`
}

func (c *Client) Upsert(ctx context.Context, p models.Place) (*models.Place, error) {
	body := upsertRequest{
		RefType:   p.RefType,
		RefID:     p.RefID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Radius:    p.Radius,
	}
	if p.AddressLabel != "" {
		body.AddressLabel = &p.AddressLabel
	}

	var out models.Place
	if err := c.do(ctx, http.MethodPost, "/api/places/upsert", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetByRef(ctx context.Context, typ models.EntityType, id string) (*models.Place, error) {
	var out models.Place
	if err := c.do(ctx, http.MethodGet, "/api/places/by-ref", refQuery(typ, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListByType(ctx context.Context, typ models.EntityType) ([]models.Place, error) {
	var out []models.Place
	q := url.Values{"refType": {string(typ)}}
	if err := c.do(ctx, http.MethodGet, "/api/places/by-type", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, typ models.EntityType, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/places/by-ref", refQuery(typ, id), nil, nil)
}

func refQuery(typ models.EntityType, id string) url.Values {
	return url.Values{"refType": {string(typ)}, "refId": {id}}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, q.Encode())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrUnavailable, path, err)
	}
	return nil
}
