package snipeit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/oakvale-college/lifecycle-service/internal/config"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// Client talks to a Snipe-IT instance over its REST API. All calls run
// through a circuit breaker so a flapping asset system cannot pile up
// blocked requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
}

var _ ports.AssetGateway = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cb:         config.NewCircuitBreaker("SnipeIT"),
	}
}

// assetRecord mirrors the flat asset shape Snipe-IT returns.
type assetRecord struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	AssetTag   string `json:"asset_tag"`
	Status     string `json:"status"`
	Model      string `json:"model"`
	Category   string `json:"category"`
	StatusID   int    `json:"status_id"`
	AssignedTo string `json:"assigned_to"`
}

type assetsResponse struct {
	Total int           `json:"total"`
	Rows  []assetRecord `json:"rows"`
}

type actionResponse struct {
	Status   string `json:"status"`
	Messages any    `json:"messages"`
}

func (r assetRecord) toDomain() domain.Asset {
	asset := domain.Asset{
		ID:         r.ID,
		Name:       r.Name,
		AssetTag:   r.AssetTag,
		Model:      r.Model,
		Category:   r.Category,
		Status:     r.Status,
		StatusID:   r.StatusID,
		AssignedTo: r.AssignedTo,
	}
	asset.MarkAvailability()
	return asset
}

// do performs one breaker-wrapped API call and decodes the body into out.
// A 404 returns errNotFound so callers can translate absence to nil.
var errNotFound = fmt.Errorf("snipeit: not found")

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	// Absence is a normal outcome and must not count as a breaker
	// failure, so the closure reports a 404 through the success path.
	notFound, err := c.cb.Execute(func() (interface{}, error) {
		var reqBody *bytes.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reqBody = bytes.NewReader(encoded)
		} else {
			reqBody = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1/"+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return true, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("snipeit: %s %s returned %d", method, path, resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("snipeit: decode %s response: %w", path, err)
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if missing, ok := notFound.(bool); ok && missing {
		return errNotFound
	}
	return nil
}

func (c *Client) FetchPage(ctx context.Context, limit, offset int) ([]domain.Asset, int, error) {
	var resp assetsResponse
	path := fmt.Sprintf("hardware?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}

	assets := make([]domain.Asset, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		assets = append(assets, row.toDomain())
	}
	return assets, resp.Total, nil
}

func (c *Client) FetchByID(ctx context.Context, assetID int) (*domain.Asset, error) {
	var record assetRecord
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("hardware/%d", assetID), nil, &record)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	asset := record.toDomain()
	return &asset, nil
}

func (c *Client) FetchByTag(ctx context.Context, assetTag string) (*domain.Asset, error) {
	var record assetRecord
	err := c.do(ctx, http.MethodGet, "hardware/bytag/"+assetTag, nil, &record)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	asset := record.toDomain()
	return &asset, nil
}

func (c *Client) Checkout(ctx context.Context, assetID int, personID string) error {
	payload := map[string]any{
		"checkout_to_type": "user",
		"assigned_user":    personID,
	}
	var resp actionResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("hardware/%d/checkout", assetID), payload, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "success" {
		return fmt.Errorf("snipeit: checkout of asset %d rejected: %v", assetID, resp.Messages)
	}
	return nil
}

func (c *Client) Checkin(ctx context.Context, assetID int) error {
	var resp actionResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("hardware/%d/checkin", assetID), struct{}{}, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "success" {
		return fmt.Errorf("snipeit: checkin of asset %d rejected: %v", assetID, resp.Messages)
	}
	return nil
}
