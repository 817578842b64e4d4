package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/goccy/go-json"
)

// DefaultTimeout matches the mobile app's submission timeout.
const DefaultTimeout = 15 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Code, e.Body)
}

// Client is the listings API client. Token is forwarded as a bearer token when set.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Labels     Labeler
}

// NewClient builds a client with the default timeout.
func NewClient(baseURL string, labels Labeler) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Labels:     labels,
	}
}

// Categories fetches the general category document, flattened.
func (c *Client) Categories(ctx context.Context) ([]models.CategoryNode, error) {
	body, err := c.get(ctx, "/api/categories", nil, "")
	if err != nil {
		return nil, err
	}
	return DecodeCategories(body)
}

// VehicleCategories fetches the vehicle-subcategory tree.
func (c *Client) VehicleCategories(ctx context.Context) ([]models.CategoryNode, error) {
	body, err := c.get(ctx, "/api/vehicle-categories", nil, "")
	if err != nil {
		return nil, err
	}
	return DecodeCategories(body)
}

// Search runs the server-side listing search with the given parameters.
func (c *Client) Search(ctx context.Context, token string, params url.Values) ([]models.Listing, error) {
	body, err := c.get(ctx, "/api/ad-listings/search", params, token)
	if err != nil {
		return nil, err
	}
	return DecodeListings(body, c.Labels)
}

// ByCategory lists the adverts of one category.
func (c *Client) ByCategory(ctx context.Context, token string, categoryID int64) ([]models.Listing, error) {
	body, err := c.get(ctx, "/api/ad-listings/category/"+strconv.FormatInt(categoryID, 10), nil, token)
	if err != nil {
		return nil, err
	}
	return DecodeListings(body, c.Labels)
}

// CreateListing posts a new advert. Vehicle adverts go to the cars endpoint.
func (c *Client) CreateListing(ctx context.Context, token string, payload models.AdPayload, vehicle bool) (json.RawMessage, error) {
	path := "/api/ad-listings"
	if vehicle {
		path = "/api/ad-listings/cars"
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode advert: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, token string) ([]byte, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token string) ([]byte, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("upstream %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
