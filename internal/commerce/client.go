package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"storefront/internal/api"
	"storefront/pkg/logging"
)

// maxErrorDetailBytes bounds how much of an upstream error body is carried
// into diagnostics.
const maxErrorDetailBytes = 2048

// Client talks to the remote commerce backend. It is a thin pass-through: no
// local validation of cart contents, pricing, or order correctness is done
// here; commerce semantics are entirely the backend's responsibility.
//
// Methods return the backend's JSON body verbatim so that proxy endpoints can
// relay it unchanged.
type Client struct {
	mu       sync.RWMutex
	baseURL  string
	provider string

	httpClient *http.Client

	// authGroup deduplicates concurrent authorize-URL fetches for the same
	// provider, the same way concurrent logins from several tool-call turns
	// would otherwise fan out identical requests.
	authGroup singleflight.Group
}

// NewClient creates a commerce client for the given base URL. provider is the
// identity provider requested from the backend's authorize-URL endpoint.
func NewClient(baseURL, provider string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the currently configured backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the backend base URL at runtime. Used by the config
// watcher; in-flight requests keep the URL they started with.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// authorizeURLResponse is the backend's authorize-URL payload.
type authorizeURLResponse struct {
	AuthorizeURL string `json:"authorizeUrl"`
}

// AuthorizeURL fetches the OAuth authorization URL from the backend.
// Concurrent calls are collapsed into a single upstream request.
func (c *Client) AuthorizeURL(ctx context.Context) (string, error) {
	v, err, _ := c.authGroup.Do(c.provider, func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/oauth/authorizeUrl?provider=%s", c.BaseURL(), url.QueryEscape(c.provider))
		body, err := c.doJSON(ctx, http.MethodGet, endpoint, "", nil, "fetch authorize URL")
		if err != nil {
			return nil, err
		}

		var resp authorizeURLResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &api.UpstreamError{Operation: "fetch authorize URL", Err: fmt.Errorf("malformed response: %w", err)}
		}
		if resp.AuthorizeURL == "" {
			return nil, &api.UpstreamError{Operation: "fetch authorize URL", Err: fmt.Errorf("response missing authorizeUrl")}
		}
		return resp.AuthorizeURL, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SearchProducts queries the product catalog.
func (c *Client) SearchProducts(ctx context.Context, query string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/products/search?query=%s", c.BaseURL(), url.QueryEscape(query))
	return c.doJSON(ctx, http.MethodGet, endpoint, "", nil, "search products")
}

// ProductDetail fetches the detail view model for a product URL.
func (c *Client) ProductDetail(ctx context.Context, productURL string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/products/detail?url=%s", c.BaseURL(), url.QueryEscape(productURL))
	return c.doJSON(ctx, http.MethodGet, endpoint, "", nil, "fetch product detail")
}

// GetCart fetches the cart view model for a customer.
func (c *Client) GetCart(ctx context.Context, customerID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/cart?customerId=%s", c.BaseURL(), url.QueryEscape(customerID))
	return c.doJSON(ctx, http.MethodGet, endpoint, "", nil, "fetch cart")
}

// addToCartRequest is the body for the add-to-cart call.
type addToCartRequest struct {
	CustomerID  string `json:"customerId"`
	VariantCode string `json:"variantCode"`
	Quantity    int    `json:"quantity"`
}

// AddToCart adds a variant to the customer's cart and returns the updated
// cart view model.
func (c *Client) AddToCart(ctx context.Context, customerID, variantCode string, quantity int) (json.RawMessage, error) {
	endpoint := c.BaseURL() + "/api/cart/items"
	payload := addToCartRequest{CustomerID: customerID, VariantCode: variantCode, Quantity: quantity}
	return c.doJSON(ctx, http.MethodPost, endpoint, "", payload, "add to cart")
}

// submitOrderRequest is the body for the checkout call.
type submitOrderRequest struct {
	CustomerID string `json:"customerId"`
}

// SubmitOrder submits the customer's cart as an order. The OAuth token is
// sent as a bearer credential; the backend requires it for order placement.
func (c *Client) SubmitOrder(ctx context.Context, token, customerID string) (json.RawMessage, error) {
	endpoint := c.BaseURL() + "/api/checkout"
	return c.doJSON(ctx, http.MethodPost, endpoint, token, submitOrderRequest{CustomerID: customerID}, "submit order")
}

// OrderHistory fetches the customer's order history. Requires the bearer
// credential like order submission.
func (c *Client) OrderHistory(ctx context.Context, token, customerID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/orders?customerId=%s", c.BaseURL(), url.QueryEscape(customerID))
	return c.doJSON(ctx, http.MethodGet, endpoint, token, nil, "fetch order history")
}

// clientFor returns an HTTP client that injects the bearer token, or the
// plain client when no token is needed.
func (c *Client) clientFor(token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport: &oauth2.Transport{Source: source, Base: c.httpClient.Transport},
		Timeout:   c.httpClient.Timeout,
	}
}

// doJSON performs a request and returns the response body verbatim. Non-2xx
// responses and transport failures become UpstreamError with the response
// detail preserved for diagnostics.
func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, payload interface{}, operation string) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.clientFor(token).Do(req)
	if err != nil {
		logging.Error("CommerceClient", err, "Transport failure on %s", operation)
		return nil, &api.UpstreamError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.UpstreamError{Operation: operation, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(body)
		if len(detail) > maxErrorDetailBytes {
			detail = detail[:maxErrorDetailBytes]
		}
		logging.Warn("CommerceClient", "Upstream %s returned %d", operation, resp.StatusCode)
		return nil, &api.UpstreamError{Operation: operation, StatusCode: resp.StatusCode, Detail: detail}
	}

	return json.RawMessage(body), nil
}
