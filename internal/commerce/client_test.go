package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "Google", 5*time.Second), srv
}

func TestAuthorizeURL(t *testing.T) {
	var gotPath, gotQuery string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]string{"authorizeUrl": "https://idp.example.com/authorize?client_id=x"})
	}))
	defer srv.Close()

	got, err := client.AuthorizeURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/authorize?client_id=x", got)
	assert.Equal(t, "/oauth/authorizeUrl", gotPath)
	assert.Equal(t, "provider=Google", gotQuery)
}

func TestAuthorizeURLMissingField(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := client.AuthorizeURL(context.Background())
	var upstreamErr *api.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
}

func TestSearchProductsEncodesQuery(t *testing.T) {
	var gotURL string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_ = json.NewEncoder(w).Encode(ProductList{Query: "winter jacket", TotalCount: 0})
	}))
	defer srv.Close()

	body, err := client.SearchProducts(context.Background(), "winter jacket")
	require.NoError(t, err)
	assert.Equal(t, "/api/products/search?query=winter+jacket", gotURL)

	var result ProductList
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "winter jacket", result.Query)
}

func TestGetCartPassesCustomerID(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("customerId"))
		// Cart fetch uses customerId as a plain parameter, no bearer.
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(Cart{OrderNumber: "10042"})
	}))
	defer srv.Close()

	body, err := client.GetCart(context.Background(), "c1")
	require.NoError(t, err)

	var cart Cart
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Equal(t, "10042", cart.OrderNumber)
}

func TestAddToCartBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req addToCartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, addToCartRequest{CustomerID: "c1", VariantCode: "SKU-1", Quantity: 2}, req)

		_ = json.NewEncoder(w).Encode(Cart{})
	}))
	defer srv.Close()

	_, err := client.AddToCart(context.Background(), "c1", "SKU-1", 2)
	require.NoError(t, err)
}

func TestSubmitOrderSendsBearerToken(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checkout", r.URL.Path)
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))

		var req submitOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c1", req.CustomerID)

		_ = json.NewEncoder(w).Encode(OrderConfirmation{Order: Order{OrderNumber: "100042"}})
	}))
	defer srv.Close()

	body, err := client.SubmitOrder(context.Background(), "tok1", "c1")
	require.NoError(t, err)

	var confirmation OrderConfirmation
	require.NoError(t, json.Unmarshal(body, &confirmation))
	assert.Equal(t, "100042", confirmation.Order.OrderNumber)
}

func TestOrderHistory(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("customerId"))
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(OrderHistory{TotalCount: 1})
	}))
	defer srv.Close()

	_, err := client.OrderHistory(context.Background(), "tok1", "c1")
	require.NoError(t, err)
}

func TestUpstreamErrorCarriesDetail(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"cart service down"}`))
	}))
	defer srv.Close()

	_, err := client.GetCart(context.Background(), "c1")

	var upstreamErr *api.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Detail, "cart service down")
	assert.Equal(t, "fetch cart", upstreamErr.Operation)
}

func TestTransportFailureIsUpstreamError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // server gone before the call

	_, err := client.GetCart(context.Background(), "c1")

	var upstreamErr *api.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Zero(t, upstreamErr.StatusCode)
}

func TestSetBaseURL(t *testing.T) {
	client := NewClient("http://old.example.com/", "Google", time.Second)
	assert.Equal(t, "http://old.example.com", client.BaseURL())

	client.SetBaseURL("http://new.example.com")
	assert.Equal(t, "http://new.example.com", client.BaseURL())
}
