package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/session"
)

// upstreamStub records calls made to the fake commerce backend.
type upstreamStub struct {
	server *httptest.Server

	calls     []string
	lastAuth  string
	lastBody  []byte
	cartQuery string
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()

	stub := &upstreamStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls = append(stub.calls, r.URL.Path)
		stub.lastAuth = r.Header.Get("Authorization")
		stub.lastBody, _ = io.ReadAll(r.Body)

		switch r.URL.Path {
		case "/api/cart":
			stub.cartQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"orderNumber":"10042","items":[]}`))
		case "/api/cart/items":
			_, _ = w.Write([]byte(`{"orderNumber":"10042","items":[{"id":"SKU-1"}]}`))
		case "/api/checkout":
			_, _ = w.Write([]byte(`{"order":{"orderNumber":"100042"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestServer(t *testing.T) (*Server, *upstreamStub, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStoreWithClient(client)

	stub := newUpstreamStub(t)
	commerceClient := commerce.NewClient(stub.server.URL, "Google", 5*time.Second)

	srv := New(config.HTTPConfig{Host: "localhost", Port: 0}, store, commerceClient, session.DefaultTTL)
	return srv, stub, mr
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSaveThenPollReturnsRecord(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/auth/save",
		`{"sessionId":"abc","token":"tok1","customerId":"c1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doRequest(srv, http.MethodGet, "/api/auth/poll?sessionId=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok1","customerId":"c1"}`, rec.Body.String())

	// Peek variant: a second poll still succeeds within the TTL window.
	rec = doRequest(srv, http.MethodGet, "/api/auth/poll?sessionId=abc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSaveRejectsMissingFieldsBeforeStoreWrite(t *testing.T) {
	srv, _, mr := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing sessionId", `{"token":"tok1","customerId":"c1"}`},
		{"missing token", `{"sessionId":"abc","customerId":"c1"}`},
		{"missing customerId", `{"sessionId":"abc","token":"tok1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/auth/save", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Empty(t, mr.Keys(), "no store write may happen for rejected saves")
}

func TestPollMissingParamIsBadRequest(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/auth/poll", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing sessionId")
}

func TestPollUnknownSessionIsNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/auth/poll?sessionId=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data found for sessionId")
}

func TestPollAfterExpiryIsNotFound(t *testing.T) {
	srv, _, mr := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/auth/save",
		`{"sessionId":"abc","token":"tok1","customerId":"c1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	mr.FastForward(session.DefaultTTL + time.Second)

	rec = doRequest(srv, http.MethodGet, "/api/auth/poll?sessionId=abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnconfiguredStoreDegradesUniformly(t *testing.T) {
	stub := newUpstreamStub(t)
	commerceClient := commerce.NewClient(stub.server.URL, "Google", 5*time.Second)
	srv := New(config.HTTPConfig{}, session.Unavailable(), commerceClient, session.DefaultTTL)

	targets := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/auth/save", `{"sessionId":"abc","token":"t","customerId":"c"}`},
		{http.MethodGet, "/api/auth/poll?sessionId=abc", ""},
		{http.MethodGet, "/api/cart?sessionId=abc", ""},
		{http.MethodPost, "/api/cart", `{"sessionId":"abc","variantCode":"v","quantity":1}`},
		{http.MethodPost, "/api/check-out", `{"sessionId":"abc"}`},
	}
	for _, tt := range targets {
		rec := doRequest(srv, tt.method, tt.target, tt.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "%s %s", tt.method, tt.target)
		assert.Contains(t, rec.Body.String(), "Session store not configured")
	}

	assert.Empty(t, stub.calls, "no upstream call may happen without a store")
}

func TestCartFetchWithoutSessionIDIsUnauthorized(t *testing.T) {
	srv, stub, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No session ID found")
	assert.Empty(t, stub.calls)
}

func TestCartFetchUnresolvableSessionIsUnauthorized(t *testing.T) {
	srv, stub, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/cart?sessionId=stale", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")
	assert.Empty(t, stub.calls, "unauthenticated requests must not reach upstream")
}

func TestCartFetchRelaysUpstreamBody(t *testing.T) {
	srv, stub, _ := newTestServer(t)
	saveSession(t, srv, "abc", "tok1", "c1")

	rec := doRequest(srv, http.MethodGet, "/api/cart?sessionId=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orderNumber":"10042","items":[]}`, rec.Body.String())
	assert.Equal(t, []string{"/api/cart"}, stub.calls)
	assert.Equal(t, "customerId=c1", stub.cartQuery)
}

func TestCartAddValidation(t *testing.T) {
	srv, stub, _ := newTestServer(t)

	tests := []string{
		`{"variantCode":"v","quantity":1}`,
		`{"sessionId":"abc","quantity":1}`,
		`{"sessionId":"abc","variantCode":"v"}`,
		`{"sessionId":"abc","variantCode":"v","quantity":0}`,
	}
	for _, body := range tests {
		rec := doRequest(srv, http.MethodPost, "/api/cart", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, stub.calls)
}

func TestCartAddForwardsResolvedCustomer(t *testing.T) {
	srv, stub, _ := newTestServer(t)
	saveSession(t, srv, "abc", "tok1", "c1")

	rec := doRequest(srv, http.MethodPost, "/api/cart",
		`{"sessionId":"abc","variantCode":"SKU-1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"/api/cart/items"}, stub.calls)
	assert.JSONEq(t, `{"customerId":"c1","variantCode":"SKU-1","quantity":2}`, string(stub.lastBody))
}

func TestCheckoutForwardsTokenAndCustomer(t *testing.T) {
	srv, stub, _ := newTestServer(t)
	saveSession(t, srv, "abc", "tok1", "c1")

	rec := doRequest(srv, http.MethodPost, "/api/check-out", `{"sessionId":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"order":{"orderNumber":"100042"}}`, rec.Body.String())

	assert.Equal(t, []string{"/api/checkout"}, stub.calls)
	assert.Equal(t, "Bearer tok1", stub.lastAuth)
	assert.JSONEq(t, `{"customerId":"c1"}`, string(stub.lastBody))
}

func TestCheckoutWithoutSessionIDIsUnauthorized(t *testing.T) {
	srv, stub, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/check-out", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No session ID found")
	assert.Empty(t, stub.calls)
}

func TestUpstreamFailureSurfacesDetails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStoreWithClient(client)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"cart service down"}`))
	}))
	t.Cleanup(upstream.Close)

	commerceClient := commerce.NewClient(upstream.URL, "Google", 5*time.Second)
	srv := New(config.HTTPConfig{}, store, commerceClient, session.DefaultTTL)
	saveSession(t, srv, "abc", "tok1", "c1")

	rec := doRequest(srv, http.MethodGet, "/api/cart?sessionId=abc", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "fetch cart")
	assert.Contains(t, resp["details"], "cart service down")
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequest(srv, http.MethodOptions, "/api/cart", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestLoginSuccessPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/login/success?token=tok1&customerId=c1&state=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	page := rec.Body.String()
	assert.Contains(t, page, "/api/auth/save")
	assert.Contains(t, page, `params.get("state")`)
	assert.Contains(t, page, "window.close()")
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// saveSession seeds an auth record through the save endpoint.
func saveSession(t *testing.T, srv *Server, sessionID, token, customerID string) {
	t.Helper()

	body, _ := json.Marshal(saveRequest{SessionID: sessionID, Token: token, CustomerID: customerID})
	rec := doRequest(srv, http.MethodPost, "/api/auth/save", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
}
