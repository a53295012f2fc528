package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"storefront/internal/api"
	"storefront/internal/commerce"
	"storefront/internal/session"
	"storefront/pkg/logging"
)

// ShopToolProvider exposes the storefront operations as agent-callable tools.
// Tools that act on behalf of a customer take a sessionId argument; the
// provider resolves it against the session store that the login flow writes
// into. A missing or expired session is a conversational outcome, not a tool
// failure: the agent is told to send the user through shop_login first.
type ShopToolProvider struct {
	store    session.Store
	commerce *commerce.Client
}

// NewShopToolProvider creates the tool provider.
func NewShopToolProvider(store session.Store, commerceClient *commerce.Client) *ShopToolProvider {
	return &ShopToolProvider{
		store:    store,
		commerce: commerceClient,
	}
}

// GetTools returns metadata for all storefront tools.
func (p *ShopToolProvider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "shop_login",
			Description: "Start a login for the shop. Returns a login URL to open in the browser and the sessionId to use in subsequent shop tool calls once the login completes.",
			Args:        []api.ArgMetadata{},
		},
		{
			Name:        "shop_logout",
			Description: "End the shop session. Discards the stored credentials for the sessionId; the customer has to log in again for cart and checkout operations.",
			Args: []api.ArgMetadata{
				{
					Name:        "sessionId",
					Type:        "string",
					Required:    true,
					Description: "Session id obtained from shop_login",
				},
			},
		},
		{
			Name:        "shop_products_search",
			Description: "Search the product catalog. Returns matching products with prices, thumbnails and product URLs.",
			Args: []api.ArgMetadata{
				{
					Name:        "query",
					Type:        "string",
					Required:    true,
					Description: "Free-text search query, e.g. 'winter jacket'",
				},
			},
		},
		{
			Name:        "shop_product_detail",
			Description: "Fetch the full detail view of a product, including variants, media and attributes.",
			Args: []api.ArgMetadata{
				{
					Name:        "url",
					Type:        "string",
					Required:    true,
					Description: "Product URL as returned by shop_products_search",
				},
			},
		},
		{
			Name:        "shop_cart_view",
			Description: "Show the customer's current cart. Requires a logged-in session.",
			Args: []api.ArgMetadata{
				{
					Name:        "sessionId",
					Type:        "string",
					Required:    true,
					Description: "Session id obtained from shop_login",
				},
			},
		},
		{
			Name:        "shop_cart_add",
			Description: "Add a product variant to the customer's cart. Requires a logged-in session.",
			Args: []api.ArgMetadata{
				{
					Name:        "sessionId",
					Type:        "string",
					Required:    true,
					Description: "Session id obtained from shop_login",
				},
				{
					Name:        "variantCode",
					Type:        "string",
					Required:    true,
					Description: "Variant code of the product to add",
				},
				{
					Name:        "quantity",
					Type:        "number",
					Required:    false,
					Description: "Number of units to add",
					Default:     1,
				},
			},
		},
		{
			Name:        "shop_checkout",
			Description: "Submit the customer's cart as an order and return the order confirmation. Requires a logged-in session.",
			Args: []api.ArgMetadata{
				{
					Name:        "sessionId",
					Type:        "string",
					Required:    true,
					Description: "Session id obtained from shop_login",
				},
			},
		},
		{
			Name:        "shop_order_history",
			Description: "List the customer's past orders. Requires a logged-in session.",
			Args: []api.ArgMetadata{
				{
					Name:        "sessionId",
					Type:        "string",
					Required:    true,
					Description: "Session id obtained from shop_login",
				},
			},
		},
	}
}

// ExecuteTool executes a storefront tool by name.
func (p *ShopToolProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	switch toolName {
	case "shop_login":
		return p.handleLogin(ctx)
	case "shop_logout":
		return p.handleLogout(ctx, args)
	case "shop_products_search":
		return p.handleProductsSearch(ctx, args)
	case "shop_product_detail":
		return p.handleProductDetail(ctx, args)
	case "shop_cart_view":
		return p.handleCartView(ctx, args)
	case "shop_cart_add":
		return p.handleCartAdd(ctx, args)
	case "shop_checkout":
		return p.handleCheckout(ctx, args)
	case "shop_order_history":
		return p.handleOrderHistory(ctx, args)
	default:
		return nil, fmt.Errorf("unknown shop tool: %s", toolName)
	}
}

// handleLogin mints a fresh session id, fetches the OAuth authorization URL
// from the backend and threads the session id through the state parameter so
// the login completion page can deposit the credentials under it.
func (p *ShopToolProvider) handleLogin(ctx context.Context) (*api.CallToolResult, error) {
	sessionID := uuid.NewString()

	authorizeURL, err := p.commerce.AuthorizeURL(ctx)
	if err != nil {
		logging.Error("ShopTools", err, "Failed to fetch authorize URL")
		return errorResult("Could not start the login flow: %v", err), nil
	}

	loginURL, err := withStateParam(authorizeURL, sessionID)
	if err != nil {
		return errorResult("Backend returned an unusable authorize URL: %v", err), nil
	}

	logging.Info("ShopTools", "Started login for session %s", logging.TruncateSessionID(sessionID))
	return textResult(fmt.Sprintf(
		"Please open this URL in your browser to log in:\n\n%s\n\n"+
			"After the login completes, use sessionId %q for cart, checkout and order tools.",
		loginURL, sessionID,
	)), nil
}

// handleLogout discards the stored auth record. Logging out a session that
// was never logged in is fine.
func (p *ShopToolProvider) handleLogout(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	sessionID, ok := stringArg(args, "sessionId")
	if !ok {
		return errorResult("'sessionId' argument is required and must be a string"), nil
	}

	if err := p.store.Delete(ctx, sessionID); err != nil {
		return p.storeFailure(err), nil
	}

	logging.Info("ShopTools", "Logged out session %s", logging.TruncateSessionID(sessionID))
	return textResult("You have been logged out. Use shop_login to start a new session."), nil
}

func (p *ShopToolProvider) handleProductsSearch(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	query, ok := stringArg(args, "query")
	if !ok {
		return errorResult("'query' argument is required and must be a string"), nil
	}

	body, err := p.commerce.SearchProducts(ctx, query)
	if err != nil {
		return errorResult("Product search failed: %v", err), nil
	}

	// A leading summary lets the agent narrate the result without parsing
	// the view model itself.
	var list commerce.ProductList
	if err := json.Unmarshal(body, &list); err == nil && list.Items != nil {
		return summarizedResult(fmt.Sprintf("Found %d products for %q.", list.TotalCount, query), body), nil
	}
	return rawResult(body), nil
}

func (p *ShopToolProvider) handleProductDetail(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	productURL, ok := stringArg(args, "url")
	if !ok {
		return errorResult("'url' argument is required and must be a string"), nil
	}

	body, err := p.commerce.ProductDetail(ctx, productURL)
	if err != nil {
		return errorResult("Fetching the product detail failed: %v", err), nil
	}
	return rawResult(body), nil
}

func (p *ShopToolProvider) handleCartView(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	record, result := p.resolveSession(ctx, args)
	if result != nil {
		return result, nil
	}

	body, err := p.commerce.GetCart(ctx, record.CustomerID)
	if err != nil {
		return errorResult("Fetching the cart failed: %v", err), nil
	}
	return rawResult(body), nil
}

func (p *ShopToolProvider) handleCartAdd(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	record, result := p.resolveSession(ctx, args)
	if result != nil {
		return result, nil
	}

	variantCode, ok := stringArg(args, "variantCode")
	if !ok {
		return errorResult("'variantCode' argument is required and must be a string"), nil
	}

	quantity := 1
	if raw, present := args["quantity"]; present {
		n, ok := numberArg(raw)
		if !ok || n <= 0 {
			return errorResult("'quantity' must be a positive number"), nil
		}
		quantity = n
	}

	body, err := p.commerce.AddToCart(ctx, record.CustomerID, variantCode, quantity)
	if err != nil {
		return errorResult("Adding to the cart failed: %v", err), nil
	}
	return rawResult(body), nil
}

func (p *ShopToolProvider) handleCheckout(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	record, result := p.resolveSession(ctx, args)
	if result != nil {
		return result, nil
	}

	body, err := p.commerce.SubmitOrder(ctx, record.Token, record.CustomerID)
	if err != nil {
		return errorResult("Checkout failed: %v", err), nil
	}

	var confirmation commerce.OrderConfirmation
	if err := json.Unmarshal(body, &confirmation); err == nil && confirmation.Order.OrderNumber != "" {
		return summarizedResult(fmt.Sprintf("Order %s placed.", confirmation.Order.OrderNumber), body), nil
	}
	return rawResult(body), nil
}

func (p *ShopToolProvider) handleOrderHistory(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	record, result := p.resolveSession(ctx, args)
	if result != nil {
		return result, nil
	}

	body, err := p.commerce.OrderHistory(ctx, record.Token, record.CustomerID)
	if err != nil {
		return errorResult("Fetching the order history failed: %v", err), nil
	}
	return rawResult(body), nil
}

// loginPrompt is returned when a session-bound tool is called without valid
// credentials. It is deliberately not an error result so the agent treats it
// as a next step rather than a failure.
const loginPrompt = "You are not logged in to the shop yet. Use shop_login to get a login URL, " +
	"have the user complete the login in their browser, then retry with the returned sessionId."

// resolveSession extracts and resolves the sessionId argument. The second
// return value is non-nil when the caller should return it directly.
func (p *ShopToolProvider) resolveSession(ctx context.Context, args map[string]interface{}) (session.Record, *api.CallToolResult) {
	sessionID, ok := stringArg(args, "sessionId")
	if !ok {
		return session.Record{}, textResult(loginPrompt)
	}

	record, err := p.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			logging.Debug("ShopTools", "Session %s not resolvable", logging.TruncateSessionID(sessionID))
			return session.Record{}, textResult(loginPrompt)
		}
		return session.Record{}, p.storeFailure(err)
	}
	return record, nil
}

// storeFailure maps session store failures onto tool error results.
func (p *ShopToolProvider) storeFailure(err error) *api.CallToolResult {
	if errors.Is(err, session.ErrNotConfigured) {
		return errorResult("Session store not configured")
	}
	logging.Error("ShopTools", err, "Session store failure")
	return errorResult("Session store failure: %v", err)
}

// withStateParam appends the session id as the OAuth state query parameter.
func withStateParam(authorizeURL, sessionID string) (string, error) {
	u, err := url.Parse(authorizeURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("state", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// stringArg extracts a non-empty string argument.
func stringArg(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// numberArg coerces a JSON number argument to int. Decoded JSON delivers
// numbers as float64.
func numberArg(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func textResult(text string) *api.CallToolResult {
	return &api.CallToolResult{Content: []interface{}{text}}
}

func rawResult(body json.RawMessage) *api.CallToolResult {
	return &api.CallToolResult{Content: []interface{}{string(body)}}
}

func summarizedResult(summary string, body json.RawMessage) *api.CallToolResult {
	return &api.CallToolResult{Content: []interface{}{summary, string(body)}}
}

func errorResult(format string, a ...interface{}) *api.CallToolResult {
	return &api.CallToolResult{
		Content: []interface{}{fmt.Sprintf(format, a...)},
		IsError: true,
	}
}
