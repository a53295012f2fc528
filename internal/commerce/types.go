package commerce

// View models returned by the remote commerce API. The backend owns commerce
// semantics (pricing, promotions, stock); these types only describe the JSON
// shapes the storefront relays and summarizes.

// Product is a single entry in a product search result.
type Product struct {
	DisplayName  string `json:"displayName"`
	URL          string `json:"url"`
	ImageURL     string `json:"imageUrl"`
	Price        string `json:"price"`
	SpecialPrice string `json:"specialPrice"`
	Description  string `json:"description"`
	TagLine      string `json:"tagLine"`
	TagStory     string `json:"tagStory"`
}

// ProductList is the product search result view model.
type ProductList struct {
	Query      string    `json:"query"`
	TotalCount int       `json:"totalCount"`
	Items      []Product `json:"items"`
}

// ProductPrice carries the numeric prices of a variant.
type ProductPrice struct {
	CurrencySymbol string   `json:"currencySymbol"`
	ListPrice      float64  `json:"listPrice"`
	SalePrice      *float64 `json:"salePrice"`
}

// ColorConfiguration describes a selectable color swatch.
type ColorConfiguration struct {
	ColorCode       string `json:"colorCode"`
	BackgroundColor string `json:"backgroundColor"`
}

// ProductAttribute is a named attribute with its possible values.
type ProductAttribute struct {
	Name               string               `json:"name"`
	Values             []string             `json:"values"`
	ColorConfiguration []ColorConfiguration `json:"colorConfiguration,omitempty"`
	ShortName          string               `json:"shortName"`
}

// ProductMedia holds the main image of a variant.
type ProductMedia struct {
	MainImageURL     string `json:"mainImageUrl"`
	MainImageAltText string `json:"mainImageAltText"`
}

// ProductVariant is a purchasable variation of a product.
type ProductVariant struct {
	Code             string             `json:"code"`
	StockInformation string             `json:"stockInformation"`
	MaxQuantity      int                `json:"maxQuantity"`
	Attributes       []ProductAttribute `json:"attributes"`
	Price            ProductPrice       `json:"price"`
	Media            *ProductMedia      `json:"media,omitempty"`
}

// FacetFilter describes a variant-selection control.
type FacetFilter struct {
	DisplayName        string             `json:"displayName"`
	Attribute          string             `json:"attribute"`
	AttributeLevel     string             `json:"attributeLevel"`
	SelectorControl    string             `json:"selectorControlType"`
	Options            []ProductAttribute `json:"options"`
	DependOnAttributes []string           `json:"dependOnAttributes"`
}

// ProductDetail extends Product with variants and selection facets.
type ProductDetail struct {
	Product
	Variants     []ProductVariant `json:"variants"`
	FacetFilters []FacetFilter    `json:"facetFilters"`
}

// ProductDetailResponse wraps a product detail view model.
type ProductDetailResponse struct {
	Product ProductDetail `json:"product"`
}

// CartItem is a single line in the cart.
type CartItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	OriginalPrice  string  `json:"originalPrice"`
	FinalPrice     string  `json:"finalPrice"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	DiscountLabel  string  `json:"discountLabel,omitempty"`
	ImageURL       string  `json:"imageUrl"`
	ImageAlt       string  `json:"imageAlt"`
}

// Promotion is an applied cart promotion.
type Promotion struct {
	Name        string `json:"name"`
	SavedAmount string `json:"savedAmount"`
	IsShipping  bool   `json:"isShipping"`
}

// CartSummary carries the cart totals.
type CartSummary struct {
	Subtotal       string      `json:"subtotal"`
	Shipping       string      `json:"shipping"`
	Tax            string      `json:"tax"`
	DiscountTotal  string      `json:"discountTotal"`
	Total          string      `json:"total"`
	HasSavings     bool        `json:"hasSavings"`
	TotalSavings   string      `json:"totalSavings"`
	IsFreeShipping bool        `json:"isFreeShipping"`
	Promotions     []Promotion `json:"promotions,omitempty"`
}

// ShippingAddress is the cart's delivery address.
type ShippingAddress struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ShippingNotes string `json:"shippingNotes"`
}

// PaymentMethod is the payment instrument on the cart.
type PaymentMethod struct {
	Type       string `json:"type"`
	CardNumber string `json:"cardNumber"`
	Expiration string `json:"expiration"`
}

// ShippingMethod is the selected delivery option.
type ShippingMethod struct {
	Name                  string `json:"name"`
	Status                string `json:"status"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

// Cart is the cart view model: items, summary, shipping and payment.
type Cart struct {
	OrderNumber     string          `json:"orderNumber"`
	Items           []CartItem      `json:"items"`
	Summary         CartSummary     `json:"summary"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ShippingMethod  ShippingMethod  `json:"shippingMethod"`
}

// OrderItem is a line item on a confirmed order.
type OrderItem struct {
	VariationCode           string  `json:"variationCode"`
	Name                    string  `json:"name"`
	Quantity                int     `json:"quantity"`
	ListPriceFormatted      string  `json:"listPriceFormatted"`
	SubTotalFormatted       string  `json:"subTotalFormatted"`
	DiscountAmount          float64 `json:"discountAmount,omitempty"`
	DiscountAmountFormatted string  `json:"discountAmountFormatted,omitempty"`
	ImageViewModel          struct {
		ImageURL string `json:"imageUrl"`
	} `json:"imageViewModel"`
}

// OrderShippingAddress is the delivery address on a confirmed order. The
// order view model uses different field names than the cart address.
type OrderShippingAddress struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Line1              string `json:"line1"`
	Line2              string `json:"line2"`
	City               string `json:"city"`
	RegionCode         string `json:"regionCode"`
	PostalCode         string `json:"postalCode"`
	DaytimePhoneNumber string `json:"daytimePhoneNumber"`
	Email              string `json:"email"`
	DeliveryNotes      string `json:"deliveryNotes"`
}

// OrderPaymentMethod is the payment summary on a confirmed order.
type OrderPaymentMethod struct {
	CardTypeDisplayName     string `json:"cardTypeDisplayName"`
	CardNumber              string `json:"cardNumber"`
	ExpirationDateFormatted string `json:"expirationDateFormatted"`
}

// Order is the order confirmation view model.
type Order struct {
	OrderNumber             string               `json:"orderNumber"`
	OrderDateFormatted      string               `json:"orderDateFormatted"`
	LineItems               []OrderItem          `json:"lineItems"`
	SubTotalFormatted       string               `json:"subTotalFormatted"`
	ShippingTotalFormatted  string               `json:"shippingTotalFormatted"`
	TaxTotalFormatted       string               `json:"taxTotalFormatted"`
	DiscountTotalFormatted  string               `json:"discountTotalFormatted"`
	TotalFormatted          string               `json:"totalFormatted"`
	TotalSavingsFormatted   string               `json:"totalSavingsFormatted"`
	ShippingAddress         OrderShippingAddress `json:"shippingAddress"`
	FirstPaymentInformation OrderPaymentMethod   `json:"firstPaymentInformation"`
	ShippingMethodName      string               `json:"shippingMethodName"`
	Status                  string               `json:"status"`
	EstimatedDeliveryDate   string               `json:"estimatedDeliveryDate"`
}

// OrderConfirmation wraps the order returned by checkout.
type OrderConfirmation struct {
	Order Order `json:"order"`
}

// OrderHistoryItem is a single order in the account history.
type OrderHistoryItem struct {
	OrderNumber        string   `json:"orderNumber"`
	OrderDate          string   `json:"orderDate"`
	OrderDateFormatted string   `json:"orderDateFormatted"`
	Status             string   `json:"status"`
	Total              float64  `json:"total"`
	TotalFormatted     string   `json:"totalFormatted"`
	TrackingNumbers    string   `json:"trackingNumbers"`
	VariantCodes       []string `json:"variantCodes"`
}

// OrderHistory is the account order history view model.
type OrderHistory struct {
	TotalCount int                `json:"totalCount"`
	Orders     []OrderHistoryItem `json:"orders"`
}
