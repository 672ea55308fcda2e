package dto

type AddLineInput struct {
	ProductID uint
	VariantID uint
	Framed    bool
	Quantity  int
}

type CartLineView struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	SizeName  string `json:"size_name"`
	Framed    bool   `json:"framed"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type CartView struct {
	Lines           []CartLineView `json:"lines"`
	Count           int            `json:"count"`
	Subtotal        string         `json:"subtotal"`
	ShippingCountry string         `json:"shipping_country"`
	ShippingFee     string         `json:"shipping_fee"`
	ShippingLabel   string         `json:"shipping_label"`
	Total           string         `json:"total"`
}

type ShippingCountryRequest struct {
	Country string `json:"country"`
}

type ProductView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Orientation string `json:"orientation"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

type VariantView struct {
	ID              uint   `json:"id"`
	SizeName        string `json:"size_name"`
	BasePrice       string `json:"base_price"`
	FrameAddonPrice string `json:"frame_addon_price"`
}

// ShopGridView mirrors the storefront index: three orientation rows of
// seven slots each, nil-padded so the grid keeps its geometry.
type ShopGridView struct {
	GridSlots []*ProductView `json:"grid_slots"`
	Variants  []VariantView  `json:"variants"`
}

type ProductDetailView struct {
	Product  ProductView   `json:"product"`
	Variants []VariantView `json:"variants"`
	Related  []ProductView `json:"related"`
}

type CheckoutSessionResponse struct {
	SessionID    string `json:"session_id"`
	ClientSecret string `json:"client_secret"`
}

// ShippingCallbackRequest is the payload the embedded checkout sends
// when the payer supplies or edits a shipping address.
type ShippingCallbackRequest struct {
	CheckoutSessionID string `json:"checkout_session_id"`
	ShippingDetails   struct {
		Address struct {
			Country string `json:"country"`
		} `json:"address"`
	} `json:"shipping_details"`
}

type ShippingCallbackResponse struct {
	Type         string `json:"type"` // accept or reject
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type ConfirmRequest struct {
	StripePID string `json:"stripe_pid"`
}

type OrderItemView struct {
	Title     string `json:"title"`
	SizeName  string `json:"size_name"`
	Framed    bool   `json:"framed"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderView struct {
	Number      string          `json:"number"`
	Email       string          `json:"email"`
	Country     string          `json:"country"`
	Paid        bool            `json:"paid"`
	AmountTotal string          `json:"amount_total"`
	ShippingFee string          `json:"shipping_fee"`
	Currency    string          `json:"currency"`
	Items       []OrderItemView `json:"items"`
}
