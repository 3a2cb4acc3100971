package domain

import "time"

// PaymentType describes how a pre-order is charged.
type PaymentType string

const (
	PaymentFullUpfront     PaymentType = "full_upfront"
	PaymentDeposit         PaymentType = "deposit"
	PaymentUponFulfillment PaymentType = "upon_fulfillment"
)

// Valid reports whether the payment type is one of the known values.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentFullUpfront, PaymentDeposit, PaymentUponFulfillment:
		return true
	}
	return false
}

// InventoryPolicy is Shopify's variant-level flag controlling whether a sale
// is allowed once stock reaches zero.
type InventoryPolicy string

const (
	PolicyContinue InventoryPolicy = "continue"
	PolicyDeny     InventoryPolicy = "deny"
)

const (
	DefaultMessage           = "This item is available for preorder"
	DefaultDepositPercentage = 20
)

// PreorderConfig is the pre-order policy for one product within one shop,
// optionally narrowed to a single variant. A nil VariantID means the record
// applies to the whole product; it is a distinct storage key, not a wildcard.
type PreorderConfig struct {
	ID                string      `json:"id,omitempty"`
	Shop              string      `json:"shop"`
	ProductID         string      `json:"productId"`
	VariantID         *string     `json:"variantId"`
	Enabled           bool        `json:"enabled"`
	Message           string      `json:"message"`
	ShipDate          *time.Time  `json:"shipDate"`
	Limit             *int        `json:"limit"`
	PaymentType       PaymentType `json:"paymentType"`
	DepositPercentage int         `json:"depositPercentage"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Key returns the storage key of the config.
func (c *PreorderConfig) Key() ConfigKey {
	return ConfigKey{Shop: c.Shop, ProductID: c.ProductID, VariantID: c.VariantID}
}

// ConfigKey identifies one PreorderConfig record. VariantID == nil is itself
// a key value (the product-level record), not a fallback match.
type ConfigKey struct {
	Shop      string
	ProductID string
	VariantID *string
}

// ResolvedView is the storefront-facing contract produced by resolving a
// config key. Absence of a stored record is a valid state: the view is inert
// (Enabled=false) with platform defaults.
type ResolvedView struct {
	ProductID         string      `json:"productId"`
	VariantID         *string     `json:"variantId"`
	Enabled           bool        `json:"enabled"`
	Message           string      `json:"message"`
	ShipDate          *time.Time  `json:"shipDate"`
	Limit             *int        `json:"limit"`
	PaymentType       PaymentType `json:"paymentType"`
	DepositPercentage int         `json:"depositPercentage"`
}

// DefaultView returns the inert view used when no record exists for a key.
func DefaultView(productID string, variantID *string) *ResolvedView {
	return &ResolvedView{
		ProductID:         productID,
		VariantID:         variantID,
		Enabled:           false,
		Message:           DefaultMessage,
		PaymentType:       PaymentFullUpfront,
		DepositPercentage: DefaultDepositPercentage,
	}
}

// ViewFromConfig maps a stored config into the storefront-facing view.
func ViewFromConfig(cfg *PreorderConfig) *ResolvedView {
	return &ResolvedView{
		ProductID:         cfg.ProductID,
		VariantID:         cfg.VariantID,
		Enabled:           cfg.Enabled,
		Message:           cfg.Message,
		ShipDate:          cfg.ShipDate,
		Limit:             cfg.Limit,
		PaymentType:       cfg.PaymentType,
		DepositPercentage: cfg.DepositPercentage,
	}
}
