package domain

import "time"

// Shop holds the OAuth credential for one merchant store. The access token is
// stored encrypted and only decrypted at the point of an outbound API call.
type Shop struct {
	ID          string    `json:"id,omitempty"`
	Domain      string    `json:"shop"`
	AccessToken string    `json:"-"`
	Scopes      []string  `json:"scopes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ShopSettings are the per-shop storefront presentation and automation
// settings consumed by the storefront script and the inventory webhook.
type ShopSettings struct {
	Shop       string    `json:"shop"`
	AutoEnable bool      `json:"autoEnable"`
	AutoRevert bool      `json:"autoRevert"`
	ButtonText string    `json:"buttonText"`
	BadgeText  string    `json:"badgeText"`
	NoteText   string    `json:"noteText"`
	ShipETA    string    `json:"shipEta"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DefaultSettings returns the settings used when a shop has never saved any.
func DefaultSettings(shop string) *ShopSettings {
	return &ShopSettings{
		Shop:       shop,
		AutoEnable: true,
		AutoRevert: false,
		ButtonText: "Preorder",
		BadgeText:  "Preorder",
		NoteText:   "This item is on preorder. Ships soon.",
	}
}
