package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// apiVersion is the Admin REST API version used for direct calls.
const apiVersion = "2024-07"

type client struct {
	apiKey     string
	apiSecret  string
	app        goshopify.App
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Shopify client adapter.
func NewClient(apiKey, apiSecret string, logger zerolog.Logger) ports.ShopifyClient {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	return &client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		app:       app,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// createClient is a helper to create a goshopify client.
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	cl, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cl, nil
}

// rest makes a direct Admin REST call for the endpoints and parameters the
// go-shopify library does not expose.
func (c *client) rest(ctx context.Context, shop, accessToken, method, path string, body interface{}, out interface{}) error {
	url := fmt.Sprintf("https://%s/admin/api/%s%s", shop, apiVersion, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d, body: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Authentication

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	token, err := c.app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

func (c *client) GetShop(ctx context.Context, shopDomain string, accessToken string) (*goshopify.Shop, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	shop, err := cl.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

// Variant API

type restVariant struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	InventoryItemID int64  `json:"inventory_item_id"`
	InventoryPolicy string `json:"inventory_policy"`
}

func (c *client) SetVariantInventoryPolicy(ctx context.Context, shop string, accessToken string, variantID string, policy domain.InventoryPolicy) error {
	body := map[string]interface{}{
		"variant": map[string]interface{}{
			"id":               variantID,
			"inventory_policy": string(policy),
		},
	}
	path := fmt.Sprintf("/variants/%s.json", variantID)
	if err := c.rest(ctx, shop, accessToken, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to set inventory policy: %w", err)
	}
	return nil
}

func (c *client) VariantsByInventoryItem(ctx context.Context, shop string, accessToken string, inventoryItemID int64) ([]ports.VariantInfo, error) {
	var out struct {
		Variants []restVariant `json:"variants"`
	}
	path := fmt.Sprintf("/variants.json?inventory_item_ids=%d", inventoryItemID)
	if err := c.rest(ctx, shop, accessToken, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list variants by inventory item: %w", err)
	}

	variants := make([]ports.VariantInfo, 0, len(out.Variants))
	for _, v := range out.Variants {
		variants = append(variants, ports.VariantInfo{
			ID:              v.ID,
			ProductID:       v.ProductID,
			InventoryItemID: v.InventoryItemID,
			InventoryPolicy: domain.InventoryPolicy(v.InventoryPolicy),
		})
	}
	return variants, nil
}

// Product metafields

func (c *client) SetProductPreorderMetafield(ctx context.Context, shop string, accessToken string, productID int64) error {
	body := map[string]interface{}{
		"metafield": map[string]interface{}{
			"namespace":      "preorder",
			"key":            "enabled",
			"type":           "boolean",
			"value":          "true",
			"owner_id":       productID,
			"owner_resource": "product",
		},
	}
	if err := c.rest(ctx, shop, accessToken, http.MethodPost, "/metafields.json", body, nil); err != nil {
		return fmt.Errorf("failed to set preorder metafield: %w", err)
	}
	return nil
}

// Storefront integration

func (c *client) CreateScriptTag(ctx context.Context, shop string, accessToken string, src string) error {
	body := map[string]interface{}{
		"script_tag": map[string]interface{}{
			"event": "onload",
			"src":   src,
		},
	}
	if err := c.rest(ctx, shop, accessToken, http.MethodPost, "/script_tags.json", body, nil); err != nil {
		return fmt.Errorf("failed to create script tag: %w", err)
	}
	return nil
}

func (c *client) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error {
	cl, err := c.createClient(shop, accessToken)
	if err != nil {
		return err
	}
	webhook := goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	}
	if _, err := cl.Webhook.Create(ctx, webhook); err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}
