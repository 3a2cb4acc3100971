package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func doProxy(t *testing.T, handler *ProxyHandler, target string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.Lookup(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return rec.Code, body
}

func TestProxyMissingParamsIsOkFalse(t *testing.T) {
	handler := NewProxyHandler(newTestPreorderService(newFakePreorderRepo()), zerolog.Nop())

	for _, target := range []string{
		"/proxy",
		"/proxy?productId=p1",
		"/proxy?shop=s.myshopify.com",
	} {
		code, body := doProxy(t, handler, target)
		if code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, code)
		}
		if body["ok"] != false {
			t.Errorf("%s: expected ok=false, got %v", target, body["ok"])
		}
	}
}

func TestProxyStorageErrorIsOkFalse(t *testing.T) {
	repo := newFakePreorderRepo()
	repo.err = &domain.StorageUnavailableError{Err: errors.New("down")}
	handler := NewProxyHandler(newTestPreorderService(repo), zerolog.Nop())

	code, body := doProxy(t, handler, "/proxy?shop=s.myshopify.com&productId=p1")
	if code != http.StatusOK {
		t.Errorf("expected 200 even on storage failure, got %d", code)
	}
	if body["ok"] != false {
		t.Errorf("expected ok=false, got %v", body["ok"])
	}
	if _, leaked := body["error"]; leaked {
		t.Error("storefront response must not carry error details")
	}
}

func TestProxyAbsentConfigIsOkTrueDisabled(t *testing.T) {
	handler := NewProxyHandler(newTestPreorderService(newFakePreorderRepo()), zerolog.Nop())

	code, body := doProxy(t, handler, "/proxy?shop=s.myshopify.com&productId=p1")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["ok"] != true {
		t.Fatalf("absent config is not an error, got ok=%v", body["ok"])
	}
	if body["enabled"] != false {
		t.Errorf("expected enabled=false, got %v", body["enabled"])
	}
	if body["message"] != domain.DefaultMessage {
		t.Errorf("expected default message, got %v", body["message"])
	}
	if body["depositPercentage"] != float64(domain.DefaultDepositPercentage) {
		t.Errorf("expected default deposit, got %v", body["depositPercentage"])
	}
}

func TestProxyReturnsStoredConfig(t *testing.T) {
	repo := newFakePreorderRepo()
	svc := newTestPreorderService(repo)
	handler := NewProxyHandler(svc, zerolog.Nop())

	variantID := "v1"
	repo.Upsert(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &domain.PreorderConfig{
		Shop:              "s.myshopify.com",
		ProductID:         "p1",
		VariantID:         &variantID,
		Enabled:           true,
		Message:           "Ships in March",
		PaymentType:       domain.PaymentDeposit,
		DepositPercentage: 50,
	})

	code, body := doProxy(t, handler, "/proxy?shop=s.myshopify.com&productId=p1&variantId=v1")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["ok"] != true || body["enabled"] != true {
		t.Fatalf("expected enabled view, got %v", body)
	}
	if body["message"] != "Ships in March" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if body["paymentType"] != string(domain.PaymentDeposit) || body["depositPercentage"] != float64(50) {
		t.Errorf("payment fields wrong: %v / %v", body["paymentType"], body["depositPercentage"])
	}
}

func TestProxyVariantLookupIgnoresProductConfig(t *testing.T) {
	repo := newFakePreorderRepo()
	handler := NewProxyHandler(newTestPreorderService(repo), zerolog.Nop())

	repo.Upsert(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &domain.PreorderConfig{
		Shop:      "s.myshopify.com",
		ProductID: "p1",
		Enabled:   true,
		Message:   "product-wide",
	})

	_, body := doProxy(t, handler, "/proxy?shop=s.myshopify.com&productId=p1&variantId=v1")
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if body["enabled"] != false {
		t.Error("variant lookup must not inherit the product-level config")
	}
}
