package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePaymentLinkNotConfigured(t *testing.T) {
	client := NewStripeClient(Config{})
	_, err := client.CreatePaymentLink(context.Background(), 500000, "USD", "Vehicle Transport", nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestCreatePaymentLinkRejectsZeroAmount(t *testing.T) {
	client := NewStripeClient(Config{SecretKey: "sk_live_abc"})
	_, err := client.CreatePaymentLink(context.Background(), 0, "USD", "Vehicle Transport", nil)
	assert.Error(t, err)
}

func TestCreatePaymentLink(t *testing.T) {
	var priceCalled, linkCalled bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_live_abc", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())

		switch r.URL.Path {
		case "/v1/prices":
			priceCalled = true
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, "500000", r.PostForm.Get("unit_amount"))
			assert.Equal(t, "Vehicle Transport", r.PostForm.Get("product_data[name]"))
			json.NewEncoder(w).Encode(map[string]string{"id": "price_1"})
		case "/v1/payment_links":
			linkCalled = true
			assert.Equal(t, "price_1", r.PostForm.Get("line_items[0][price]"))
			assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
			assert.Equal(t, "uuid-1", r.PostForm.Get("metadata[contract_id]"))
			json.NewEncoder(w).Encode(map[string]string{"id": "plink_1", "url": "https://buy.stripe.test/plink_1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewStripeClient(Config{SecretKey: "sk_live_abc", APIBaseURL: srv.URL})
	link, err := client.CreatePaymentLink(context.Background(), 500000, "USD", "Vehicle Transport", map[string]string{"contract_id": "uuid-1"})
	assert.NoError(t, err)
	assert.True(t, priceCalled)
	assert.True(t, linkCalled)
	assert.Equal(t, "plink_1", link.ID)
	assert.Equal(t, "https://buy.stripe.test/plink_1", link.URL)
}

func TestCreatePaymentLinkSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]map[string]string{"error": {"message": "Invalid API Key provided"}})
	}))
	defer srv.Close()

	client := NewStripeClient(Config{SecretKey: "sk_live_bad", APIBaseURL: srv.URL})
	_, err := client.CreatePaymentLink(context.Background(), 100, "USD", "x", nil)
	assert.ErrorContains(t, err, "Invalid API Key provided")
}
