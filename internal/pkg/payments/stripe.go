package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caravantransport/caravan-crm/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

// ErrNotConfigured signals that the payment processor has no usable
// credentials. Callers must treat this as a hard failure when an online
// amount is owed, and must not call the provisioner at all when it is not.
var ErrNotConfigured = errors.New("payment processor is not configured")

// PaymentLink is a hosted checkout page created by the processor.
type PaymentLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// LinkProvisioner creates hosted payment links. The lifecycle service only
// depends on this contract.
type LinkProvisioner interface {
	CreatePaymentLink(ctx context.Context, amountCents int64, currency, productName string, metadata map[string]string) (*PaymentLink, error)
}

// Config holds the Stripe credentials. Injected at construction time so the
// unconfigured-processor path is a testable state, not an env singleton.
type Config struct {
	SecretKey     string
	WebhookSecret string
	APIBaseURL    string
}

// ConfigFromEnv reads the Stripe settings from the process environment.
func ConfigFromEnv() Config {
	return Config{
		SecretKey:     strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		WebhookSecret: strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		APIBaseURL:    strings.TrimSpace(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL)),
	}
}

// Configured reports whether a real secret key is present. The placeholder
// value from .env.example counts as unconfigured.
func (c Config) Configured() bool {
	return c.SecretKey != "" && c.SecretKey != "sk_test_..."
}

// StripeClient talks to the Stripe REST API over form-encoded HTTP.
type StripeClient struct {
	cfg        Config
	HTTPClient *http.Client
}

func NewStripeClient(cfg Config) *StripeClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultStripeAPIBaseURL
	}
	return &StripeClient{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type stripePrice struct {
	ID string `json:"id"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreatePaymentLink creates a Price for the given amount and wraps it in a
// Payment Link. Metadata is attached to the link so the webhook can resolve
// the contract later.
func (c *StripeClient) CreatePaymentLink(ctx context.Context, amountCents int64, currency, productName string, metadata map[string]string) (*PaymentLink, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if amountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}

	priceForm := url.Values{}
	priceForm.Set("currency", strings.ToLower(currency))
	priceForm.Set("unit_amount", strconv.FormatInt(amountCents, 10))
	priceForm.Set("product_data[name]", productName)

	var price stripePrice
	if err := c.postForm(ctx, "/v1/prices", priceForm, &price); err != nil {
		return nil, fmt.Errorf("create price: %w", err)
	}

	linkForm := url.Values{}
	linkForm.Set("line_items[0][price]", price.ID)
	linkForm.Set("line_items[0][quantity]", "1")
	for k, v := range metadata {
		linkForm.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var link PaymentLink
	if err := c.postForm(ctx, "/v1/payment_links", linkForm, &link); err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	return &link, nil
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr stripeError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe api %s: %s", path, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe api %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}

// AmountToCents converts a decimal currency value to integer cents.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
