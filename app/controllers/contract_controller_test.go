package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/contracts"
	"github.com/caravantransport/caravan-crm/internal/pkg/mail"
	"github.com/caravantransport/caravan-crm/internal/pkg/payments"
)

const (
	verifyTestUUID  = "c0000000-0000-0000-0000-000000000042"
	verifyTestToken = "tokentokentokentokentokentokentokentokentokentokentokentokentoke"
)

// stubContractRepo serves exactly one contract for handler tests.
type stubContractRepo struct {
	contract *models.Contract
}

func (r *stubContractRepo) Create(c *models.Contract) error { return nil }
func (r *stubContractRepo) GetByID(id uint) (*models.Contract, error) {
	if r.contract != nil && r.contract.ID == id {
		cp := *r.contract
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubContractRepo) GetByUUID(uuid string) (*models.Contract, error) {
	if r.contract != nil && r.contract.UUID == uuid {
		cp := *r.contract
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubContractRepo) Update(c *models.Contract) error                       { return nil }
func (r *stubContractRepo) Delete(id uint) error                                  { return nil }
func (r *stubContractRepo) List(offset, limit int) ([]models.Contract, error)     { return nil, nil }
func (r *stubContractRepo) ListByCustomer(customerID uint) ([]models.Contract, error) {
	return nil, nil
}
func (r *stubContractRepo) Count() (int64, error) { return 1, nil }
func (r *stubContractRepo) MarkSent(id uint, token, paymentLinkID, paymentLinkURL string) error {
	return nil
}
func (r *stubContractRepo) MarkSigned(id uint, signedBy, signatureURL string, signedAt time.Time) error {
	return nil
}
func (r *stubContractRepo) MarkSignedByPayment(id uint, signedAt time.Time) error { return nil }

type noopDispatcher struct{}

func (noopDispatcher) Send(ctx context.Context, msg mail.Message) mail.Result {
	return mail.Result{Sent: true}
}

type noopProvisioner struct{}

func (noopProvisioner) CreatePaymentLink(ctx context.Context, amountCents int64, currency, productName string, metadata map[string]string) (*payments.PaymentLink, error) {
	return nil, payments.ErrNotConfigured
}

func newVerifyTestApp(t *testing.T) *fiber.App {
	t.Helper()

	contract := &models.Contract{
		ID:             42,
		UUID:           verifyTestUUID,
		ContractNumber: "CT-000042",
		Title:          "Vehicle Transport - 2019 Subaru Outback",
		TotalAmount:    950,
		Currency:       "USD",
		PaymentMethod:  models.PaymentMethodCOD,
		Status:         models.ContractStatusSigned,
		SignedBy:       "Dana Whitfield",
		SigningToken:   verifyTestToken,
		CustomerID:     7,
		Customer: &models.Customer{
			ID:        7,
			FirstName: "Dana",
			LastName:  "Whitfield",
			Email:     "dana@example.com",
		},
	}

	service := contracts.NewService(&repository.Repositories{
		Contract: &stubContractRepo{contract: contract},
	}, noopProvisioner{}, noopDispatcher{}, contracts.Config{
		AppURL:     "https://crm.example.com",
		AdminEmail: "dispatch@example.com",
	})
	InitializeContractController(service)

	app := fiber.New()
	app.Get("/api/contracts/:uuid/verify", HandleVerifyContract)
	return app
}

func TestHandleVerifyContractAuthorized(t *testing.T) {
	app := newVerifyTestApp(t)

	req := httptest.NewRequest("GET", "/api/contracts/"+verifyTestUUID+"/verify?token="+verifyTestToken, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Authorized bool `json:"authorized"`
		Contract   struct {
			ContractNumber string `json:"contract_number"`
			SignedBy       string `json:"signed_by"`
		} `json:"contract"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Authorized)
	assert.Equal(t, "CT-000042", body.Contract.ContractNumber)
	assert.Equal(t, "Dana Whitfield", body.Contract.SignedBy)
}

func TestHandleVerifyContractBadToken(t *testing.T) {
	app := newVerifyTestApp(t)

	for _, target := range []string{
		"/api/contracts/" + verifyTestUUID + "/verify",
		"/api/contracts/" + verifyTestUUID + "/verify?token=not-the-token",
	} {
		req := httptest.NewRequest("GET", target, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Authorized bool   `json:"authorized"`
			Error      string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Authorized)
		assert.NotEmpty(t, body.Error)
	}
}

func TestHandleVerifyContractUnknownContract(t *testing.T) {
	app := newVerifyTestApp(t)

	req := httptest.NewRequest("GET", "/api/contracts/missing-uuid/verify?token="+verifyTestToken, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Authorized bool `json:"authorized"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Authorized)
}
