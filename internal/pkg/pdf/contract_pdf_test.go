package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func minimalContract() ContractData {
	return ContractData{
		ContractNumber: "CT-000001",
		Title:          "Vehicle Transport",
		Description:    "1. Recitals\nThe Broker coordinates transportation of motor vehicles.",
		TotalAmount:    5000,
		Currency:       "USD",
		PaymentMethod:  "credit_card",
		CustomerName:   "Jane Doe",
		CustomerEmail:  "jane@example.com",
	}
}

func TestRenderContractMinimal(t *testing.T) {
	out, err := RenderContract(minimalContract())
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderContractNumberExtractable(t *testing.T) {
	out, err := RenderContract(minimalContract())
	assert.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("CT-000001")), "contract number must be extractable from the document")
}

func TestRenderContractSignedBlock(t *testing.T) {
	signedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	data := minimalContract()
	data.SignedBy = "Jane Doe"
	data.SignedAt = &signedAt

	signed, err := RenderContract(data)
	assert.NoError(t, err)

	unsigned, err := RenderContract(minimalContract())
	assert.NoError(t, err)
	assert.NotEqual(t, unsigned, signed)
}

func TestRenderContractOptionalSections(t *testing.T) {
	deposit := 500.0
	online := 3000.0
	cod := 2000.0
	pickup := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	data := minimalContract()
	data.PaymentMethod = "split"
	data.DepositAmount = &deposit
	data.AmountPaidOnline = &online
	data.AmountPaidCOD = &cod
	data.PickupDate = &pickup

	out, err := RenderContract(data)
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestHeadingPattern(t *testing.T) {
	assert.True(t, headingPattern.MatchString("1. Recitals"))
	assert.True(t, headingPattern.MatchString("10. Entire Agreement"))
	assert.False(t, headingPattern.MatchString("The Broker shall"))
	assert.False(t, headingPattern.MatchString("IN WITNESS WHEREOF"))
}
