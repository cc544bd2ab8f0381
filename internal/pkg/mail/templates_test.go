package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func baseInvite() ContractInvite {
	return ContractInvite{
		CustomerName:   "Jane Doe",
		ContractNumber: "CT-000001",
		ContractTitle:  "Vehicle Transport",
		TotalAmount:    5000,
		Currency:       "USD",
		SignURL:        "https://crm.example.com/sign/abc?token=tok",
		PaymentMethod:  "credit_card",
	}
}

func TestContractInviteHTML(t *testing.T) {
	html := ContractInviteHTML(baseInvite())
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "CT-000001")
	assert.Contains(t, html, "USD $5000.00")
	assert.Contains(t, html, "https://crm.example.com/sign/abc?token=tok")
	assert.Contains(t, html, "Credit Card (Full Payment Online)")
}

func TestContractInviteOmitsAbsentCTAs(t *testing.T) {
	html := ContractInviteHTML(baseInvite())
	assert.NotContains(t, html, "Download PDF")
	assert.NotContains(t, html, "Pay Now")
}

func TestContractInviteWithLinks(t *testing.T) {
	in := baseInvite()
	in.PaymentLinkURL = "https://pay.example.com/x"
	in.PDFURL = "https://crm.example.com/api/contracts/abc/pdf?token=tok"

	html := ContractInviteHTML(in)
	assert.Contains(t, html, "Download PDF")
	assert.Contains(t, html, "https://pay.example.com/x")
	assert.Contains(t, html, "Pay Now")
}

func TestContractInviteCODNeverLinksPayment(t *testing.T) {
	in := baseInvite()
	in.PaymentMethod = "cod"
	in.PaymentLinkURL = "https://pay.example.com/x"

	html := ContractInviteHTML(in)
	assert.NotContains(t, html, "https://pay.example.com/x")
	assert.Contains(t, html, "collected in cash upon delivery")
}

func TestContractInviteSplitBreakdown(t *testing.T) {
	online, cod := 3000.0, 2000.0
	in := baseInvite()
	in.PaymentMethod = "split"
	in.AmountPaidOnline = &online
	in.AmountPaidCOD = &cod
	in.PaymentLinkURL = "https://pay.example.com/x"

	html := ContractInviteHTML(in)
	assert.Contains(t, html, "Online Payment: USD $3000.00")
	assert.Contains(t, html, "Cash on Delivery: USD $2000.00")
	assert.Contains(t, html, "Pay $3000.00")
}

func TestContractOpenedHTML(t *testing.T) {
	html := ContractOpenedHTML("CT-000002", "Transport", "Jane Doe", "jane@example.com", time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC))
	assert.Contains(t, html, "CT-000002")
	assert.Contains(t, html, "jane@example.com")
	assert.Contains(t, html, "Contract Opened")
}

func TestContractSignedHTML(t *testing.T) {
	html := ContractSignedHTML("CT-000003", "Transport", "Jane Doe", "jane@example.com", "John Smith", time.Now())
	assert.Contains(t, html, "Signed By:</strong> John Smith")
}

func TestSignedConfirmationHTMLOmitsMissingViewURL(t *testing.T) {
	withURL := SignedConfirmationHTML("Jane", "CT-000004", "https://crm.example.com/sign/x?token=y")
	assert.Contains(t, withURL, "View Contract")

	withoutURL := SignedConfirmationHTML("Jane", "CT-000004", "")
	assert.NotContains(t, withoutURL, "View Contract")
}

func TestPaymentConfirmationHTML(t *testing.T) {
	html := PaymentConfirmationHTML("Jane", 5000, "USD", "cs_test_123", "CT-000001")
	assert.Contains(t, html, "cs_test_123")
	assert.Contains(t, html, "CT-000001")

	noContract := PaymentConfirmationHTML("Jane", 5000, "USD", "cs_test_123", "")
	assert.False(t, strings.Contains(noContract, "Contract Number"))
}

func TestBuildMIMEMessageWithAttachment(t *testing.T) {
	msg := Message{
		To:      "jane@example.com",
		Subject: "Contract CT-000001",
		HTML:    "<p>hi</p>",
		Attachments: []Attachment{
			{Filename: "contract-CT-000001.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4 test")},
		},
	}
	raw := string(buildMIMEMessage("no-reply@caravantransport.com", msg))
	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, `filename="contract-CT-000001.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	assert.Contains(t, raw, "application/pdf")
}

func TestBuildMIMEMessageWithoutAttachment(t *testing.T) {
	raw := string(buildMIMEMessage("no-reply@caravantransport.com", Message{To: "a@b.c", Subject: "s", HTML: "<p>x</p>"}))
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, raw, "multipart/mixed")
}
