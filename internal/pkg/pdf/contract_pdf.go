package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// ErrEmptyDocument is returned when rendering produced no usable output.
var ErrEmptyDocument = errors.New("rendered document is empty")

var headingPattern = regexp.MustCompile(`^\d+\.`)

// ContractData is the snapshot the renderer works from. Rendering is a pure
// function of this struct: no database or network access happens here.
type ContractData struct {
	ContractNumber string
	Title          string
	Description    string
	TotalAmount    float64
	Currency       string
	DepositAmount  *float64
	PaymentMethod  string

	TransportAmount  *float64
	BrokerFeeAmount  *float64
	AmountPaidOnline *float64
	AmountPaidCOD    *float64

	CustomerName  string
	CustomerEmail string

	SignedBy string
	SignedAt *time.Time

	PickupDate        *time.Time
	DeliveryDate      *time.Time
	EstimatedDelivery *time.Time
}

// RenderContract produces the paginated contract document as PDF bytes.
func RenderContract(data ContractData) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	// Uncompressed page streams keep the document text extractable, which
	// downstream tooling relies on when indexing contracts.
	doc.SetCompression(false)
	doc.SetMargins(50, 50, 50)
	doc.SetAutoPageBreak(true, 50)
	doc.AddPage()

	// Header
	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 28, "Caravan Transport LLC", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 16)
	doc.CellFormat(0, 20, "Car Shipping Broker-Customer Agreement", "", 1, "C", false, 0, "")
	doc.Ln(12)

	// Contract information
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 16, fmt.Sprintf("Contract Number: %s", data.ContractNumber), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 16, fmt.Sprintf("Title: %s", data.Title), "", 1, "L", false, 0, "")
	doc.Ln(6)

	// Customer information
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 16, "Customer Information:", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 16, fmt.Sprintf("Name: %s", data.CustomerName), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 16, fmt.Sprintf("Email: %s", data.CustomerEmail), "", 1, "L", false, 0, "")
	doc.Ln(12)

	// Terms, paragraph by paragraph. Numbered headings get emphasis.
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 18, "Contract Terms and Conditions", "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, paragraph := range strings.Split(data.Description, "\n") {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		if headingPattern.MatchString(trimmed) {
			doc.SetFont("Helvetica", "B", 12)
			doc.MultiCell(0, 14, trimmed, "", "L", false)
		} else {
			doc.SetFont("Helvetica", "", 11)
			doc.SetX(doc.GetX() + 20)
			doc.MultiCell(0, 13, trimmed, "", "L", false)
			doc.SetX(doc.GetX() - 20)
		}
		doc.Ln(4)
	}

	// Financial summary
	doc.Ln(8)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 16, "Financial Information:", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 14, fmt.Sprintf("Total Amount: %s $%.2f", data.Currency, data.TotalAmount), "", 1, "L", false, 0, "")

	if data.PaymentMethod != "" {
		doc.CellFormat(0, 14, fmt.Sprintf("Payment Method: %s", paymentMethodLabel(data.PaymentMethod)), "", 1, "L", false, 0, "")
	}

	if data.TransportAmount != nil || data.BrokerFeeAmount != nil {
		doc.Ln(4)
		if data.TransportAmount != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Transport Fee: %s $%.2f", data.Currency, *data.TransportAmount), "", 1, "L", false, 0, "")
		}
		if data.BrokerFeeAmount != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Broker Fee: %s $%.2f", data.Currency, *data.BrokerFeeAmount), "", 1, "L", false, 0, "")
		}
	}

	if data.PaymentMethod == "split" {
		doc.Ln(4)
		if data.AmountPaidOnline != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Amount Paid Online: %s $%.2f", data.Currency, *data.AmountPaidOnline), "", 1, "L", false, 0, "")
		}
		if data.AmountPaidCOD != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Amount Paid COD: %s $%.2f", data.Currency, *data.AmountPaidCOD), "", 1, "L", false, 0, "")
		}
	}

	if data.DepositAmount != nil {
		doc.Ln(4)
		doc.CellFormat(0, 14, fmt.Sprintf("Deposit Amount: %s $%.2f", data.Currency, *data.DepositAmount), "", 1, "L", false, 0, "")
	}

	// Dates, each only when present
	if data.PickupDate != nil || data.DeliveryDate != nil || data.EstimatedDelivery != nil {
		doc.Ln(8)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 16, "Important Dates:", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		if data.PickupDate != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Pickup Date: %s", data.PickupDate.Format("01/02/2006")), "", 1, "L", false, 0, "")
		}
		if data.DeliveryDate != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Delivery Date: %s", data.DeliveryDate.Format("01/02/2006")), "", 1, "L", false, 0, "")
		}
		if data.EstimatedDelivery != nil {
			doc.CellFormat(0, 14, fmt.Sprintf("Estimated Delivery: %s", data.EstimatedDelivery.Format("01/02/2006")), "", 1, "L", false, 0, "")
		}
	}

	// Signature block. The broker line is always pre-printed blank; the
	// customer line is filled once the contract is signed.
	doc.Ln(16)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 16, "Signatures:", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.Ln(8)

	doc.CellFormat(0, 14, "Broker: Caravan Transport LLC", "", 1, "L", false, 0, "")
	doc.Ln(4)
	doc.CellFormat(0, 14, "_________________________", "", 1, "L", false, 0, "")
	doc.Ln(12)

	if data.SignedBy != "" && data.SignedAt != nil {
		doc.CellFormat(0, 14, fmt.Sprintf("Customer: %s", data.SignedBy), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 14, fmt.Sprintf("Signed on: %s", data.SignedAt.Format("01/02/2006")), "", 1, "L", false, 0, "")
	} else {
		doc.CellFormat(0, 14, "Customer:", "", 1, "L", false, 0, "")
		doc.Ln(4)
		doc.CellFormat(0, 14, "_________________________", "", 1, "L", false, 0, "")
	}

	// Footer
	doc.SetY(-40)
	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(0, 10, fmt.Sprintf("Generated on %s", time.Now().Format("01/02/2006")), "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("contract pdf output: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyDocument
	}
	return buf.Bytes(), nil
}

func paymentMethodLabel(method string) string {
	switch method {
	case "credit_card":
		return "Credit Card (Full Payment Online)"
	case "cod":
		return "Cash on Delivery (COD)"
	default:
		return "Split Payment"
	}
}
