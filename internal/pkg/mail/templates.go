package mail

import (
	"fmt"
	"strings"
	"time"
)

// ContractInvite carries everything the signature-invitation email needs.
// Optional fields degrade gracefully: an empty PaymentLinkURL or PDFURL
// simply omits the corresponding call-to-action block.
type ContractInvite struct {
	CustomerName     string
	ContractNumber   string
	ContractTitle    string
	TotalAmount      float64
	Currency         string
	SignURL          string
	PaymentLinkURL   string
	PDFURL           string
	PaymentMethod    string
	AmountPaidOnline *float64
	AmountPaidCOD    *float64
}

const (
	headerStyle = "background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;"
	greenHeader = "background: linear-gradient(135deg, #28a745 0%, #20c997 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;"
	bodyStyle   = "background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #e0e0e0;"
	buttonStyle = "background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;"
	payButton   = "background: #28a745; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;"
)

func htmlPage(title, header, subheader, headerCSS, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="%s">
<h1 style="color: white; margin: 0;">%s</h1>
<p style="color: white; margin: 10px 0 0 0;">%s</p>
</div>
<div style="%s">
%s
</div>
<div style="text-align: center; margin-top: 20px; padding: 20px; color: #999; font-size: 12px;">
<p>This is an automated email. Please do not reply to this message.</p>
<p>&copy; %d Caravan Transport LLC. All rights reserved.</p>
</div>
</body>
</html>`, title, headerCSS, header, subheader, bodyStyle, body, time.Now().Year())
}

// ContractInviteHTML renders the "please review and sign" email.
func ContractInviteHTML(in ContractInvite) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", in.CustomerName)
	b.WriteString("<p>We are pleased to present you with a contract for your vehicle transportation services.</p>\n")

	b.WriteString(`<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea;">` + "\n")
	b.WriteString(`<h2 style="margin-top: 0; color: #667eea;">Contract Details</h2>` + "\n")
	fmt.Fprintf(&b, "<p><strong>Contract Number:</strong> %s</p>\n", in.ContractNumber)
	fmt.Fprintf(&b, "<p><strong>Title:</strong> %s</p>\n", in.ContractTitle)
	fmt.Fprintf(&b, "<p><strong>Total Amount:</strong> %s $%.2f</p>\n", in.Currency, in.TotalAmount)

	switch in.PaymentMethod {
	case "cod":
		fmt.Fprintf(&b, `<p style="color: #856404; background: #fff3cd; padding: 10px; border-radius: 4px; margin-top: 10px;"><strong>Payment Method:</strong> Cash on Delivery (COD)<br>You will pay $%.2f in cash to the driver upon delivery.</p>`+"\n", in.TotalAmount)
	case "split":
		online, cod := 0.0, 0.0
		if in.AmountPaidOnline != nil {
			online = *in.AmountPaidOnline
		}
		if in.AmountPaidCOD != nil {
			cod = *in.AmountPaidCOD
		}
		fmt.Fprintf(&b, `<p style="color: #004085; background: #cce5ff; padding: 10px; border-radius: 4px; margin-top: 10px;"><strong>Payment Method:</strong> Split Payment<br>Online Payment: %s $%.2f<br>Cash on Delivery: %s $%.2f</p>`+"\n", in.Currency, online, in.Currency, cod)
	default:
		b.WriteString("<p><strong>Payment Method:</strong> Credit Card (Full Payment Online)</p>\n")
	}
	b.WriteString("</div>\n")

	fmt.Fprintf(&b, `<div style="text-align: center; margin: 30px 0;"><a href="%s" style="%s">Review &amp; Sign Contract</a></div>`+"\n", in.SignURL, buttonStyle)

	if in.PDFURL != "" {
		fmt.Fprintf(&b, `<div style="text-align: center; margin: 20px 0;"><p style="margin-bottom: 10px;"><strong>Download Contract PDF:</strong></p><a href="%s" style="background: #6c757d; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">Download PDF</a></div>`+"\n", in.PDFURL)
	}

	if in.PaymentLinkURL != "" && in.PaymentMethod != "cod" {
		label := "Pay Now"
		prompt := "Make payment:"
		if in.PaymentMethod == "split" {
			prompt = "Make online payment:"
			if in.AmountPaidOnline != nil {
				label = fmt.Sprintf("Pay $%.2f", *in.AmountPaidOnline)
			}
		}
		fmt.Fprintf(&b, `<div style="text-align: center; margin: 20px 0;"><p style="margin-bottom: 10px;"><strong>%s</strong></p><a href="%s" style="%s">%s</a></div>`+"\n", prompt, in.PaymentLinkURL, payButton, label)
	} else if in.PaymentMethod == "cod" {
		b.WriteString(`<div style="text-align: center; margin: 20px 0; padding: 15px; background: #fff3cd; border-radius: 5px;"><p style="margin: 0; color: #856404;"><strong>Payment will be collected in cash upon delivery.</strong></p></div>` + "\n")
	}

	b.WriteString(`<p style="margin-top: 30px; font-size: 14px; color: #666;">Please review the contract terms carefully. By signing, you agree to all terms and conditions outlined in the agreement.</p>` + "\n")
	b.WriteString("<p style=\"margin-top: 20px;\">If you have any questions, please don't hesitate to contact us.</p>\n")
	b.WriteString(`<p style="margin-top: 30px;">Best regards,<br><strong>Caravan Transport LLC</strong></p>` + "\n")

	return htmlPage("Contract for Signature", "Caravan Transport", "Contract for Signature", headerStyle, b.String())
}

// ContractOpenedHTML renders the admin alert fired the first time a customer
// opens a sent contract.
func ContractOpenedHTML(contractNumber, contractTitle, customerName, customerEmail string, openedAt time.Time) string {
	body := fmt.Sprintf(`<p>Hello,</p>
<p>The customer has opened and viewed the contract.</p>
<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea;">
<h2 style="margin-top: 0; color: #667eea;">Contract Details</h2>
<p><strong>Contract Number:</strong> %s</p>
<p><strong>Title:</strong> %s</p>
<p><strong>Customer:</strong> %s</p>
<p><strong>Customer Email:</strong> %s</p>
<p><strong>Opened At:</strong> %s</p>
</div>
<p style="margin-top: 30px;">This is an automated notification from Caravan Transport CRM.</p>`,
		contractNumber, contractTitle, customerName, customerEmail, openedAt.Format("Jan 2, 2006 3:04 PM"))

	return htmlPage("Contract Opened Notification", "Contract Opened", "Customer has viewed the contract", headerStyle, body)
}

// ContractSignedHTML renders the admin alert naming the signer.
func ContractSignedHTML(contractNumber, contractTitle, customerName, customerEmail, signedBy string, signedAt time.Time) string {
	body := fmt.Sprintf(`<p>Hello,</p>
<p>The customer has successfully signed the contract.</p>
<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #28a745;">
<h2 style="margin-top: 0; color: #28a745;">Contract Details</h2>
<p><strong>Contract Number:</strong> %s</p>
<p><strong>Title:</strong> %s</p>
<p><strong>Customer:</strong> %s</p>
<p><strong>Customer Email:</strong> %s</p>
<p><strong>Signed By:</strong> %s</p>
<p><strong>Signed At:</strong> %s</p>
</div>
<p style="margin-top: 30px;">The contract is now active and ready for processing.</p>
<p style="margin-top: 20px;">This is an automated notification from Caravan Transport CRM.</p>`,
		contractNumber, contractTitle, customerName, customerEmail, signedBy, signedAt.Format("Jan 2, 2006 3:04 PM"))

	return htmlPage("Contract Signed Notification", "Contract Signed", "Customer has signed the contract", greenHeader, body)
}

// SignedConfirmationHTML renders the customer-facing confirmation after
// signing. ViewURL may be empty when the contract has no token, in which case
// the view button is omitted.
func SignedConfirmationHTML(customerName, contractNumber, viewURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", customerName)
	fmt.Fprintf(&b, "<p>Thank you for signing the contract <strong>%s</strong>.</p>\n", contractNumber)
	b.WriteString("<p>Your contract has been successfully signed and is now active.</p>\n")
	if viewURL != "" {
		fmt.Fprintf(&b, `<div style="text-align: center; margin: 30px 0;"><a href="%s" style="%s">View Contract</a></div>`+"\n", viewURL, buttonStyle)
		b.WriteString(`<p style="font-size: 12px; color: #666; margin-top: 20px;">Note: This link provides secure, read-only access to your contract. You will not have access to the admin dashboard.</p>` + "\n")
	}
	b.WriteString(`<p>Best regards,<br><strong>Caravan Transport LLC</strong></p>` + "\n")

	return htmlPage("Contract Signed", "Contract Signed", "Thank you for signing", greenHeader, b.String())
}

// PaymentConfirmationHTML renders the payment-received confirmation.
// ContractNumber may be empty for payments that arrive without metadata.
func PaymentConfirmationHTML(customerName string, amount float64, currency, paymentID, contractNumber string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", customerName)
	b.WriteString("<p>We have successfully received your payment.</p>\n")
	b.WriteString(`<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #28a745;">` + "\n")
	b.WriteString(`<h2 style="margin-top: 0; color: #28a745;">Payment Details</h2>` + "\n")
	fmt.Fprintf(&b, "<p><strong>Amount:</strong> %s $%.2f</p>\n", currency, amount)
	fmt.Fprintf(&b, "<p><strong>Payment ID:</strong> %s</p>\n", paymentID)
	if contractNumber != "" {
		fmt.Fprintf(&b, "<p><strong>Contract Number:</strong> %s</p>\n", contractNumber)
	}
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>\n", time.Now().Format("1/2/2006"))
	b.WriteString("</div>\n")
	b.WriteString(`<p style="margin-top: 30px;">Your payment has been processed and your account has been updated accordingly.</p>` + "\n")
	b.WriteString("<p style=\"margin-top: 20px;\">If you have any questions about this payment, please contact us.</p>\n")
	b.WriteString(`<p style="margin-top: 30px;">Best regards,<br><strong>Caravan Transport LLC</strong></p>` + "\n")

	return htmlPage("Payment Confirmation", "Payment Received", "Thank you for your payment", greenHeader, b.String())
}
