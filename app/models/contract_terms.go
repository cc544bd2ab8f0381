package models

import "strings"

// SignaturePlaceholder is the literal marker inside the terms body that gets
// replaced with the signer's name once the contract is signed.
const SignaturePlaceholder = "[Customer Signature Will Appear Here]"

// DefaultContractTerms seeds the description of new contracts. Numbered
// headings ("1. Recitals", ...) are rendered in bold by the PDF renderer.
const DefaultContractTerms = `Car Shipping Broker-Customer Agreement

1. Recitals
The Broker is engaged in the business of coordinating the transportation of motor vehicles and desires to contract with qualified motor carriers (Third-Party Drivers) for the pick-up and delivery of vehicles on behalf of its customers. The Customer desires to utilize the Broker's services to arrange for the transportation of their vehicle(s).

2. Services to be Provided
The Broker agrees to coordinate the logistics for the transportation of the Customer's vehicle(s) by contracting with licensed and insured Third-Party Drivers. The Broker will provide the Customer with a Bill of Lading upon pick-up, which will serve as a receipt for the vehicle and outline the terms of transport.

3. Compensation
The Customer agrees to compensate the Broker for services rendered as per the rates agreed upon for each specific shipment, as outlined in the separate booking confirmation or invoice. Payment terms shall be specified therein.

4. Insurance
The Broker will ensure that Third-Party Drivers maintain adequate insurance coverage as required by law, including but not limited to, cargo insurance, general liability insurance, and automobile liability insurance. The Customer understands that the Broker is not an insurer and is not responsible for direct damages to the vehicle. Any claims for damage must be filed directly with the Third-Party Driver's insurance carrier.

5. Responsibilities of the Broker
The Broker shall use reasonable diligence to arrange for the safe and timely pick-up and delivery of the Customer's vehicle(s).
The Broker shall provide the Customer with regular updates on the status of their shipment.
The Broker shall act as a liaison between the Customer and the Third-Party Driver to resolve any issues that may arise during transit.

6. Responsibilities of the Customer
The Customer shall ensure that the vehicle is in good working order or clearly note any existing damage on the Bill of Lading at the time of pick-up.
The Customer shall remove all personal belongings from the vehicle prior to shipment. The Broker and Third-Party Driver are not responsible for lost or damaged personal items.
The Customer shall be available to receive the vehicle at the designated delivery location or arrange for an authorized representative to do so.
The Customer shall notify the Broker immediately of any changes to the pick-up or delivery schedule, or any issues concerning the vehicle.

7. Independent Contractor Status
The Third-Party Drivers are and shall remain independent contractors. Nothing in this Agreement shall be construed to create an employer-employee relationship, partnership, or joint venture between the Broker and the Third-Party Driver, or between the Customer and the Third-Party Driver.

8. Term and Termination
This Agreement shall commence on the Effective Date and shall continue until the completion of the transportation services, unless terminated earlier by either party with written notice.

9. Governing Law
This Agreement shall be governed by and construed in accordance with the laws of the State of PA.

10. Entire Agreement
This Agreement constitutes the entire understanding between the parties and supersedes all prior agreements, understandings, and negotiations, whether written or oral.

IN WITNESS WHEREOF, the parties have executed this Agreement as of the date first written above.

Broker: Caravan Transport LLC

_________________________
Authorized Representative

Customer:

_________________________
` + SignaturePlaceholder + `
`

// TermsWithSignature substitutes the signature placeholder with the signer's
// name. The terms are returned unchanged when no placeholder is present.
func TermsWithSignature(terms, signedBy string) string {
	if signedBy == "" {
		return terms
	}
	return strings.ReplaceAll(terms, SignaturePlaceholder, signedBy)
}
