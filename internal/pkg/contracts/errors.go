package contracts

import "errors"

var (
	// ErrContractNotFound signals that no contract matches the identifier.
	ErrContractNotFound = errors.New("contract not found")

	// ErrCustomerNotFound signals a contract without a resolvable customer.
	ErrCustomerNotFound = errors.New("customer not found for this contract")

	// ErrUnauthorized signals a missing or mismatched signing token.
	ErrUnauthorized = errors.New("invalid or expired signing token")

	// ErrAlreadySigned signals a sign attempt on an already signed contract.
	// Signing is deliberately not idempotent: the second attempt is rejected.
	ErrAlreadySigned = errors.New("contract already signed")

	// ErrMissingToken signals a resend on a contract that was never sent.
	ErrMissingToken = errors.New("contract does not have a signing token; send the contract first")

	// ErrProcessorNotConfigured aborts a send that requires an online payment
	// when the payment processor has no credentials. Nothing is persisted.
	ErrProcessorNotConfigured = errors.New("payment processor is not configured")

	// ErrValidation wraps malformed or missing request input.
	ErrValidation = errors.New("validation failed")
)
