package fulfillment

import "errors"

var (
	// ErrMalformedWebhook means the provider payload could not be decoded or
	// is missing the order identifier. Not retriable.
	ErrMalformedWebhook = errors.New("malformed webhook payload")

	// ErrOrderNotFound means the referenced order does not resolve. This
	// indicates an upstream identifier mismatch and should alert an operator.
	ErrOrderNotFound = errors.New("order not found")
)
