package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// ProviderError carries the provider's human readable message. Error returns
// only that message so it can be shown to the visitor as is.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

func providerError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = fmt.Sprintf("stripe: %s (status %d)", se.Type, se.HTTPStatusCode)
		}
		return &ProviderError{
			StatusCode: se.HTTPStatusCode,
			Code:       string(se.Code),
			Message:    msg,
			Err:        err,
		}
	}
	return &ProviderError{Message: err.Error(), Err: err}
}
