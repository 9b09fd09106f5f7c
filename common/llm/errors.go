package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// IsTimeout reports whether err comes from a call that ran out of time,
// either through its context deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsMalformed reports whether the upstream answered with an unusable body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// wrapCallError tags body decoding failures as ErrMalformedResponse so the
// generation loop files them as protocol errors rather than plain failures.
func wrapCallError(provider string, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, provider, err)
	}
	return fmt.Errorf("%s generate: %w", provider, err)
}
