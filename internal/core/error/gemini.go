package errx

import (
	"net/http"
)

// WrapGemini wraps a generation backend error with a consistent status and message.
// The wrapped error is what gets rendered into the diagnostic artifact shown to
// the user when a generation call fails.
func WrapGemini(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, GenerationErrorMessage)
}
