// Package upstream classifies failures returned by the external HTTP
// services this process depends on.
package upstream

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Error is a non-success response from a downstream HTTP dependency. It
// keeps the status and raw body for diagnosis.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API request failed with status code %d: %s", e.StatusCode, e.Body)
}

// Classify maps client-library errors onto *Error where a status code is
// known, and returns other errors unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}

	return err
}
