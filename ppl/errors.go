package ppl

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is retained.
const maxErrorBody = 8 << 10

// APIError is returned by the typed operations when the API answers with a
// non-2xx status. The raw Do method never produces it; status interpretation
// is the typed layer's job.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("ppl: API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("ppl: API returned status %d: %s", e.StatusCode, e.Body)
}

// checkResponse converts a non-2xx response into an *APIError, draining up
// to maxErrorBody of the body for the message.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}
