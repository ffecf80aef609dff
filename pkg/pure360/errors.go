package pure360

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidRecipient is returned when a recipient is neither a mobile
	// number nor an email address.
	ErrInvalidRecipient = errors.New("not an email address or mobile number")
	// ErrUnsupportedChannel is returned for a channel other than EMAIL or SMS.
	ErrUnsupportedChannel = errors.New("channel must be either EMAIL or SMS")
	// ErrChannelMismatch is returned when the recipient cannot be reached
	// on the requested channel.
	ErrChannelMismatch = errors.New("recipient does not match channel")
	// ErrMissingMessageFields is returned when inline message content lacks
	// a field required by its channel.
	ErrMissingMessageFields = errors.New("missing required message fields")
	// ErrMalformedTransactionResponse is returned when the metadata upload
	// response carries no transaction id.
	ErrMalformedTransactionResponse = errors.New("malformed transaction response")
)

// Error represents a non-success HTTP status returned by the Pure360 API.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

func isErrorStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}

// IsBadRequest checks if the error represents a 400 Bad Request response.
func IsBadRequest(err error) bool {
	return isErrorStatus(err, http.StatusBadRequest)
}

// IsUnauthorized checks if the error represents a 401 Unauthorized response.
func IsUnauthorized(err error) bool {
	return isErrorStatus(err, http.StatusUnauthorized)
}

// IsNotFound checks if the error represents a 404 Not Found response.
func IsNotFound(err error) bool {
	return isErrorStatus(err, http.StatusNotFound)
}
