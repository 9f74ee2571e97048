package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Registry and conversion errors
	ErrUnknownPlatform    = fmt.Errorf("unknown platform")
	ErrNotExtractable     = fmt.Errorf("platform cannot be used as a source")
	ErrInvalidURL         = fmt.Errorf("could not extract playlist ID from URL")
	ErrEmptyPlaylist      = fmt.Errorf("playlist is empty or could not be fetched")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrSessionNotFound    = fmt.Errorf("session not found or expired")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// API and input errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ValidationError marks a caller-facing, non-retryable conversion failure:
// unclassifiable URLs, write-only sources, unknown targets, unparseable
// playlist IDs, and empty playlists. The message is shown to the user
// as-is, so it should carry guidance toward a working alternative.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a [ValidationError] wrapping a sentinel error.
func NewValidationError(sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}
