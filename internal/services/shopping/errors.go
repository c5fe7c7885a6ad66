package shopping

import "errors"

var (
	ErrProviderUnavailable = errors.New("shopping provider is currently unavailable")
	ErrNotConfigured       = errors.New("shopping provider is not configured")
	ErrQuotaExceeded       = errors.New("shopping provider quota exceeded")
	ErrEmptyQuery          = errors.New("empty search query")
)
