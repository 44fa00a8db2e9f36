package billing

import "errors"

var (
	ErrSignatureInvalid      = errors.New("webhook signature verification failed")
	ErrMissingAccessToken    = errors.New("billing provider access token is required")
	ErrMissingWebhookSecret  = errors.New("billing provider webhook secret is required")
	ErrInvalidEnvironment    = errors.New("invalid billing provider environment")
	ErrUnknownProvider       = errors.New("unknown billing provider")
	ErrProviderUnavailable   = errors.New("billing provider unavailable")
	ErrNoCheckoutURL         = errors.New("no checkout URL returned from provider")
	ErrMissingProductID      = errors.New("product id is required")
	ErrMissingExternalUserID = errors.New("external user id is required")
	ErrUnknownProduct        = errors.New("unknown product id")
	ErrInvalidCatalog        = errors.New("invalid product catalog")
)
