// Package constants holds shared domain-level constant values.
package constants

const (
	// EnvDevelop is the development environment name.
	EnvDevelop = "develop"
	// EnvProduction is the production environment name.
	EnvProduction = "production"

	// PubSubProviderLocal selects the local HTTP push publisher.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects the Google Pub/Sub publisher.
	PubSubProviderGoogle = "google"

	// SessionCookieName is the HTTP-only session cookie exported after a
	// successful authentication.
	SessionCookieName = "pb_auth"

	// TelegramAuthMaxAgeSeconds is the freshness window for login-widget
	// payloads. auth_date exactly this old is still accepted.
	TelegramAuthMaxAgeSeconds = 3600
)
