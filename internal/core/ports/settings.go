package ports

// Settings exposes the deployment target's connection parameters to the
// command composer.
type Settings interface {
	// BaseURL returns the tracking backend's base URL.
	BaseURL() string
	// APIKey returns the credential launched containers use to report back.
	APIKey() string
}
