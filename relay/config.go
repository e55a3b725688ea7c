package relay

// Config holds the relay server settings.
type Config struct {
	// ListenAddr is the address the relay listens on, e.g. ":8080".
	ListenAddr string

	// ProviderUpstreams overrides the upstream API URL per provider name.
	// Empty or missing entries use the provider's production URL.
	ProviderUpstreams map[string]string
}
