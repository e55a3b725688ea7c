package credentials

import (
	"encoding/json"
	"os"
)

// APIKeysHeader is the request header carrying per-request API keys as a
// JSON object keyed by environment variable name, e.g.
//
//	X-Api-Keys: {"OPENAI_API_KEY":"sk-...","XAI_API_KEY":"xai-..."}
//
// Header keys take lowest precedence; they exist so a client can supply its
// own keys to a relay that has none configured.
const APIKeysHeader = "X-Api-Keys"

// Resolver resolves the API key for a provider, checking sources in order:
// process environment, stored credentials.toml, then the request's
// X-Api-Keys header.
type Resolver struct {
	manager *Manager

	// lookupEnv is swappable for tests; defaults to os.LookupEnv.
	lookupEnv func(string) (string, bool)
}

// NewResolver returns a Resolver backed by the given credentials Manager.
// manager may be nil, in which case stored credentials are skipped.
func NewResolver(manager *Manager) *Resolver {
	return &Resolver{
		manager:   manager,
		lookupEnv: os.LookupEnv,
	}
}

// WithEnvLookup replaces the environment lookup function. Used by tests to
// pin the environment.
func (r *Resolver) WithEnvLookup(lookup func(string) (string, bool)) *Resolver {
	r.lookupEnv = lookup
	return r
}

// Resolve returns the API key for the provider, or an empty string when no
// source has one. headerJSON is the raw X-Api-Keys header value and may be
// empty; malformed header JSON is treated as absent rather than failing the
// request.
func (r *Resolver) Resolve(provider string, headerJSON string) string {
	envVar := EnvVarForProvider(provider)
	if envVar == "" {
		return ""
	}

	if key, ok := r.lookupEnv(envVar); ok && key != "" {
		return key
	}

	if r.manager != nil {
		if key, err := r.manager.GetKey(provider); err == nil && key != "" {
			return key
		}
	}

	if headerJSON != "" {
		var keys map[string]string
		if err := json.Unmarshal([]byte(headerJSON), &keys); err == nil {
			if key := keys[envVar]; key != "" {
				return key
			}
		}
	}

	return ""
}
