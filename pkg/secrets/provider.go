package secrets

import "context"

// Provider is the generic secrets backend interface. The tracker only needs
// single-key lookups (the poe.ninja session secret), but ListSecrets is kept
// so operators can audit which tracker secrets exist per environment.
type Provider interface {
	// GetSecret retrieves a secret by path, e.g. "dev/poe-ninja/session",
	// decoded into a key-value map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)

	// ListSecrets returns the names of all secrets under the given
	// environment prefix.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}
