package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	pkgsecrets "github.com/Wpsi1337/exile-tracker/pkg/secrets"
)

// Resolver resolves the poe.ninja session cookie. Resolution order:
// an explicitly configured value wins, then AWS Secrets Manager
// ({env}/poe-ninja/session, field "cookie"), cached in-memory with TTL.
// The cookie is optional; an absent secret resolves to "".
type Resolver struct {
	logger   *zap.Logger
	env      string
	explicit string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[string]
}

// NewResolver constructs a session cookie resolver. provider may be nil when
// no secrets backend is configured; explicit (from env/flag) still works.
func NewResolver(
	logger *zap.Logger,
	env string,
	explicit string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[string],
) *Resolver {
	return &Resolver{
		logger:   logger,
		env:      env,
		explicit: explicit,
		provider: provider,
		cache:    cache,
	}
}

// secretName builds the AWS Secrets Manager key for the session secret.
func (r *Resolver) secretName() string {
	return strings.ToLower(fmt.Sprintf("%s/poe-ninja/session", r.env))
}

// SessionCookie returns the cookie to attach to upstream requests, or "" if
// none is configured anywhere.
func (r *Resolver) SessionCookie(ctx context.Context) (string, error) {
	if r.explicit != "" {
		return r.explicit, nil
	}
	if r.provider == nil {
		return "", nil
	}

	name := r.secretName()
	if cookie, ok := r.cache.Get(name); ok {
		return cookie, nil
	}

	secretMap, err := r.provider.GetSecret(ctx, name)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", name),
			zap.Error(err))
		return "", fmt.Errorf("resolve session cookie: %w", err)
	}

	cookie := secretMap["cookie"]
	if cookie == "" {
		return "", fmt.Errorf("secret %q has no 'cookie' field", name)
	}

	r.cache.Put(name, cookie)
	r.logger.Info("aws.session_cookie_resolved", zap.String("key", name))
	return cookie, nil
}
