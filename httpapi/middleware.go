package httpapi

import (
	"net/http"
	"strings"

	"github.com/nimbushq/nimbusflags/pkg/tenant"
)

const (
	headerAPIKey       = "X-Api-Key"
	headerSessionToken = "X-Session-Token"
)

// requireAPIKey authenticates machine callers. On success the tenant is
// stashed on the request context; handlers pass its ID explicitly into
// service calls.
func (a *api) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t, ok := a.resolveAPIKey(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), t)))
	})
}

// requireSession authenticates dashboard callers via session token.
func (a *api) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t, ok := a.resolveSession(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), t)))
	})
}

// requireTenant accepts either authentication scheme: machine API keys and
// dashboard sessions both administer flags.
func (a *api) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get(headerAPIKey)) != "" {
			t, ok := a.resolveAPIKey(w, r)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), t)))
			return
		}

		t, ok := a.resolveSession(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), t)))
	})
}

func (a *api) resolveAPIKey(w http.ResponseWriter, r *http.Request) (tenant.Tenant, bool) {
	apiKey := strings.TrimSpace(r.Header.Get(headerAPIKey))

	t, err := a.tenants.ResolveAPIKey(r.Context(), apiKey)
	if err != nil {
		respondError(w, http.StatusUnauthorized, codeAPIKeyInvalid, "invalid or missing API key")
		return tenant.Tenant{}, false
	}
	return t, true
}

func (a *api) resolveSession(w http.ResponseWriter, r *http.Request) (tenant.Tenant, bool) {
	rawToken := strings.TrimSpace(r.Header.Get(headerSessionToken))
	if rawToken == "" {
		respondError(w, http.StatusUnauthorized, codeSessionMissing, "invalid or missing session token")
		return tenant.Tenant{}, false
	}

	s, err := a.sessions.Resolve(r.Context(), rawToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "invalid or expired session token")
		return tenant.Tenant{}, false
	}

	t, err := a.tenants.GetByID(r.Context(), s.TenantID)
	if err != nil || !t.Active {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "invalid or expired session token")
		return tenant.Tenant{}, false
	}
	return t, true
}
