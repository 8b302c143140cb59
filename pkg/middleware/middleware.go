package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/paceline-hq/paceline/pkg/composables"
	"github.com/paceline-hq/paceline/pkg/configuration"
	"github.com/paceline-hq/paceline/pkg/constants"
)

// Provide injects an arbitrary value into every request context.
func Provide(key constants.ContextKey, value any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestParams captures per-request metadata into composables.Params.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
				RequestID: r.Header.Get(conf.RequestIDHeader),
				Request:   r,
				Writer:    w,
			}
			ctx := composables.WithParams(r.Context(), params)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProvideIdentity reads the identity collaborator's headers and stores the
// caller identity in the context. Requests without a role header pass
// through without an identity; the controllers reject those.
func ProvideIdentity() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := strings.ToLower(strings.TrimSpace(r.Header.Get(conf.RoleHeader)))
			if role == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity := composables.Identity{Role: role}
			if raw := strings.TrimSpace(r.Header.Get(conf.OrgIDHeader)); raw != "" {
				orgID, err := uuid.Parse(raw)
				if err != nil {
					http.Error(w, "invalid organization id header", http.StatusBadRequest)
					return
				}
				identity.OrganizationID = orgID
			}

			ctx := composables.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant resolves the tenant from the gateway-forwarded header and
// rejects requests without one. Everything behind it runs tenant-scoped.
func RequireTenant() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(conf.TenantIDHeader))
			if raw == "" {
				http.NotFound(w, r)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}

func Cors(allowOrigins ...string) mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler
}

type RateLimitConfig struct {
	RequestsPerPeriod int
	Store             limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// RateLimit applies a global requests-per-second ceiling.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(cfg.RequestsPerPeriod),
	}
	instance := limiter.New(cfg.Store, rate)
	mw := mhttp.NewMiddleware(instance)
	return mw.Handler
}
