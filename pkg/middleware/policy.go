package middleware

import (
	"errors"
	"net/http"

	"catalog-api/internal/policy"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

// Authorize evaluates p without an object before the handler runs.
// Ownership is checked by the service once the object is loaded.
func Authorize(p policy.Policy, objectLevel bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := policy.ActorFromContext(r.Context())
			action := policy.ActionFromRequest(r.Method, objectLevel)

			err := p.Authorize(actor, action, nil)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("Request denied",
				zap.String("policy", p.Name),
				zap.String("action", string(action)),
				zap.String("path", r.URL.Path),
				userIDField(r),
			)

			if errors.Is(err, utils.ErrUnauthorized) {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
				return
			}
			utils.ResponseForbidden(w, "You do not have permission to perform this action")
		})
	}
}
