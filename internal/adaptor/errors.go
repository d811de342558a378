package adaptor

import (
	"errors"
	"net/http"

	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var (
		verr *utils.ValidationError
		nf   *utils.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		log.Debug(operation+" validation failed", zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, utils.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseBadRequest(w, "Resource already exists", nil)

	case errors.As(err, &nf):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, capitalize(nf.Error()))

	case errors.Is(err, utils.ErrNotFound):
		// storage-level misses carry constraint names, keep those in the log
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Resource not found")

	case errors.Is(err, utils.ErrUnauthorized):
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, utils.ErrForbidden):
		log.Info(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have permission to perform this action")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
