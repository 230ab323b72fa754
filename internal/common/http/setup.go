package http

import (
	"net/http"

	"github.com/dlcaspar/apt-journal/backend/internal/common/constants"
	"github.com/dlcaspar/apt-journal/backend/internal/common/httpmetrics"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
)

// BuildBaseHandler wires the outer middleware chain shared by every route.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler)))))
}
