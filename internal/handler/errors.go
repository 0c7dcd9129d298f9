package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/utils"
)

// statusClientClosedRequest is the non-standard status logged when the caller
// disconnects before the response is ready.
const statusClientClosedRequest = 499

// ErrorDetail describes a failure inside an otherwise successful payload.
type ErrorDetail struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

// describeError maps catalog pipeline errors to an HTTP status and detail.
func describeError(err error) (int, ErrorDetail) {
	var (
		httpErr *catalog.HTTPError
		apiErr  *catalog.APIError
		netErr  *catalog.NetworkError
	)
	switch {
	case errors.Is(err, catalog.ErrAuthMissing):
		return http.StatusUnauthorized, ErrorDetail{Code: "AUTH_MISSING", Message: "Please sign in to continue"}
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, ErrorDetail{Code: "UPSTREAM_API_ERROR", Message: apiErr.Error()}
	case errors.As(err, &httpErr):
		return http.StatusBadGateway, ErrorDetail{Code: "UPSTREAM_HTTP_ERROR", Message: "Failed to load products", UpstreamStatus: httpErr.Status}
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, ErrorDetail{Code: "REQUEST_CANCELLED", Message: "Request was cancelled"}
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrorDetail{Code: "UPSTREAM_UNREACHABLE", Message: "Failed to reach the product service"}
	}
	return http.StatusInternalServerError, ErrorDetail{Code: "INTERNAL_ERROR", Message: "Failed to load products"}
}

// errorDetail returns nil for a nil error.
func errorDetail(err error) *ErrorDetail {
	if err == nil {
		return nil
	}
	_, d := describeError(err)
	return &d
}

func respondError(c *gin.Context, err error, data interface{}) {
	status, d := describeError(err)
	utils.ErrorWithData(c, status, d.Code, d.Message, data)
}
