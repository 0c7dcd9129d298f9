package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/middleware"
	"github.com/GTDGit/gtd_portal/internal/service"
	"github.com/GTDGit/gtd_portal/internal/utils"
)

// AdminProductHandler serves the admin product list and price-list sync.
type AdminProductHandler struct {
	products *service.AdminProductService
	sync     *service.SyncService
}

// NewAdminProductHandler constructs an AdminProductHandler.
func NewAdminProductHandler(products *service.AdminProductService, sync *service.SyncService) *AdminProductHandler {
	return &AdminProductHandler{products: products, sync: sync}
}

type sourceResponse struct {
	Kind      catalog.Kind            `json:"kind"`
	Providers []catalog.ProviderGroup `json:"providers"`
	Count     int                     `json:"count"`
	Error     *ErrorDetail            `json:"error,omitempty"`
}

func newSourceResponse(r service.SourceResult) sourceResponse {
	return sourceResponse{Kind: r.Kind, Providers: r.Providers, Count: r.Count, Error: errorDetail(r.Err)}
}

// ListProducts handles GET /v1/admin/products?search=&<filters>. Each list
// carries its own error; the request only fails when both lists fail.
func (h *AdminProductHandler) ListProducts(c *gin.Context) {
	res := h.products.ListProducts(c.Request.Context(), middleware.AuthContext(c), filtersFromQuery(c, "search"), c.Query("search"))
	data := gin.H{
		"prepaid":  newSourceResponse(res.Prepaid),
		"postpaid": newSourceResponse(res.Postpaid),
	}

	if res.Failed() {
		respondError(c, res.Prepaid.Err, data)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved successfully", data)
}

// SyncPrepaid handles POST /v1/admin/products/sync.
func (h *AdminProductHandler) SyncPrepaid(c *gin.Context) {
	run, err := h.sync.SyncPrepaid(c.Request.Context(), middleware.AuthContext(c), service.TriggerManual)
	if err != nil {
		status, d := describeError(err)
		if d.Code == "UPSTREAM_HTTP_ERROR" {
			d.Message = "Failed to sync price list"
		}
		utils.ErrorWithData(c, status, d.Code, d.Message, run)
		return
	}
	utils.Success(c, http.StatusOK, "Prepaid price list synced", run)
}

// SyncHistory handles GET /v1/admin/products/sync/history?limit=.
func (h *AdminProductHandler) SyncHistory(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.sync.History(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, utils.ErrHistoryDisabled) {
			utils.Error(c, http.StatusNotImplemented, utils.ErrHistoryDisabled.Error(), "Sync history is not configured")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load sync history")
		return
	}
	utils.Success(c, http.StatusOK, "Sync history retrieved successfully", gin.H{"runs": runs})
}
