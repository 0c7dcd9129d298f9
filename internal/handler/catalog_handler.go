package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/middleware"
	"github.com/GTDGit/gtd_portal/internal/utils"
	"github.com/GTDGit/gtd_portal/internal/view"
)

// CatalogLoader loads grouped catalogs.
type CatalogLoader interface {
	Load(ctx context.Context, auth catalog.TokenSource, kind catalog.Kind, filters map[string]string) ([]catalog.ProviderGroup, error)
}

// CatalogHandler serves customer price lists.
type CatalogHandler struct {
	loader CatalogLoader
	views  *view.Registry
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(loader CatalogLoader, views *view.Registry) *CatalogHandler {
	return &CatalogHandler{loader: loader, views: views}
}

type priceListResponse struct {
	Kind      catalog.Kind            `json:"kind"`
	Providers []catalog.ProviderGroup `json:"providers"`
	Count     int                     `json:"count"`
}

// GetPriceList handles GET /v1/price-list/:kind?search=&<filters>.
func (h *CatalogHandler) GetPriceList(c *gin.Context) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.ErrInvalidKind.Error(), "kind must be prepaid or postpaid")
		return
	}

	groups, err := h.loader.Load(c.Request.Context(), middleware.AuthContext(c), kind, filtersFromQuery(c, "search"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	groups = catalog.ApplySearch(groups, c.Query("search"))
	utils.Success(c, http.StatusOK, "Price list retrieved successfully", priceListResponse{
		Kind:      kind,
		Providers: groups,
		Count:     catalog.CountProducts(groups),
	})
}

type viewResponse struct {
	Loading    bool                    `json:"loading"`
	Kind       catalog.Kind            `json:"kind,omitempty"`
	Pending    catalog.Kind            `json:"pendingKind,omitempty"`
	Providers  []catalog.ProviderGroup `json:"providers"`
	Count      int                     `json:"count"`
	Generation uint64                  `json:"generation"`
	UpdatedAt  *time.Time              `json:"updatedAt,omitempty"`
	Error      *ErrorDetail            `json:"error,omitempty"`
}

func newViewResponse(s view.State, search string) viewResponse {
	groups := catalog.ApplySearch(s.Groups, search)
	resp := viewResponse{
		Loading:    s.Loading,
		Kind:       s.Kind,
		Pending:    s.Pending,
		Providers:  groups,
		Count:      catalog.CountProducts(groups),
		Generation: s.Generation,
		Error:      errorDetail(s.Err),
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// RefreshView handles POST /v1/views/price-list/refresh?kind=&search=&<filters>.
// A refresh overtaken by a newer one for the same session answers 409 with
// the view's current state.
func (h *CatalogHandler) RefreshView(c *gin.Context) {
	kind, err := catalog.ParseKind(c.DefaultQuery("kind", string(catalog.KindPrepaid)))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.ErrInvalidKind.Error(), "kind must be prepaid or postpaid")
		return
	}

	ac := middleware.AuthContext(c)
	v := h.views.Get(ac.SessionID())
	search := c.Query("search")

	state, err := v.Refresh(c.Request.Context(), ac, kind, filtersFromQuery(c, "search", "kind"))
	switch {
	case errors.Is(err, view.ErrSuperseded):
		utils.ErrorWithData(c, http.StatusConflict, view.ErrSuperseded.Error(), "A newer refresh replaced this one", newViewResponse(state, search))
	case err != nil:
		respondError(c, err, newViewResponse(state, search))
	default:
		utils.Success(c, http.StatusOK, "Price list refreshed", newViewResponse(state, search))
	}
}

// GetView handles GET /v1/views/price-list?search=.
func (h *CatalogHandler) GetView(c *gin.Context) {
	sid := middleware.AuthContext(c).SessionID()
	state := h.views.Get(sid).Snapshot()
	utils.Success(c, http.StatusOK, "Price list view", newViewResponse(state, c.Query("search")))
}

// filtersFromQuery forwards every query parameter except the reserved ones.
// Only the first value of repeated parameters is kept.
func filtersFromQuery(c *gin.Context, reserved ...string) map[string]string {
	skip := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		skip[r] = true
	}
	filters := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if skip[k] || len(vs) == 0 {
			continue
		}
		filters[k] = vs[0]
	}
	return filters
}
