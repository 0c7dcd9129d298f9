package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/gtd_portal/internal/catalog"
)

// SourceResult is the outcome of loading one catalog kind. Err is set when
// that source failed; Providers is then empty.
type SourceResult struct {
	Kind      catalog.Kind            `json:"kind"`
	Providers []catalog.ProviderGroup `json:"providers"`
	Count     int                     `json:"count"`
	Err       error                   `json:"-"`
}

// AdminProducts holds both catalogs for the admin product list.
type AdminProducts struct {
	Prepaid  SourceResult `json:"prepaid"`
	Postpaid SourceResult `json:"postpaid"`
}

// Failed reports whether both sources failed.
func (p AdminProducts) Failed() bool {
	return p.Prepaid.Err != nil && p.Postpaid.Err != nil
}

// AdminProductService builds the admin product list.
type AdminProductService struct {
	loader catalogLoader
}

type catalogLoader interface {
	Load(ctx context.Context, auth catalog.TokenSource, kind catalog.Kind, filters map[string]string) ([]catalog.ProviderGroup, error)
}

// NewAdminProductService constructs an AdminProductService.
func NewAdminProductService(loader catalogLoader) *AdminProductService {
	return &AdminProductService{loader: loader}
}

// ListProducts loads prepaid and postpaid concurrently. Each source succeeds
// or fails on its own, so one failing list never hides the other.
func (s *AdminProductService) ListProducts(ctx context.Context, auth catalog.TokenSource, filters map[string]string, search string) AdminProducts {
	var out AdminProducts
	var g errgroup.Group

	load := func(kind catalog.Kind, dst *SourceResult) func() error {
		return func() error {
			dst.Kind = kind
			groups, err := s.loader.Load(ctx, auth, kind, filters)
			if err != nil {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("admin product source failed")
				dst.Err = err
				dst.Providers = []catalog.ProviderGroup{}
				return nil
			}
			dst.Providers = catalog.ApplySearch(groups, search)
			dst.Count = catalog.CountProducts(dst.Providers)
			return nil
		}
	}

	g.Go(load(catalog.KindPrepaid, &out.Prepaid))
	g.Go(load(catalog.KindPostpaid, &out.Postpaid))
	_ = g.Wait()

	return out
}
