package catalog

import (
	"context"
	"errors"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/pkg/digiflazz"
)

// ErrAuthMissing is returned before any network call when no bearer token is
// available.
var ErrAuthMissing = errors.New("AUTH_MISSING")

// Error types surfaced by FetchCatalog.
type (
	HTTPError    = digiflazz.HTTPError
	APIError     = digiflazz.APIError
	NetworkError = digiflazz.NetworkError
)

// TokenSource yields the caller's bearer token.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// PriceLister is the backend call the fetcher depends on.
type PriceLister interface {
	GetPriceList(ctx context.Context, token, path string, filters url.Values) (*digiflazz.Envelope, error)
}

// Fetcher loads raw catalog records from the backend. It does not retry,
// cache or deduplicate.
type Fetcher struct {
	backend PriceLister
}

// NewFetcher constructs a Fetcher.
func NewFetcher(backend PriceLister) *Fetcher {
	return &Fetcher{backend: backend}
}

// FetchCatalog performs a single GET for kind with filters forwarded
// verbatim and returns the decoded records unmodified.
func (f *Fetcher) FetchCatalog(ctx context.Context, auth TokenSource, kind Kind, filters map[string]string) ([]Record, error) {
	token, ok := "", false
	if auth != nil {
		token, ok = auth.Token(ctx)
	}
	if !ok || token == "" {
		return nil, ErrAuthMissing
	}

	path := digiflazz.PrepaidPriceListPath
	if kind == KindPostpaid {
		path = digiflazz.PostpaidPriceListPath
	}

	var query url.Values
	if len(filters) > 0 {
		query = make(url.Values, len(filters))
		for k, v := range filters {
			query.Set(k, v)
		}
	}

	env, err := f.backend.GetPriceList(ctx, token, path, query)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("catalog fetch failed")
		return nil, err
	}

	records := DecodeRecords(kind, env.Data)
	log.Debug().Str("kind", string(kind)).Int("records", len(records)).Msg("catalog fetched")
	return records, nil
}

// Load fetches kind and returns it normalized and grouped by provider.
func (f *Fetcher) Load(ctx context.Context, auth TokenSource, kind Kind, filters map[string]string) ([]ProviderGroup, error) {
	records, err := f.FetchCatalog(ctx, auth, kind, filters)
	if err != nil {
		return nil, err
	}
	return Build(records), nil
}
