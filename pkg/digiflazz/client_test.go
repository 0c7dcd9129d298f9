package digiflazz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPriceList_Headers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PrepaidPriceListPath, r.URL.Path)
		assert.Equal(t, "Pulsa", r.URL.Query().Get("category"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"brand":"XL"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	env, err := c.GetPriceList(context.Background(), "tok", PrepaidPriceListPath, url.Values{"category": {"Pulsa"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"brand":"XL"}]`, string(env.Data))
}

func TestGetPriceList_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"http status", http.StatusUnauthorized, `{"success":false,"message":"expired"}`, func(t *testing.T, err error) {
			var e *HTTPError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusUnauthorized, e.Status)
		}},
		{"api error", http.StatusOK, `{"success":false,"message":"rate limited"}`, func(t *testing.T, err error) {
			var e *APIError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "rate limited", e.Error())
		}},
		{"garbage", http.StatusOK, `<html>`, func(t *testing.T, err error) {
			var e *NetworkError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "decode", e.Op)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).GetPriceList(context.Background(), "tok", PostpaidPriceListPath, nil)
			tt.check(t, err)
		})
	}
}

func TestSyncPrepaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SyncPrepaidPath, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"total_processed":10,"synced_count":7,"updated_count":3}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second).SyncPrepaid(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.TotalProcessed)
	assert.Equal(t, 7, resp.SyncedCount)
	assert.Equal(t, 3, resp.UpdatedCount)
}

func TestAmount(t *testing.T) {
	tests := map[string]Amount{
		`49500`:      49500,
		`"49500"`:    49500,
		`" 1200 "`:   1200,
		`1500.6`:     1501,
		`-250`:       -250,
		`"abc"`:      0,
		`null`:       0,
		`true`:       0,
		`{"x":1}`:    0,
		`"1e400"`:    0,
		`"1e300"`:    0,
		`9.9e18`:     0,
		`-9.9e18`:    0,
		`1e18`:       1000000000000000000,
	}
	for raw, want := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.Equal(t, want, a, raw)
	}
}

func TestFlagAndText(t *testing.T) {
	var item PrepaidItem
	require.NoError(t, json.Unmarshal([]byte(`{"brand":123,"product_name":null,"multi":"true","unlimited_stock":true}`), &item))
	assert.Equal(t, Text("123"), item.Brand)
	assert.Equal(t, Text(""), item.ProductName)
	assert.False(t, bool(item.Multi))
	assert.True(t, bool(item.UnlimitedStock))
}

func TestDecodeItems(t *testing.T) {
	assert.Empty(t, DecodePrepaidItems(nil))
	assert.Empty(t, DecodePostpaidItems(json.RawMessage(`{"not":"array"}`)))

	items := DecodePostpaidItems(json.RawMessage(`[{"brand":"PLN","admin":"2500","commission":1000}, 5]`))
	require.Len(t, items, 1)
	assert.Equal(t, Amount(2500), items[0].Admin)
	assert.Equal(t, Amount(1000), items[0].Commission)
}
