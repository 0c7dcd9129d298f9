package digiflazz

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Amount is a lenient integer: it accepts JSON numbers and numeric strings.
// Anything else (null, booleans, garbage strings, values outside int64) decodes
// to 0 instead of failing the record.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = 0
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Round(f)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	*a = Amount(f)
	return nil
}

// Flag is a strict boolean: only JSON true is true.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag(bytes.Equal(bytes.TrimSpace(b), []byte("true")))
	return nil
}

// Text accepts JSON strings; numbers keep their literal form, anything else is "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = Text(n.String())
	}
	return nil
}

// BaseItem holds the fields shared by prepaid and postpaid records.
type BaseItem struct {
	ProductName         Text `json:"product_name"`
	Category            Text `json:"category"`
	Brand               Text `json:"brand"`
	Type                Text `json:"type"`
	SellerName          Text `json:"seller_name"`
	BuyerSkuCode        Text `json:"buyer_sku_code"`
	BuyerProductStatus  Flag `json:"buyer_product_status"`
	SellerProductStatus Flag `json:"seller_product_status"`
	Desc                Text `json:"desc"`
}

// PrepaidItem is one prepaid record from the backend price list.
type PrepaidItem struct {
	BaseItem
	Price          Amount `json:"price"`
	UnlimitedStock Flag   `json:"unlimited_stock"`
	Stock          Amount `json:"stock"`
	Multi          Flag   `json:"multi"`
	StartCutOff    Text   `json:"start_cut_off"`
	EndCutOff      Text   `json:"end_cut_off"`
}

// PostpaidItem is one postpaid record from the backend price list. The admin
// fee stands in for the price.
type PostpaidItem struct {
	BaseItem
	Admin      Amount `json:"admin"`
	Commission Amount `json:"commission"`
}

// DecodePrepaidItems decodes an envelope's data field. A missing or non-array
// value yields an empty list; elements that are not JSON objects are skipped.
func DecodePrepaidItems(data json.RawMessage) []PrepaidItem {
	elems := splitArray(data)
	items := make([]PrepaidItem, 0, len(elems))
	for i, el := range elems {
		var it PrepaidItem
		if err := json.Unmarshal(el, &it); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping malformed prepaid record")
			continue
		}
		items = append(items, it)
	}
	return items
}

// DecodePostpaidItems is the postpaid counterpart of DecodePrepaidItems.
func DecodePostpaidItems(data json.RawMessage) []PostpaidItem {
	elems := splitArray(data)
	items := make([]PostpaidItem, 0, len(elems))
	for i, el := range elems {
		var it PostpaidItem
		if err := json.Unmarshal(el, &it); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping malformed postpaid record")
			continue
		}
		items = append(items, it)
	}
	return items
}

func splitArray(data json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil
	}
	out := elems[:0]
	for _, el := range elems {
		if !bytes.Equal(bytes.TrimSpace(el), []byte("null")) {
			out = append(out, el)
		}
	}
	return out
}
