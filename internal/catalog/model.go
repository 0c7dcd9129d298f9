package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects the prepaid or postpaid price list.
type Kind string

const (
	KindPrepaid  Kind = "prepaid"
	KindPostpaid Kind = "postpaid"
)

// ParseKind accepts "prepaid", "postpaid" and the provider's "pasca" alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prepaid", "prabayar":
		return KindPrepaid, nil
	case "postpaid", "pasca", "pascabayar":
		return KindPostpaid, nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}

// Availability is the display status of a product.
type Availability string

const (
	Available   Availability = "available"
	Maintenance Availability = "maintenance"
	Unavailable Availability = "unavailable"
)

// PostpaidTypeLabel is the type shown for every postpaid product.
const PostpaidTypeLabel = "Pascabayar"

// Stock is either unlimited or a finite count.
type Stock struct {
	Unlimited bool
	Count     int64
}

// UnlimitedStock is the sentinel for products without a stock limit.
var UnlimitedStock = Stock{Unlimited: true}

// MarshalJSON encodes unlimited stock as "unlimited" and counts as numbers.
func (s Stock) MarshalJSON() ([]byte, error) {
	if s.Unlimited {
		return []byte(`"unlimited"`), nil
	}
	return json.Marshal(s.Count)
}

func (s Stock) String() string {
	if s.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", s.Count)
}

// CutOff is the daily window in which a prepaid product cannot be bought.
type CutOff struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Product is the unified display model for one provider record. Prepaid-only
// and postpaid-only fields are nil for the other kind.
type Product struct {
	Name        string       `json:"name"`
	Price       int64        `json:"price"`
	Status      Availability `json:"status"`
	SKU         string       `json:"sku"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Type        string       `json:"type"`
	Stock       *Stock       `json:"stock,omitempty"`
	Multi       *bool        `json:"multi,omitempty"`
	CutOff      *CutOff      `json:"cutOff,omitempty"`
	Commission  *int64       `json:"commission,omitempty"`
}

// Purchasable reports whether the product may be offered for purchase.
func (p Product) Purchasable() bool {
	return p.Status == Available
}

// ProviderGroup is the products of one brand in first-seen order.
type ProviderGroup struct {
	Provider string    `json:"provider"`
	Products []Product `json:"products"`
}
