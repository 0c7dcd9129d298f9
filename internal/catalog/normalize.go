package catalog

// PrepaidStatus derives availability for prepaid products. A seller outage
// wins over everything else.
func PrepaidStatus(buyer, seller bool) Availability {
	switch {
	case buyer && seller:
		return Available
	case !seller:
		return Maintenance
	default:
		return Unavailable
	}
}

// PostpaidStatus derives availability for postpaid products. There is no
// maintenance state for postpaid.
func PostpaidStatus(buyer, seller bool) Availability {
	if buyer && seller {
		return Available
	}
	return Unavailable
}

// Normalize converts one raw record into its display Product. It never fails;
// a nil record yields an unavailable, empty product.
func Normalize(r Record) Product {
	switch rec := r.(type) {
	case PrepaidRecord:
		return normalizePrepaid(rec)
	case *PrepaidRecord:
		if rec != nil {
			return normalizePrepaid(*rec)
		}
	case PostpaidRecord:
		return normalizePostpaid(rec)
	case *PostpaidRecord:
		if rec != nil {
			return normalizePostpaid(*rec)
		}
	}
	return Product{Status: Unavailable}
}

func normalizePrepaid(r PrepaidRecord) Product {
	stock := Stock{Count: int64(r.Stock)}
	if r.UnlimitedStock {
		stock = UnlimitedStock
	}
	multi := bool(r.Multi)
	return Product{
		Name:        string(r.ProductName),
		Price:       int64(r.Price),
		Status:      PrepaidStatus(bool(r.BuyerProductStatus), bool(r.SellerProductStatus)),
		SKU:         string(r.BuyerSkuCode),
		Description: string(r.Desc),
		Category:    string(r.Category),
		Type:        string(r.Type),
		Stock:       &stock,
		Multi:       &multi,
		CutOff:      &CutOff{Start: string(r.StartCutOff), End: string(r.EndCutOff)},
	}
}

func normalizePostpaid(r PostpaidRecord) Product {
	commission := int64(r.Commission)
	return Product{
		Name:        string(r.ProductName),
		Price:       int64(r.Admin),
		Status:      PostpaidStatus(bool(r.BuyerProductStatus), bool(r.SellerProductStatus)),
		SKU:         string(r.BuyerSkuCode),
		Description: string(r.Desc),
		Category:    string(r.Category),
		Type:        PostpaidTypeLabel,
		Commission:  &commission,
	}
}
