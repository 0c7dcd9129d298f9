package catalog

// Entry pairs a raw record with its normalized product.
type Entry struct {
	Raw        Record
	Normalized Product
}

// GroupByProvider folds entries into brand groups in one left-to-right pass.
// Groups appear in the order their brand was first seen and products keep
// their input order. Brands are compared by exact string equality.
func GroupByProvider(entries []Entry) []ProviderGroup {
	groups := make([]ProviderGroup, 0)
	index := make(map[string]int)

	for _, e := range entries {
		brand := brandOf(e.Raw)
		i, ok := index[brand]
		if !ok {
			i = len(groups)
			index[brand] = i
			groups = append(groups, ProviderGroup{Provider: brand, Products: []Product{}})
		}
		groups[i].Products = append(groups[i].Products, e.Normalized)
	}
	return groups
}

// brandOf returns "" for nil records, typed nil pointers included.
func brandOf(r Record) string {
	switch rec := r.(type) {
	case nil:
		return ""
	case *PrepaidRecord:
		if rec == nil {
			return ""
		}
	case *PostpaidRecord:
		if rec == nil {
			return ""
		}
	}
	return r.BrandName()
}

// Build normalizes records and groups them by provider.
func Build(records []Record) []ProviderGroup {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Entry{Raw: r, Normalized: Normalize(r)})
	}
	return GroupByProvider(entries)
}

// CountProducts returns the total number of products across groups.
func CountProducts(groups []ProviderGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Products)
	}
	return n
}
