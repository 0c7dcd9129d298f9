package catalog

import "strings"

// ApplySearch keeps products whose name contains term, ignoring case.
// An empty term returns groups unchanged. Otherwise groups left with no
// matching products are dropped. The input is never modified.
func ApplySearch(groups []ProviderGroup, term string) []ProviderGroup {
	if term == "" {
		return groups
	}
	needle := strings.ToLower(term)

	out := make([]ProviderGroup, 0, len(groups))
	for _, g := range groups {
		var matched []Product
		for _, p := range g.Products {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, ProviderGroup{Provider: g.Provider, Products: matched})
	}
	return out
}
