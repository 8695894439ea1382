package catalog

import "strings"

// FilterOutlets applies the storefront search/category filter to a snapshot.
// A non-empty trimmed search term takes precedence and makes category inert:
// the term is matched case-insensitively as a substring of the outlet's name,
// its location, or any one of its tags. With no term, a set category filters
// by exact equality. With neither, the snapshot is returned unmodified.
// Snapshot order is preserved; no ranking is applied.
func FilterOutlets(outlets []Outlet, searchTerm string, category OutletType) []Outlet {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	if term != "" {
		matched := make([]Outlet, 0, len(outlets))
		for _, o := range outlets {
			if strings.Contains(strings.ToLower(o.Name), term) ||
				strings.Contains(strings.ToLower(o.Location), term) ||
				anyTagContains(o.Tags, term) {
				matched = append(matched, o)
			}
		}
		return matched
	}
	if category != "" {
		matched := make([]Outlet, 0, len(outlets))
		for _, o := range outlets {
			if o.Type == category {
				matched = append(matched, o)
			}
		}
		return matched
	}
	return outlets
}

func anyTagContains(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// ProductsForOutlet returns the products owned by outletID, in snapshot order.
// No existence check is made for the outlet itself.
func ProductsForOutlet(products []Product, outletID string) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if p.OutletID == outletID {
			matched = append(matched, p)
		}
	}
	return matched
}

// OrphanedProducts returns products whose owning outlet no longer exists.
// Outlet deletion does not cascade, so these accumulate until cleaned up.
func OrphanedProducts(products []Product, outlets []Outlet) []Product {
	known := make(map[string]struct{}, len(outlets))
	for _, o := range outlets {
		known[o.ID] = struct{}{}
	}
	orphaned := make([]Product, 0)
	for _, p := range products {
		if _, ok := known[p.OutletID]; !ok {
			orphaned = append(orphaned, p)
		}
	}
	return orphaned
}
