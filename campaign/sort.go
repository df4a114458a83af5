package campaign

import "sort"

// SortTab orders records by hub priority, then by the tab's own sorted focus
// categories. Records with equal ranks keep their insertion order.
func SortTab(records []ProductRecord, hubs []string) []ProductRecord {
	hubRank := make(map[string]int, len(hubs))
	for i, hub := range hubs {
		if _, exists := hubRank[hub]; !exists {
			hubRank[hub] = i
		}
	}

	categories := make([]string, 0)
	seen := make(map[string]struct{})
	for _, record := range records {
		if _, ok := seen[record.FocusCategory]; ok {
			continue
		}
		seen[record.FocusCategory] = struct{}{}
		categories = append(categories, record.FocusCategory)
	}
	sort.Strings(categories)
	categoryRank := make(map[string]int, len(categories))
	for i, category := range categories {
		categoryRank[category] = i
	}

	rank := func(record ProductRecord) (int, int) {
		h, ok := hubRank[record.Hub]
		if !ok {
			h = len(hubs)
		}
		c, ok := categoryRank[record.FocusCategory]
		if !ok {
			c = len(categories)
		}
		return h, c
	}

	sorted := append([]ProductRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, ci := rank(sorted[i])
		hj, cj := rank(sorted[j])
		if hi != hj {
			return hi < hj
		}
		return ci < cj
	})
	return sorted
}

// BuildAllProducts lists every product id once, ascending, with its image URL.
func BuildAllProducts(name string, pids map[int64]struct{}, images ImageLookup) AllProductsTab {
	ids := make([]int64, 0, len(pids))
	for pid := range pids {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]ProductImage, 0, len(ids))
	for _, pid := range ids {
		rows = append(rows, ProductImage{PID: pid, ImgURL: lookupURL(images, pid)})
	}
	return AllProductsTab{Name: name, Rows: rows}
}
