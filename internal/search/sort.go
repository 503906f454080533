package search

import "sort"

// SortResults sorts results by score (descending), then by date (newest
// first). Equal results keep their index order.
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Entry.DateUnix > results[j].Entry.DateUnix
		}
		return results[i].Score > results[j].Score
	})
}
