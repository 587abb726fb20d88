package rank

import (
	"fmt"
	"sort"

	"github.com/gradewatch/gradewatch/pkg/types"
)

// FilterAll is the data center filter value that means "no filtering".
// An empty filter string is treated the same way.
const FilterAll = "all"

// Rank sorts records by grade descending then progress descending, assigns
// dense ranks with tie groups, and attaches the formatted progress string.
// If dataCenter is non-empty and not FilterAll, only records with that exact
// data center are ranked.
//
// Rank is pure: it copies matching records and never mutates its input. The
// result is sorted by rank ascending. An empty input yields an empty result.
//
// The sort is stable, so records tied on both keys keep their input order.
// Input order is document order from extraction, which may itself vary
// between publications of the source, so intra-tie order is deterministic per
// scrape, not across scrapes.
func Rank(records []types.ServerRecord, dataCenter string) []types.ServerRecord {
	out := make([]types.ServerRecord, 0, len(records))
	for _, r := range records {
		if dataCenter == "" || dataCenter == FilterAll || r.DataCenter == dataCenter {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Grade != out[j].Grade {
			return out[i].Grade > out[j].Grade
		}
		return out[i].ProgressPercentage > out[j].ProgressPercentage
	})

	// Dense competition ranks over the sorted slice: a record opens a new
	// tie group when its key differs from its predecessor's, and the new
	// rank is its position: the count of records ranked before it plus one.
	rank := 1
	for i := range out {
		if i > 0 && !sameKey(out[i], out[i-1]) {
			rank = i + 1
		}
		out[i].Rank = rank
		out[i].Progress = fmt.Sprintf("%.2f%%", out[i].ProgressPercentage*100)
	}
	return out
}

// sameKey reports whether two records fall in the same tie group.
func sameKey(a, b types.ServerRecord) bool {
	return a.Grade == b.Grade && a.ProgressPercentage == b.ProgressPercentage
}

// DataCenters returns the sorted, de-duplicated set of data center names
// present in records.
func DataCenters(records []types.ServerRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		if _, ok := seen[r.DataCenter]; ok {
			continue
		}
		seen[r.DataCenter] = struct{}{}
		out = append(out, r.DataCenter)
	}
	sort.Strings(out)
	return out
}
