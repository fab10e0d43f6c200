// internal/telemetry/temporal.go
package telemetry

import (
	"fmt"
	"sort"
	"time"
)

// TimeLayout is the push timestamp format used throughout the exported
// data. Lexicographic order on these strings matches chronological
// order, which the bucket sorting in Summarize relies on.
const TimeLayout = "2006-01-02 15:04"

// AggregateTimes partitions a set of push timestamps into buckets of
// points that landed close together. The walk runs newest-first: a
// timestamp joins the open bucket while its gap to the bucket's newest
// member is strictly under timespan hours, otherwise the bucket closes
// and a new one opens. The trailing bucket is closed after the walk so
// the buckets always partition the input exactly.
//
// Buckets are returned oldest-first and each bucket's contents are
// ordered oldest-to-newest.
func AggregateTimes(times []string, timespanHours int) ([][]string, error) {
	diff := time.Duration(timespanHours) * time.Hour

	sorted := append([]string(nil), times...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	var buckets [][]string
	var curr []string
	var newest time.Time
	for _, t := range sorted {
		dt, err := time.Parse(TimeLayout, t)
		if err != nil {
			return nil, fmt.Errorf("bad push timestamp %q: %w", t, err)
		}
		switch {
		case len(curr) == 0:
			curr = append(curr, t)
			newest = dt
		case newest.Sub(dt) < diff:
			curr = append(curr, t)
		default:
			buckets = append(buckets, reverseStrings(curr))
			curr = []string{t}
			newest = dt
		}
	}
	if len(curr) > 0 {
		buckets = append(buckets, reverseStrings(curr))
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets, nil
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
