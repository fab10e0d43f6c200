// internal/telemetry/summarize.go
package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Point is one (push timestamp, geomean value) entry of a summary
// series. It marshals as a two-element JSON array to match the
// dashboard's expected `[["2024-01-01 12:00", 5.0], ...]` shape.
type Point struct {
	Time  string
	Value float64
}

// MarshalJSON renders the point as [timestamp, value].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Time, p.Value})
}

// UnmarshalJSON accepts the [timestamp, value] pair form.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &p.Time); err != nil {
		return fmt.Errorf("summary point timestamp: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Value); err != nil {
		return fmt.Errorf("summary point value: %w", err)
	}
	return nil
}

// Series is the summarized value sequence for one pageload type,
// ordered oldest bucket first.
type Series struct {
	Values []Point `json:"values"`
}

// Summary is the final output tree: platform -> application -> variant
// label -> pageload type.
type Summary map[string]map[string]map[string]map[string]*Series

// put inserts a series at the given key, creating intermediate levels.
func (s Summary) put(platform, app, variant, plType string, series *Series) {
	apps, ok := s[platform]
	if !ok {
		apps = make(map[string]map[string]map[string]*Series)
		s[platform] = apps
	}
	variants, ok := apps[app]
	if !ok {
		variants = make(map[string]map[string]*Series)
		apps[app] = variants
	}
	plTypes, ok := variants[variant]
	if !ok {
		plTypes = make(map[string]*Series)
		variants[variant] = plTypes
	}
	plTypes[plType] = series
}

// Walk visits every series in sorted key order at each level. The
// sorted traversal keeps chart and viewer output deterministic.
func (s Summary) Walk(visit func(platform, app, variant, plType string, series *Series)) {
	for _, platform := range sortedKeys(s) {
		apps := s[platform]
		for _, app := range sortedKeys(apps) {
			variants := apps[app]
			for _, variant := range sortedKeys(variants) {
				plTypes := variants[variant]
				for _, plType := range sortedKeys(plTypes) {
					visit(platform, app, variant, plType, plTypes[plType])
				}
			}
		}
	}
}

// Summarize reduces the grouping tree to one value series per
// (platform, app, variant, pageload type) group. Within each group the
// union of push timestamps is bucketed by AggregateTimes; each bucket
// contributes a single point: the arithmetic mean per test over the
// bucket's timestamps, then the geometric mean across those per-test
// means, stamped with the bucket's newest timestamp.
//
// Buckets are ordered by comparing their timestamp lists element by
// element as strings. For the `YYYY-mm-dd HH:MM` format this matches
// chronological order, and downstream consumers depend on that literal
// ordering contract.
//
// A bucket with no contributing tests cannot arise when the buckets
// were built from the tests' own timestamps; it is still rejected with
// an error rather than producing a NaN geomean.
func Summarize(orgData OrganizedData, timespanHours int) (Summary, error) {
	summary := make(Summary)

	for platform, apps := range orgData {
		for app, variants := range apps {
			for variant, plTypes := range variants {
				for plType, tests := range plTypes {
					series, err := summarizeGroup(tests, timespanHours)
					if err != nil {
						return nil, fmt.Errorf(
							"summarizing %s/%s/%s/%s: %w", platform, app, variant, plType, err)
					}
					summary.put(platform, app, variant, plType, series)
				}
			}
		}
	}
	return summary, nil
}

func summarizeGroup(tests map[string]*TestData, timespanHours int) (*Series, error) {
	pushTimes := make(map[string]struct{})
	for _, info := range tests {
		for t := range info.Values {
			pushTimes[t] = struct{}{}
		}
	}

	buckets, err := AggregateTimes(setTokens(pushTimes), timespanHours)
	if err != nil {
		return nil, err
	}
	sort.Slice(buckets, func(i, j int) bool {
		return lessStringSlices(buckets[i], buckets[j])
	})

	series := &Series{Values: []Point{}}
	for _, times := range buckets {
		vals := make(map[string][]float64)
		for _, t := range times {
			for test, info := range tests {
				if _, ok := info.Values[t]; !ok {
					continue
				}
				vals[test] = append(vals[test], info.Values[t]...)
			}
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("no test values found for bucket starting at %s", times[0])
		}

		testMeans := make([]float64, 0, len(vals))
		for _, v := range vals {
			testMeans = append(testMeans, mean(v))
		}
		series.Values = append(series.Values, Point{
			Time:  times[len(times)-1],
			Value: geoMean(testMeans),
		})
	}
	return series, nil
}

// lessStringSlices is a lexicographic element-by-element comparison.
func lessStringSlices(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
