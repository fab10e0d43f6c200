// internal/telemetry/organize.go
package telemetry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TestData holds everything recorded for one composite test name: the
// normalized extra-options set it was classified under and the raw
// values keyed by push timestamp.
type TestData struct {
	ExtraOptions map[string]struct{}
	Values       map[string][]float64
}

// OrganizedData is the nested grouping tree built from the raw CSV:
// platform -> application -> variant label -> pageload type ->
// composite test name.
type OrganizedData map[string]map[string]map[string]map[string]map[string]*TestData

// testData walks the tree to the leaf for the given classification key,
// creating any missing intermediate levels. Repeated calls with the
// same key return the same leaf.
func (o OrganizedData) testData(platform, app, variant, plType, testName string) *TestData {
	apps, ok := o[platform]
	if !ok {
		apps = make(map[string]map[string]map[string]map[string]*TestData)
		o[platform] = apps
	}
	variants, ok := apps[app]
	if !ok {
		variants = make(map[string]map[string]map[string]*TestData)
		apps[app] = variants
	}
	plTypes, ok := variants[variant]
	if !ok {
		plTypes = make(map[string]map[string]*TestData)
		variants[variant] = plTypes
	}
	tests, ok := plTypes[plType]
	if !ok {
		tests = make(map[string]*TestData)
		plTypes[plType] = tests
	}
	td, ok := tests[testName]
	if !ok {
		td = &TestData{Values: make(map[string][]float64)}
		tests[testName] = td
	}
	return td
}

// Organize filters and reshapes the raw CSV rows (header included) into
// the grouping tree. Rows are kept only when their extra options mark
// them as cold or warm pageload runs and not live-site runs. An empty
// platforms slice means no platform filtering.
//
// Two rows that classify to the same composite test name must carry the
// same normalized extra-options set; a mismatch means the grouping key
// is mixing data and is a fatal error.
func Organize(rows [][]string, platforms []string) (OrganizedData, error) {
	fields, err := ResolveFields(rows[0])
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		wanted[p] = struct{}{}
	}

	orgData := make(OrganizedData)
	for _, row := range rows[1:] {
		platform := row[fields.Platform]
		if len(wanted) > 0 {
			if _, ok := wanted[platform]; !ok {
				continue
			}
		}

		test := row[fields.Suite]
		app := row[fields.App]
		extras := strings.Fields(row[fields.Extra])
		variants := "e10s"
		plType := "cold"

		// Without the warm/cold marker we might start pulling in data
		// from mozperftest tests.
		if !hasToken(extras, "warm") && !hasToken(extras, "cold") {
			continue
		}

		// Always ignore live site data.
		if hasToken(extras, "live") {
			continue
		}

		if hasToken(extras, "warm") {
			plType = "warm"
		}

		if hasToken(extras, "fission") {
			variants += "fission-"
		}
		if hasToken(extras, "webrender") {
			variants += "webrender"
		}
		if variants != "e10s" {
			variants = strings.ReplaceAll(variants, "e10s", "")
		}

		// Newer data no longer has the nocondprof option and older data
		// didn't have the visual flag.
		extras = dropToken(extras, "nocondprof")
		if !hasToken(extras, "visual") {
			extras = append(extras, "visual")
		}

		sortedExtras := append([]string(nil), extras...)
		sort.Strings(sortedExtras)
		testName := fmt.Sprintf("%s-%s", test, app) + strings.Join(sortedExtras, "-")

		td := orgData.testData(platform, app, variants, plType, testName)
		if td.ExtraOptions == nil {
			td.ExtraOptions = toSet(extras)
		} else if !sameSet(td.ExtraOptions, toSet(extras)) {
			return nil, fmt.Errorf(
				"inconsistent extra options for test %s: have %v, row has %v",
				testName, setTokens(td.ExtraOptions), sortedExtras,
			)
		}

		value, err := strconv.ParseFloat(row[fields.Value], 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric value %q for test %s: %w", row[fields.Value], testName, err)
		}
		timestamp := row[fields.Time]
		td.Values[timestamp] = append(td.Values[timestamp], value)
	}

	if len(orgData) == 0 {
		present := make(map[string]struct{})
		for _, row := range rows[1:] {
			present[row[fields.Platform]] = struct{}{}
		}
		return nil, fmt.Errorf(
			"could not find any requested platforms in the data, possible choices are: %v",
			setTokens(present),
		)
	}
	return orgData, nil
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func dropToken(tokens []string, unwanted string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if t != unwanted {
			out = append(out, t)
		}
	}
	return out
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func setTokens(set map[string]struct{}) []string {
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}
