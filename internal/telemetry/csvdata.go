// internal/telemetry/csvdata.go
// Package telemetry loads, organizes and summarizes browser pageload
// telemetry exported as CSV from the perf dashboard query.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Fields holds the resolved column indices for the CSV columns the
// pipeline reads. Columns are matched by substring so the exported
// header may carry prefixes such as `alert.suite`.
type Fields struct {
	Platform int
	Suite    int
	Extra    int
	Tags     int
	Value    int
	Time     int
	App      int
}

// LoadCSV reads an exported telemetry CSV into memory, header row
// included. Rows may have ragged widths; downstream lookups only touch
// resolved columns.
func LoadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CSV data %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse CSV data %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV data %s is empty", path)
	}
	return rows, nil
}

// FieldIndex returns the index of the first header column whose name
// contains fieldname, or -1 when no column matches.
func FieldIndex(header []string, fieldname string) int {
	for i, entry := range header {
		if strings.Contains(entry, fieldname) {
			return i
		}
	}
	return -1
}

// ResolveFields locates every column the pipeline needs. All columns
// must resolve up front so a missing one is reported by name instead of
// surfacing later as an indexing fault.
func ResolveFields(header []string) (Fields, error) {
	fields := Fields{
		Platform: FieldIndex(header, "platform"),
		Suite:    FieldIndex(header, "suite"),
		Extra:    FieldIndex(header, "extra_options"),
		Tags:     FieldIndex(header, "tags"),
		Value:    FieldIndex(header, "value"),
		Time:     FieldIndex(header, "push_timestamp"),
		App:      FieldIndex(header, "application"),
	}

	missing := []string{}
	for name, ind := range map[string]int{
		"platform":       fields.Platform,
		"suite":          fields.Suite,
		"extra_options":  fields.Extra,
		"tags":           fields.Tags,
		"value":          fields.Value,
		"push_timestamp": fields.Time,
		"application":    fields.App,
	} {
		if ind < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Fields{}, fmt.Errorf("CSV header is missing required columns: %v", missing)
	}
	return fields, nil
}

// PlatformCounts tallies the distinct platform values present in the
// data rows. Used to help correct a --platforms filter that matched
// nothing.
func PlatformCounts(rows [][]string) (map[string]int, error) {
	fields, err := ResolveFields(rows[0])
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, row := range rows[1:] {
		counts[row[fields.Platform]]++
	}
	return counts, nil
}
