package telemetry

import (
	"strings"
	"testing"
)

var testHeader = []string{"platform", "suite", "extra_options", "tags", "value", "push_timestamp", "application"}

func row(platform, suite, extras, value, timestamp, app string) []string {
	return []string{platform, suite, extras, "", value, timestamp, app}
}

func TestOrganizeFiltersRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		testHeader,
		row("linux", "tp6", "cold visual", "10", "2024-01-01 00:00", "firefox"),
		// No warm/cold marker: mozperftest data, skipped.
		row("linux", "tp6", "visual", "11", "2024-01-01 00:00", "firefox"),
		// Live site data, skipped.
		row("linux", "tp6", "cold live visual", "12", "2024-01-01 00:00", "firefox"),
		// Filtered platform, skipped.
		row("windows", "tp6", "cold visual", "13", "2024-01-01 00:00", "firefox"),
	}

	orgData, err := Organize(rows, []string{"linux"})
	if err != nil {
		t.Fatalf("Organize error: %v", err)
	}

	if len(orgData) != 1 {
		t.Fatalf("expected only linux, got platforms %v", setTokens(toKeySet(orgData)))
	}
	tests := orgData["linux"]["firefox"]["e10s"]["cold"]
	if len(tests) != 1 {
		t.Fatalf("expected a single surviving test, got %d", len(tests))
	}
	for _, td := range tests {
		if got := td.Values["2024-01-01 00:00"]; len(got) != 1 || got[0] != 10 {
			t.Fatalf("unexpected values for surviving row: %v", got)
		}
	}
}

func TestOrganizeEveryRowInExactlyOneLeaf(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		testHeader,
		row("linux", "tp6", "cold visual", "1", "2024-01-01 00:00", "firefox"),
		row("linux", "tp6", "warm visual", "2", "2024-01-01 00:00", "firefox"),
		row("linux", "tp6", "cold fission visual", "3", "2024-01-01 00:00", "firefox"),
		row("macosx", "speedometer", "warm visual", "4", "2024-01-02 00:00", "chrome"),
		row("macosx", "speedometer", "warm visual", "5", "2024-01-02 00:00", "chrome"),
	}

	orgData, err := Organize(rows, nil)
	if err != nil {
		t.Fatalf("Organize error: %v", err)
	}

	total := 0
	for _, apps := range orgData {
		for _, variants := range apps {
			for _, plTypes := range variants {
				for _, tests := range plTypes {
					for _, td := range tests {
						for _, vals := range td.Values {
							total += len(vals)
						}
					}
				}
			}
		}
	}
	if total != 5 {
		t.Fatalf("expected all 5 surviving rows in the tree, got %d", total)
	}
}

func TestOrganizeVariantLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		extras string
		want   string
	}{
		{name: "plain", extras: "cold visual", want: "e10s"},
		{name: "fission", extras: "cold fission visual", want: "fission-"},
		{name: "webrender", extras: "cold webrender visual", want: "webrender"},
		{name: "fission and webrender", extras: "cold fission webrender visual", want: "fission-webrender"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows := [][]string{
				testHeader,
				row("linux", "tp6", tt.extras, "1", "2024-01-01 00:00", "firefox"),
			}
			orgData, err := Organize(rows, nil)
			if err != nil {
				t.Fatalf("Organize error: %v", err)
			}
			if _, ok := orgData["linux"]["firefox"][tt.want]; !ok {
				variants := orgData["linux"]["firefox"]
				t.Fatalf("expected variant label %q, got %v", tt.want, setTokens(toKeySet(variants)))
			}
		})
	}
}

func TestOrganizeNormalizesExtraOptions(t *testing.T) {
	t.Parallel()

	// nocondprof dropped, visual added, reordered tokens land in the
	// same leaf with the same normalized set.
	rows := [][]string{
		testHeader,
		row("linux", "tp6", "warm nocondprof", "1", "2024-01-01 00:00", "firefox"),
		row("linux", "tp6", "visual warm", "2", "2024-01-01 01:00", "firefox"),
		row("linux", "tp6", "warm visual", "3", "2024-01-01 02:00", "firefox"),
	}

	orgData, err := Organize(rows, nil)
	if err != nil {
		t.Fatalf("Organize error: %v", err)
	}

	tests := orgData["linux"]["firefox"]["e10s"]["warm"]
	td, ok := tests["tp6-firefoxvisual-warm"]
	if !ok {
		t.Fatalf("expected composite test name tp6-firefoxvisual-warm, got %v", setTokens(toKeySet(tests)))
	}
	if got := setTokens(td.ExtraOptions); strings.Join(got, " ") != "visual warm" {
		t.Fatalf("unexpected normalized extra options: %v", got)
	}
	if len(td.Values) != 3 {
		t.Fatalf("expected 3 timestamps for the merged test, got %d", len(td.Values))
	}
}

func TestOrganizeInconsistentExtraOptionsIsFatal(t *testing.T) {
	t.Parallel()

	// Both rows produce the composite name tp6-firefoxcold-visual-x-y
	// but normalize to different option sets: {cold,visual,x-y} vs
	// {cold,visual,x,y}. The hyphen-join makes the names collide.
	rows := [][]string{
		testHeader,
		row("linux", "tp6", "cold x-y", "1", "2024-01-01 00:00", "firefox"),
		row("linux", "tp6", "cold x y", "2", "2024-01-01 01:00", "firefox"),
	}

	if _, err := Organize(rows, nil); err == nil {
		t.Fatalf("expected inconsistent extra options error")
	} else if !strings.Contains(err.Error(), "inconsistent extra options") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOrganizeEmptyResultListsPlatforms(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		testHeader,
		row("linux", "tp6", "cold visual", "1", "2024-01-01 00:00", "firefox"),
		row("windows", "tp6", "cold visual", "2", "2024-01-01 00:00", "firefox"),
	}

	_, err := Organize(rows, []string{"android"})
	if err == nil {
		t.Fatalf("expected error for unmatched platform filter")
	}
	if !strings.Contains(err.Error(), "linux") || !strings.Contains(err.Error(), "windows") {
		t.Fatalf("expected present platforms in error, got: %v", err)
	}
}

func TestOrganizeBadNumericValue(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		testHeader,
		row("linux", "tp6", "cold visual", "not-a-number", "2024-01-01 00:00", "firefox"),
	}

	if _, err := Organize(rows, nil); err == nil {
		t.Fatalf("expected error for malformed numeric value")
	}
}

func toKeySet[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}
