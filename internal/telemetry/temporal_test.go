package telemetry

import (
	"reflect"
	"sort"
	"testing"
)

func TestAggregateTimesBoundaryIsStrict(t *testing.T) {
	t.Parallel()

	// 23 hours apart: same bucket.
	buckets, err := AggregateTimes([]string{"2024-01-01 00:00", "2024-01-01 23:00"}, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket for a 23h gap, got %d: %v", len(buckets), buckets)
	}

	// Exactly 24 hours apart: different buckets, the boundary is strict.
	buckets, err = AggregateTimes([]string{"2024-01-01 00:00", "2024-01-02 00:00"}, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets for a 24h gap, got %d: %v", len(buckets), buckets)
	}
}

func TestAggregateTimesOrdering(t *testing.T) {
	t.Parallel()

	times := []string{
		"2024-01-03 00:00",
		"2024-01-01 12:00",
		"2024-01-01 00:00",
	}
	buckets, err := AggregateTimes(times, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}

	want := [][]string{
		{"2024-01-01 00:00", "2024-01-01 12:00"},
		{"2024-01-03 00:00"},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("unexpected buckets: got %v want %v", buckets, want)
	}
}

func TestAggregateTimesGapIsRelativeToBucketNewest(t *testing.T) {
	t.Parallel()

	// Each point is 20h from its neighbor but 40h from the bucket's
	// newest member, so the chain breaks at the second point.
	times := []string{
		"2024-01-01 00:00",
		"2024-01-01 20:00",
		"2024-01-02 16:00",
	}
	buckets, err := AggregateTimes(times, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}

	want := [][]string{
		{"2024-01-01 00:00"},
		{"2024-01-01 20:00", "2024-01-02 16:00"},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("unexpected buckets: got %v want %v", buckets, want)
	}
}

func TestAggregateTimesPartitionsInput(t *testing.T) {
	t.Parallel()

	times := []string{
		"2024-02-10 08:30",
		"2024-01-05 00:00",
		"2024-01-05 10:00",
		"2024-01-07 23:59",
		"2024-03-01 00:00",
		"2024-01-06 09:59",
	}
	buckets, err := AggregateTimes(times, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}

	var flattened []string
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			t.Fatalf("empty bucket in result: %v", buckets)
		}
		flattened = append(flattened, bucket...)
	}
	if !sort.StringsAreSorted(flattened) {
		t.Fatalf("concatenated buckets are not in chronological order: %v", flattened)
	}

	wantSorted := append([]string(nil), times...)
	sort.Strings(wantSorted)
	if !reflect.DeepEqual(flattened, wantSorted) {
		t.Fatalf("buckets do not partition the input: got %v want %v", flattened, wantSorted)
	}
}

func TestAggregateTimesMalformedTimestamp(t *testing.T) {
	t.Parallel()

	if _, err := AggregateTimes([]string{"2024-01-01 00:00", "not-a-date"}, 24); err == nil {
		t.Fatalf("expected error for malformed timestamp")
	}
}

func TestAggregateTimesEmptyInput(t *testing.T) {
	t.Parallel()

	buckets, err := AggregateTimes(nil, 24)
	if err != nil {
		t.Fatalf("AggregateTimes error: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets for empty input, got %v", buckets)
	}
}
