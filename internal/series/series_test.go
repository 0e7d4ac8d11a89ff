package series

import (
	"errors"
	"testing"
	"time"

	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/KaramelBytes/barnlog/internal/table"
	"github.com/google/go-cmp/cmp"
)

func sensorTable() *table.Table {
	return &table.Table{
		Name:   "d-sensor3.xlsx",
		Header: []string{"date", "time", "Distance", "note"},
		Rows: [][]string{
			{"2024-03-02", "10:00:00", "52", "b"},
			{"2024-03-01", "10:00:00", "50", "a"},
			{"2024-03-02", "09:00:00", "err", "bad"},
			{"2024-03-01", "11:00:00", "51", "c"},
			{"2024-03-01", "11:00:00", "", "empty"},
		},
	}
}

func TestCleanDropsAndSorts(t *testing.T) {
	s, err := Clean(sensorTable(), Options{Columns: DefaultColumns()})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if diff := cmp.Diff([]float64{50, 51, 52}, s.Values); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 6}, s.Dropped); diff != "" {
		t.Fatalf("dropped rows (-want +got):\n%s", diff)
	}
	if !s.Sorted || !s.ByTimestamp {
		t.Fatalf("expected timestamp sort, got sorted=%v byTimestamp=%v", s.Sorted, s.ByTimestamp)
	}
	if s.Read != 5 || s.Len() != 3 {
		t.Fatalf("read=%d len=%d", s.Read, s.Len())
	}
	want := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	if !s.Times[1].Equal(want) {
		t.Fatalf("Times[1] = %v, want %v", s.Times[1], want)
	}
	if s.Table.Rows[0][3] != "a" {
		t.Fatalf("rows not reordered with values: %v", s.Table.Rows)
	}
}

func TestCleanWithoutTimeColumnsKeepsOrder(t *testing.T) {
	tb := &table.Table{Name: "x.csv", Header: []string{"distance"}, Rows: [][]string{{"3"}, {"1"}, {"2"}}}
	s, err := Clean(tb, Options{Columns: DefaultColumns()})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if s.Sorted {
		t.Fatalf("did not expect sorting without date/time columns")
	}
	if diff := cmp.Diff([]float64{3, 1, 2}, s.Values); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestCleanFallsBackToTextOrder(t *testing.T) {
	tb := &table.Table{
		Name:   "x.csv",
		Header: []string{"date", "time", "distance"},
		Rows: [][]string{
			{"day-b", "t1", "2"},
			{"day-a", "t2", "1"},
		},
	}
	s, err := Clean(tb, Options{Columns: DefaultColumns()})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !s.Sorted || s.ByTimestamp {
		t.Fatalf("expected text sort, got sorted=%v byTimestamp=%v", s.Sorted, s.ByTimestamp)
	}
	if diff := cmp.Diff([]float64{1, 2}, s.Values); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestCleanMissingValueColumn(t *testing.T) {
	tb := &table.Table{Name: "x.csv", Header: []string{"depth"}}
	_, err := Clean(tb, Options{Columns: DefaultColumns()})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestTimelineRejectsBadRows(t *testing.T) {
	_, err := Timeline(sensorTable(), Options{Columns: DefaultColumns()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTimelineSortsBySerialTimestamps(t *testing.T) {
	tb := &table.Table{
		Name:   "d-sesnor1.xlsx",
		Header: []string{"date", "time", "distance"},
		Rows: [][]string{
			{"45352", "0.5", "20"},
			{"45352", "0.25", "10"},
		},
	}
	s, err := Timeline(tb, Options{Columns: DefaultColumns()})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if diff := cmp.Diff([]float64{10, 20}, s.Values); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	want := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	if !s.Times[0].Equal(want) {
		t.Fatalf("Times[0] = %v, want %v", s.Times[0], want)
	}
}

func TestKeepSelectsFilteredRows(t *testing.T) {
	tb := &table.Table{
		Name:   "x.csv",
		Header: []string{"distance", "id"},
		Rows:   [][]string{{"1", "a"}, {"100", "b"}, {"2", "c"}, {"3", "d"}, {"4", "e"}},
	}
	s, err := Clean(tb, Options{Columns: DefaultColumns()})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	out := s.Keep(segment.Filter(s.Values, segment.Params{Threshold: 3, MinLength: 3}))
	want := [][]string{{"2", "c"}, {"3", "d"}, {"4", "e"}}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
}
