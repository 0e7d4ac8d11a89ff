// Package analysis summarizes segment filter runs for humans and machines.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/barnlog/internal/segment"
	"github.com/KaramelBytes/barnlog/internal/series"
	"github.com/KaramelBytes/barnlog/internal/utils"
	"github.com/google/uuid"
)

// maxSegmentsListed bounds the per-segment section of the Markdown report.
const maxSegmentsListed = 50

// FilterReport describes one segment filter run over one file.
type FilterReport struct {
	RunID       string         `json:"run_id"`
	Name        string         `json:"name"`
	Output      string         `json:"output,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Threshold   float64        `json:"threshold"`
	MinLength   int            `json:"min_segment_length"`
	RowsRead    int            `json:"rows_read"`
	RowsInvalid int            `json:"rows_invalid"`
	RowsKept    int            `json:"rows_kept"`
	Sorted      bool           `json:"sorted"`
	Segments    []SegmentEntry `json:"segments"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// SegmentEntry is one candidate segment. Rows are spreadsheet row numbers of
// the cleaned, sorted data (header is row 1).
type SegmentEntry struct {
	FirstRow int     `json:"first_row"`
	LastRow  int     `json:"last_row"`
	Length   int     `json:"length"`
	Kept     bool    `json:"kept"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// NewFilterReport builds a report from the cleaned series and its summary.
func NewFilterReport(name string, s *series.Series, sum segment.Summary) *FilterReport {
	r := &FilterReport{
		RunID:       uuid.NewString(),
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		Threshold:   sum.Params.Threshold,
		MinLength:   sum.Params.MinLength,
		RowsRead:    s.Read,
		RowsInvalid: len(s.Dropped),
		RowsKept:    sum.KeptCount,
		Sorted:      s.Sorted,
	}
	for _, st := range sum.Segments {
		r.Segments = append(r.Segments, SegmentEntry{
			FirstRow: st.Start + 2,
			LastRow:  st.End + 2,
			Length:   st.Len(),
			Kept:     st.Kept,
			Mean:     st.Mean,
			StdDev:   st.StdDev,
			Min:      st.Min,
			Max:      st.Max,
		})
	}
	if len(s.Dropped) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("dropped %d non-numeric rows (first at row %d)", len(s.Dropped), s.Dropped[0]))
	}
	if s.Sorted && !s.ByTimestamp {
		r.Warnings = append(r.Warnings, "some date/time cells did not parse; rows were ordered by their raw text")
	}
	if sum.Total > 0 && sum.KeptCount == 0 {
		r.Warnings = append(r.Warnings, "no segment reached the minimum length; output is empty")
	}
	return r
}

// KeptSegments counts segments retained in the output.
func (r *FilterReport) KeptSegments() int {
	n := 0
	for _, s := range r.Segments {
		if s.Kept {
			n++
		}
	}
	return n
}

// JSON renders the report as indented JSON.
func (r *FilterReport) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// Markdown renders a compact report.
func (r *FilterReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[FILTER SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Output != "" {
		b.WriteString(fmt.Sprintf("Output: %s\n", r.Output))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Threshold: %g, min segment length: %d\n", r.Threshold, r.MinLength))
	b.WriteString(fmt.Sprintf("Rows: %d read, %d non-numeric, %d kept", r.RowsRead, r.RowsInvalid, r.RowsKept))
	if valid := r.RowsRead - r.RowsInvalid; valid > 0 {
		b.WriteString(fmt.Sprintf(" (%.1f%% of numeric rows)", float64(r.RowsKept)*100/float64(valid)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Segments: %d candidate, %d kept\n", len(r.Segments), r.KeptSegments()))

	if len(r.Segments) > 0 {
		b.WriteString("\n[SEGMENTS]\n")
		b.WriteString("| rows | length | kept | mean | std | min | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
		for i, s := range r.Segments {
			if i == maxSegmentsListed {
				b.WriteString(fmt.Sprintf("| … %d more | | | | | | |\n", len(r.Segments)-maxSegmentsListed))
				break
			}
			kept := "no"
			if s.Kept {
				kept = "yes"
			}
			b.WriteString(fmt.Sprintf("| %d-%d | %d | %s | %.4g | %.4g | %.4g | %.4g |\n",
				s.FirstRow, s.LastRow, s.Length, kept, s.Mean, s.StdDev, s.Min, s.Max))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
